package force

import (
	"github.com/peoplesfeelings/mindmap/pkg/errors"
)

// Params holds the tunables of the mind map force model. The zero value is
// not useful; start from DefaultParams.
type Params struct {
	LinkStrength      float64 `toml:"link_strength" mapstructure:"link_strength"`
	LinkIterations    int     `toml:"link_iterations" mapstructure:"link_iterations"`
	Charge            float64 `toml:"charge" mapstructure:"charge"`
	Theta             float64 `toml:"theta" mapstructure:"theta"`
	CollideStrength   float64 `toml:"collide_strength" mapstructure:"collide_strength"`
	CollideIterations int     `toml:"collide_iterations" mapstructure:"collide_iterations"`
	AxisStrength      float64 `toml:"axis_strength" mapstructure:"axis_strength"`
	CenterStrength    float64 `toml:"center_strength" mapstructure:"center_strength"`
	AlphaDecay        float64 `toml:"alpha_decay" mapstructure:"alpha_decay"`
	AlphaMin          float64 `toml:"alpha_min" mapstructure:"alpha_min"`
	VelocityDecay     float64 `toml:"velocity_decay" mapstructure:"velocity_decay"`
}

// DefaultParams returns the tuned mind map force model.
func DefaultParams() Params {
	return Params{
		LinkStrength:      0.4,
		LinkIterations:    5,
		Charge:            -55000,
		Theta:             0.9,
		CollideStrength:   1,
		CollideIterations: 4,
		AxisStrength:      0.3,
		CenterStrength:    0.4,
		AlphaDecay:        0.05,
		AlphaMin:          0.001,
		VelocityDecay:     0.4,
	}
}

// Validate rejects parameters that would stall or explode the simulation.
func (p Params) Validate() error {
	if err := errors.ValidateCount("link_iterations", p.LinkIterations, 1); err != nil {
		return err
	}
	if err := errors.ValidateCount("collide_iterations", p.CollideIterations, 1); err != nil {
		return err
	}
	if err := errors.ValidateFraction("alpha_decay", p.AlphaDecay); err != nil {
		return err
	}
	if err := errors.ValidateFraction("velocity_decay", p.VelocityDecay); err != nil {
		return err
	}
	if err := errors.ValidateFraction("alpha_min", p.AlphaMin); err != nil {
		return err
	}
	if p.Theta < 0 {
		return errors.New(errors.ErrCodeInvalidOption, "theta must not be negative, got %v", p.Theta)
	}
	return nil
}
