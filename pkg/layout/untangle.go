package layout

import (
	"github.com/peoplesfeelings/mindmap/pkg/errors"
)

// UntangleParams describe the temporary model used by Engine.Untangle.
type UntangleParams struct {
	Steps          int     `toml:"steps" mapstructure:"steps"`
	ChargeFactor   float64 `toml:"charge_factor" mapstructure:"charge_factor"`
	DistanceFactor float64 `toml:"distance_factor" mapstructure:"distance_factor"`
	LinkStrength   float64 `toml:"link_strength" mapstructure:"link_strength"`
	VelocityDecay  float64 `toml:"velocity_decay" mapstructure:"velocity_decay"`
}

// DefaultUntangleParams quadruples the charge, triples link distance at full
// strength, and halves damping for 120 steps.
func DefaultUntangleParams() UntangleParams {
	return UntangleParams{
		Steps:          120,
		ChargeFactor:   4,
		DistanceFactor: 3,
		LinkStrength:   1,
		VelocityDecay:  0.2,
	}
}

// Validate checks the untangle parameters.
func (p UntangleParams) Validate() error {
	if err := errors.ValidateCount("untangle.steps", p.Steps, 0); err != nil {
		return err
	}
	if err := errors.ValidatePositive("untangle.charge_factor", p.ChargeFactor); err != nil {
		return err
	}
	if err := errors.ValidatePositive("untangle.distance_factor", p.DistanceFactor); err != nil {
		return err
	}
	return errors.ValidateFraction("untangle.velocity_decay", p.VelocityDecay)
}

// Untangle runs the untangle model synchronously, restores the normal
// model and leaves the simulation running at alpha 0.5. It returns the
// number of steps taken.
func (e *Engine) Untangle() int {
	p := e.untangle
	if p.Steps == 0 || len(e.nodes) == 0 {
		return 0
	}

	saved := struct {
		distance, strength, charge, decay float64
	}{e.link.Distance, e.link.Strength, e.charge.Strength, e.sim.VelocityDecay()}

	e.link.Distance *= p.DistanceFactor
	e.link.Strength = p.LinkStrength
	e.charge.Strength *= p.ChargeFactor
	e.sim.SetVelocityDecay(p.VelocityDecay)
	for _, name := range positionForces {
		e.sim.SetForce(name, nil)
	}

	e.sim.SetAlpha(1)
	e.sim.Tick(p.Steps)

	e.link.Distance = saved.distance
	e.link.Strength = saved.strength
	e.charge.Strength = saved.charge
	e.sim.SetVelocityDecay(saved.decay)
	e.installPositionForces()

	e.sim.SetAlpha(0.5)
	e.sim.Restart()
	e.frozen = false
	e.logger.Debug("untangled", "steps", p.Steps, "nodes", len(e.nodes))
	return p.Steps
}
