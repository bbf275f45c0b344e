package force

// PositionX pulls every node's x toward X, scaled by alpha.
type PositionX struct {
	X        float64
	Strength float64

	nodes []*Node
}

// NewPositionX returns a force toward x with strength 0.1.
func NewPositionX(x float64) *PositionX {
	return &PositionX{X: x, Strength: 0.1}
}

func (f *PositionX) Initialize(nodes []*Node, _ func() float64) { f.nodes = nodes }

func (f *PositionX) Apply(alpha float64) {
	k := f.Strength * alpha
	for _, n := range f.nodes {
		n.VX += (f.X - n.X) * k
	}
}

// PositionY pulls every node's y toward Y, scaled by alpha.
type PositionY struct {
	Y        float64
	Strength float64

	nodes []*Node
}

// NewPositionY returns a force toward y with strength 0.1.
func NewPositionY(y float64) *PositionY {
	return &PositionY{Y: y, Strength: 0.1}
}

func (f *PositionY) Initialize(nodes []*Node, _ func() float64) { f.nodes = nodes }

func (f *PositionY) Apply(alpha float64) {
	k := f.Strength * alpha
	for _, n := range f.nodes {
		n.VY += (f.Y - n.Y) * k
	}
}

// Center translates all nodes so their mean position moves toward (X, Y).
// It changes positions directly and ignores alpha.
type Center struct {
	X, Y     float64
	Strength float64

	nodes []*Node
}

// NewCenter returns a centering force toward (x, y) with strength 1.
func NewCenter(x, y float64) *Center {
	return &Center{X: x, Y: y, Strength: 1}
}

func (f *Center) Initialize(nodes []*Node, _ func() float64) { f.nodes = nodes }

func (f *Center) Apply(_ float64) {
	if len(f.nodes) == 0 {
		return
	}
	var sx, sy float64
	for _, n := range f.nodes {
		sx += n.X
		sy += n.Y
	}
	count := float64(len(f.nodes))
	sx = (sx/count - f.X) * f.Strength
	sy = (sy/count - f.Y) * f.Strength
	for _, n := range f.nodes {
		n.X -= sx
		n.Y -= sy
	}
}
