package pricing

// Shape is the kitchen layout of a countertop item.
type Shape string

const (
	ShapeStraight Shape = "straight"
	ShapeL        Shape = "l"  // second leg on the right
	ShapeRL       Shape = "rl" // second leg on the left
)

// DefaultShapeFee is charged once per L or reversed-L countertop.
const DefaultShapeFee = 30000

// Valid reports whether s is a known layout. Empty means straight.
func (s Shape) Valid() bool {
	switch s {
	case "", ShapeStraight, ShapeL, ShapeRL:
		return true
	}
	return false
}

// HasSecondLeg reports whether the layout needs a second length.
func (s Shape) HasSecondLeg() bool {
	return s == ShapeL || s == ShapeRL
}

// Label is the Korean name used in quote text.
func (s Shape) Label() string {
	switch s {
	case ShapeL:
		return "ㄱ자"
	case ShapeRL:
		return "역ㄱ자"
	default:
		return "일자"
	}
}
