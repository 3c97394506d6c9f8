// Package geom provides integer cell geometry for laying out the chat surface.
package geom

import "fmt"

// Point is a position in cells.
type Point struct {
	X int `yaml:"x"`
	Y int `yaml:"y"`
}

// Size is a width/height pair in cells.
type Size struct {
	W int `yaml:"w"`
	H int `yaml:"h"`
}

// Rect is an axis-aligned rectangle. Y grows downward.
type Rect struct {
	X int `yaml:"x"`
	Y int `yaml:"y"`
	W int `yaml:"w"`
	H int `yaml:"h"`
}

// Insets are distances from each edge of a container.
type Insets struct {
	Top    int `yaml:"top"`
	Left   int `yaml:"left"`
	Bottom int `yaml:"bottom"`
	Right  int `yaml:"right"`
}

// RectAt returns a rectangle with the given origin and size.
func RectAt(origin Point, size Size) Rect {
	return Rect{X: origin.X, Y: origin.Y, W: size.W, H: size.H}
}

// Origin returns the top-left corner.
func (r Rect) Origin() Point { return Point{X: r.X, Y: r.Y} }

// Size returns the rectangle's size.
func (r Rect) Size() Size { return Size{W: r.W, H: r.H} }

// MinY returns the top edge.
func (r Rect) MinY() int { return r.Y }

// MaxY returns the bottom edge (exclusive).
func (r Rect) MaxY() int { return r.Y + r.H }

// MaxX returns the right edge (exclusive).
func (r Rect) MaxX() int { return r.X + r.W }

// Offset returns r moved by dx, dy.
func (r Rect) Offset(dx, dy int) Rect {
	r.X += dx
	r.Y += dy
	return r
}

// WithY returns r with its origin moved to y.
func (r Rect) WithY(y int) Rect {
	r.Y = y
	return r
}

// Equal reports whether two rectangles are identical.
func (r Rect) Equal(o Rect) bool { return r == o }

// Empty reports whether the rectangle has no area.
func (r Rect) Empty() bool { return r.W <= 0 || r.H <= 0 }

// Intersect returns the overlapping area of r and o, or an empty rect.
func (r Rect) Intersect(o Rect) Rect {
	x0, y0 := max(r.X, o.X), max(r.Y, o.Y)
	x1, y1 := min(r.MaxX(), o.MaxX()), min(r.MaxY(), o.MaxY())
	if x1 <= x0 || y1 <= y0 {
		return Rect{}
	}
	return Rect{X: x0, Y: y0, W: x1 - x0, H: y1 - y0}
}

func (r Rect) String() string {
	return fmt.Sprintf("(%d,%d %dx%d)", r.X, r.Y, r.W, r.H)
}
