package geom

// Rect is an axis-aligned box with its origin at the top-left corner.
type Rect struct {
	X, Y, W, H float64
}

// RectAt builds a box at pos with the given extent.
func RectAt(pos, size Vec2) Rect {
	return Rect{X: pos.X, Y: pos.Y, W: size.X, H: size.Y}
}

func (r Rect) Left() float64   { return r.X }
func (r Rect) Right() float64  { return r.X + r.W }
func (r Rect) Top() float64    { return r.Y }
func (r Rect) Bottom() float64 { return r.Y + r.H }

// Center returns the midpoint of the box.
func (r Rect) Center() Vec2 {
	return Vec2{r.X + r.W/2, r.Y + r.H/2}
}

// Pos returns the top-left corner.
func (r Rect) Pos() Vec2 { return Vec2{r.X, r.Y} }

// Overlaps reports whether the interiors of r and o intersect.
// Boxes that only share an edge do not overlap, and empty boxes never do.
func (r Rect) Overlaps(o Rect) bool {
	if r.W <= 0 || r.H <= 0 || o.W <= 0 || o.H <= 0 {
		return false
	}
	return r.Left() < o.Right() && o.Left() < r.Right() &&
		r.Top() < o.Bottom() && o.Top() < r.Bottom()
}

// Contains reports whether p lies inside r, inclusive of the top-left edge.
func (r Rect) Contains(p Vec2) bool {
	return p.X >= r.Left() && p.X < r.Right() && p.Y >= r.Top() && p.Y < r.Bottom()
}
