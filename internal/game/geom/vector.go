// Package geom holds the 2D vector and rectangle math shared by the
// simulation: distances, seek stepping, arrival checks and box overlap.
package geom

import "math"

// Vec2 is a floating point position or velocity.
type Vec2 struct {
	X, Y float64
}

// V is shorthand for Vec2{x, y}.
func V(x, y float64) Vec2 {
	return Vec2{X: x, Y: y}
}

func (v Vec2) Add(o Vec2) Vec2 { return Vec2{v.X + o.X, v.Y + o.Y} }
func (v Vec2) Sub(o Vec2) Vec2 { return Vec2{v.X - o.X, v.Y - o.Y} }
func (v Vec2) Mul(s float64) Vec2 { return Vec2{v.X * s, v.Y * s} }
func (v Vec2) Div(s float64) Vec2 { return Vec2{v.X / s, v.Y / s} }

// Equal reports exact component equality.
func (v Vec2) Equal(o Vec2) bool { return v.X == o.X && v.Y == o.Y }

// Less orders vectors by coordinate sum. It has no geometric meaning and is
// only used to break ties deterministically.
func (v Vec2) Less(o Vec2) bool { return v.X+v.Y < o.X+o.Y }

// Len returns the Euclidean length.
func (v Vec2) Len() float64 { return math.Hypot(v.X, v.Y) }

// Distance returns the Euclidean distance between v and o.
func (v Vec2) Distance(o Vec2) float64 { return math.Hypot(v.X-o.X, v.Y-o.Y) }

// Int truncates both components toward zero.
func (v Vec2) Int() Vec2I { return Vec2I{int(v.X), int(v.Y)} }

// Vec2I is an integral vector. Every operation truncates toward zero.
type Vec2I struct {
	X, Y int
}

func (v Vec2I) Add(o Vec2I) Vec2I { return Vec2I{v.X + o.X, v.Y + o.Y} }
func (v Vec2I) Sub(o Vec2I) Vec2I { return Vec2I{v.X - o.X, v.Y - o.Y} }

// Mul scales by s and truncates the result.
func (v Vec2I) Mul(s float64) Vec2I {
	return Vec2I{int(float64(v.X) * s), int(float64(v.Y) * s)}
}

// Div divides by s and truncates the result.
func (v Vec2I) Div(s float64) Vec2I {
	return Vec2I{int(float64(v.X) / s), int(float64(v.Y) / s)}
}

func (v Vec2I) Equal(o Vec2I) bool { return v == o }
func (v Vec2I) Less(o Vec2I) bool  { return v.X+v.Y < o.X+o.Y }

// Float widens to a Vec2.
func (v Vec2I) Float() Vec2 { return Vec2{float64(v.X), float64(v.Y)} }

// MoveTowards steps from cur toward target by at most maxDist. When the
// remaining distance is within the step it lands exactly on target.
// A non-positive maxDist returns cur unchanged.
func MoveTowards(cur, target Vec2, maxDist float64) Vec2 {
	if maxDist <= 0 {
		return cur
	}
	delta := target.Sub(cur)
	dist := delta.Len()
	if dist <= maxDist || dist == 0 {
		return target
	}
	return cur.Add(delta.Mul(maxDist / dist))
}

// Reached reports whether the next step of speed*dt from current lands on
// or passes target.
func Reached(current, target Vec2, speed, dt float64) bool {
	if current.Equal(target) {
		return true
	}
	step := speed * dt
	if step <= 0 {
		return false
	}
	return current.Distance(target) <= step
}

// LineSetDistance returns the point at distance d from `from` on the ray
// through `to`. The result may lie beyond `to`. When from == to there is no
// direction and from is returned.
func LineSetDistance(from, to Vec2, d float64) Vec2 {
	cur := from.Distance(to)
	if cur == 0 {
		return from
	}
	return from.Add(to.Sub(from).Mul(d / cur))
}
