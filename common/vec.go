package common

import "math"

// Vec3 is a world-space vector. Y is up; gameplay mostly happens on X with a
// shallow Z depth.
type Vec3 struct {
	X, Y, Z float64
}

func V3(x, y, z float64) Vec3 { return Vec3{X: x, Y: y, Z: z} }

func (v Vec3) Add(o Vec3) Vec3      { return Vec3{v.X + o.X, v.Y + o.Y, v.Z + o.Z} }
func (v Vec3) Sub(o Vec3) Vec3      { return Vec3{v.X - o.X, v.Y - o.Y, v.Z - o.Z} }
func (v Vec3) Scale(s float64) Vec3 { return Vec3{v.X * s, v.Y * s, v.Z * s} }
func (v Vec3) Len() float64         { return math.Sqrt(v.X*v.X + v.Y*v.Y + v.Z*v.Z) }

// Planar drops the vertical component.
func (v Vec3) Planar() Vec3 { return Vec3{X: v.X, Z: v.Z} }

func (v Vec3) PlanarLen() float64 { return math.Hypot(v.X, v.Z) }

func (v Vec3) Normalized() Vec3 {
	l := v.Len()
	if l < 1e-9 {
		return Vec3{}
	}
	return v.Scale(1 / l)
}

func Distance(a, b Vec3) float64 { return a.Sub(b).Len() }

func PlanarDistance(a, b Vec3) float64 { return a.Sub(b).PlanarLen() }

// MoveTowardsVec steps current toward target by at most maxDelta.
func MoveTowardsVec(current, target Vec3, maxDelta float64) Vec3 {
	d := target.Sub(current)
	l := d.Len()
	if l <= maxDelta || l < 1e-9 {
		return target
	}
	return current.Add(d.Scale(maxDelta / l))
}

// Forward returns the planar facing direction for a yaw in degrees, where
// yaw 0 faces +Z and yaw 90 faces +X.
func Forward(yawDeg float64) Vec3 {
	r := yawDeg * math.Pi / 180
	return Vec3{X: math.Sin(r), Z: math.Cos(r)}
}

// YawTo returns the yaw in degrees that faces along dir on the XZ plane.
func YawTo(dir Vec3) float64 {
	return math.Atan2(dir.X, dir.Z) * 180 / math.Pi
}

// Right returns the planar right-hand direction for a yaw in degrees.
func Right(yawDeg float64) Vec3 {
	r := yawDeg * math.Pi / 180
	return Vec3{X: math.Cos(r), Z: -math.Sin(r)}
}

// LocalToWorld rotates a local offset (X right, Y up, Z forward) by yaw.
func LocalToWorld(offset Vec3, yawDeg float64) Vec3 {
	return Right(yawDeg).Scale(offset.X).
		Add(Vec3{Y: offset.Y}).
		Add(Forward(yawDeg).Scale(offset.Z))
}
