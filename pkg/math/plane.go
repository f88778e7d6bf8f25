package math

// Plane is an infinite plane through Point with unit Normal.
type Plane struct {
	Point  Vec3
	Normal Vec3
}

// NewPlane builds a plane through point. The normal is normalized.
func NewPlane(point, normal Vec3) Plane {
	return Plane{Point: point, Normal: normal.Normalize()}
}

// Distance returns the signed distance from p to the plane.
// Positive values lie on the side the normal points to.
func (pl Plane) Distance(p Vec3) float32 {
	return p.Sub(pl.Point).Dot(pl.Normal)
}

// IsAbove reports whether p lies strictly on the normal side.
func (pl Plane) IsAbove(p Vec3) bool {
	return pl.Distance(p) > 0
}
