package geom

// Vec3 is a 3-component float vector.
type Vec3 struct {
	X, Y, Z float32
}

// IVec3 is a 3-component integer vector, used for voxel coordinates and
// grid dimensions.
type IVec3 struct {
	X, Y, Z int32
}

// USVec3 is a 3-component vector quantized to 16-bit unsigned integers.
// It is the coordinate type of compressed cells; the grid extent per axis
// must fit in 65535 units.
type USVec3 struct {
	X, Y, Z uint16
}

// Vec3FromIVec3 converts an integer vector to its float counterpart.
func Vec3FromIVec3(v IVec3) Vec3 {
	return Vec3{X: float32(v.X), Y: float32(v.Y), Z: float32(v.Z)}
}

// Add returns v + w.
func (v IVec3) Add(w IVec3) IVec3 {
	return IVec3{X: v.X + w.X, Y: v.Y + w.Y, Z: v.Z + w.Z}
}

// Shr returns v with every component shifted right by s bits.
func (v IVec3) Shr(s int32) IVec3 {
	return IVec3{X: v.X >> s, Y: v.Y >> s, Z: v.Z >> s}
}

// And returns v with every component masked by m.
func (v IVec3) And(m int32) IVec3 {
	return IVec3{X: v.X & m, Y: v.Y & m, Z: v.Z & m}
}

// Prod returns the component product of v.
func (v IVec3) Prod() int64 {
	return int64(v.X) * int64(v.Y) * int64(v.Z)
}

// Max returns the componentwise maximum of v and w.
func (v IVec3) Max(w IVec3) IVec3 {
	r := v
	if w.X > r.X {
		r.X = w.X
	}
	if w.Y > r.Y {
		r.Y = w.Y
	}
	if w.Z > r.Z {
		r.Z = w.Z
	}
	return r
}
