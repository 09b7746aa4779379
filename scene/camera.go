package scene

import "github.com/achilleasa/mlt-pathtracer/vecmath"

// Camera is a simple pinhole camera: a fixed film size and distance
// determine the field of view, and eye rays are generated by projecting
// pixel coordinates onto that film plane.
type Camera struct {
	Width, Height int
	AspectRatio   float32
	FOV           float32
	FilmSize      float32
	DistanceToFilm float32

	Position vecmath.Vec3
	Forward  vecmath.Vec3
	Up       vecmath.Vec3
	Right    vecmath.Vec3
}

// NewCamera builds a camera from its intrinsic and extrinsic parameters.
// fov is in degrees.
func NewCamera(width, height int, fov, filmSize float32, position, forward, up vecmath.Vec3) Camera {
	f := forward.Normalize()
	u := up.Normalize()
	return Camera{
		Width:          width,
		Height:         height,
		AspectRatio:    float32(width) / float32(height),
		FOV:            fov,
		FilmSize:       filmSize,
		DistanceToFilm: filmSize / (2 * vecmath.Tan(vecmath.DegToRad(fov)*0.5)),
		Position:       position,
		Forward:        f,
		Up:             u,
		Right:          f.Cross(u).Normalize(),
	}
}

// Move translates the camera by delta.
func (c *Camera) Move(delta vecmath.Vec3) {
	c.Position = c.Position.Add(delta)
}

// Rotate turns Forward toward Right by yaw (a turn about Up), then toward Up
// by pitch (a turn about Right), then re-derives an orthonormal Right/Up
// pair from the new Forward.
func (c *Camera) Rotate(yaw, pitch float32) {
	c.Forward = c.Forward.Scale(vecmath.Cos(yaw)).Add(c.Right.Scale(vecmath.Sin(yaw))).Normalize()
	c.Forward = c.Forward.Scale(vecmath.Cos(pitch)).Add(c.Up.Scale(vecmath.Sin(pitch))).Normalize()
	worldUp := vecmath.Vec3{0, 1, 0}
	c.Right = c.Forward.Cross(worldUp).Normalize()
	c.Up = c.Right.Cross(c.Forward).Normalize()
}

// EyeRay constructs the camera ray through the given pixel coordinate
// (fractional pixel coordinates are allowed, for antialiasing jitter).
func (c Camera) EyeRay(pixel vecmath.Vec2) Ray {
	wDir := c.Forward.Neg()
	uDir := c.Right
	vDir := c.Up

	imPlaneU := pixel[0]/float32(c.Width) - 0.5
	imPlaneV := pixel[1]/float32(c.Height) - 0.5

	pixelPos := c.Position.
		Add(uDir.Scale(c.AspectRatio * c.FilmSize * imPlaneU)).
		Add(vDir.Scale(c.FilmSize * imPlaneV)).
		Sub(wDir.Scale(c.DistanceToFilm))

	return Ray{Origin: c.Position, Direction: pixelPos.Sub(c.Position).Normalize()}
}
