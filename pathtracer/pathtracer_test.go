package pathtracer

import (
	"testing"

	"github.com/achilleasa/mlt-pathtracer/framebuffer"
	"github.com/achilleasa/mlt-pathtracer/render"
	"github.com/achilleasa/mlt-pathtracer/scene"
	"github.com/achilleasa/mlt-pathtracer/vecmath"
)

func newTestScene(t *testing.T) *scene.Scene {
	t.Helper()

	camera := scene.NewCamera(8, 8, 60, 1,
		vecmath.Vec3{0, 2, 0}, vecmath.Vec3{0, -1, 0}, vecmath.Vec3{0, 0, 1})
	s := scene.NewScene(camera)

	matIdx := s.AddMaterial(scene.MaterialData{
		BaseColorFactor: vecmath.Vec4{0.8, 0.8, 0.8, 1},
		RoughnessFactor: 1,
		IOR:             1.5,
	})

	mesh := &scene.Mesh{
		Triangles: []scene.Triangle{
			{
				Positions: [3]vecmath.Vec3{{-5, 0, -5}, {5, 0, -5}, {5, 0, 5}},
				Normals:   [3]vecmath.Vec3{{0, 1, 0}, {0, 1, 0}, {0, 1, 0}},
			},
			{
				Positions: [3]vecmath.Vec3{{-5, 0, -5}, {5, 0, 5}, {-5, 0, 5}},
				Normals:   [3]vecmath.Vec3{{0, 1, 0}, {0, 1, 0}, {0, 1, 0}},
			},
		},
	}
	mesh.ComputeTriangleAreas()
	mesh.AddPrimitive(0, 2, matIdx, true)
	if err := s.AddMesh(mesh); err != nil {
		t.Fatalf("AddMesh: %v", err)
	}

	s.Lights = append(s.Lights, scene.PointLightOf(scene.PointLight{
		Position: vecmath.Vec3{0, 3, 0},
		Wattage:  vecmath.Vec3{40, 40, 40},
	}))

	return s
}

func TestAccumulateProducesBoundedPixels(t *testing.T) {
	s := newTestScene(t)
	pt := New(s, render.Options{FrameWidth: 8, FrameHeight: 8, NumJobs: 2})

	if err := pt.Accumulate(4); err != nil {
		t.Fatalf("Accumulate: %v", err)
	}
	if got := pt.NumSamplesPerPixel(); got != 4 {
		t.Fatalf("expected 4 samples accumulated, got %d", got)
	}

	fb := framebuffer.NewImage(8, 8)
	pt.UpdateFrameBuffer(fb)
	for y := 0; y < fb.Height(); y++ {
		for x := 0; x < fb.Width(); x++ {
			px := fb.RGB(x, y)
			for c := 0; c < 3; c++ {
				if px[c] < 0 || px[c] > 1 {
					t.Fatalf("pixel (%d,%d) channel %d out of [0,1]: %v", x, y, c, px[c])
				}
			}
		}
	}
}

func TestResetZeroesSampleCount(t *testing.T) {
	s := newTestScene(t)
	pt := New(s, render.Options{FrameWidth: 8, FrameHeight: 8, NumJobs: 1})

	if err := pt.Accumulate(2); err != nil {
		t.Fatalf("Accumulate: %v", err)
	}
	pt.Reset()
	if got := pt.NumSamplesPerPixel(); got != 0 {
		t.Fatalf("expected Reset to zero the sample count, got %d", got)
	}
}

func TestStopInterruptsAccumulate(t *testing.T) {
	s := newTestScene(t)
	pt := New(s, render.Options{FrameWidth: 8, FrameHeight: 8, NumJobs: 1})
	pt.Stop()

	if err := pt.Accumulate(1); err != render.ErrInterrupted {
		t.Fatalf("expected ErrInterrupted, got %v", err)
	}
}

func TestAccumulateWithoutSceneErrors(t *testing.T) {
	pt := New(nil, render.Options{FrameWidth: 4, FrameHeight: 4, NumJobs: 1})
	if err := pt.Accumulate(1); err != render.ErrNoScene {
		t.Fatalf("expected ErrNoScene, got %v", err)
	}
}
