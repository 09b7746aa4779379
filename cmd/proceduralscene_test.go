package cmd

import "testing"

func TestProceduralLoaderBuildsARenderableScene(t *testing.T) {
	s, err := proceduralLoader{}.Load("ignored.glb", 64, 48)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}

	if len(s.Meshes) != 3 {
		t.Fatalf("len(Meshes) = %d, want 3", len(s.Meshes))
	}
	if len(s.Lights) != 2 {
		t.Fatalf("len(Lights) = %d, want 2", len(s.Lights))
	}
	if len(s.Materials) != 3 {
		t.Fatalf("len(Materials) = %d, want 3", len(s.Materials))
	}
	if s.Camera.Width != 64 || s.Camera.Height != 48 {
		t.Fatalf("Camera size = %dx%d, want 64x48", s.Camera.Width, s.Camera.Height)
	}
}
