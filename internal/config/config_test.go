package config

import (
	"errors"
	"testing"

	"mesh2img/internal/domain/render"
)

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load([]string{"--paths", "/meshes", "--dimensions", "400"})
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if cfg.ImageFormat != "png" || cfg.JPEGQuality != 80 {
		t.Fatalf("unexpected format defaults: %q quality %d", cfg.ImageFormat, cfg.JPEGQuality)
	}
	if cfg.OutputTemplate != render.DefaultOutputTemplate {
		t.Fatalf("unexpected template default %q", cfg.OutputTemplate)
	}
	if cfg.MaxDim != 9.0 {
		t.Fatalf("unexpected max-dim default %g", cfg.MaxDim)
	}
	if cfg.CameraCoords != [3]float64{0, 0, 10} || cfg.CameraRotation != [3]float64{0, 0, 0} {
		t.Fatalf("unexpected camera defaults %v %v", cfg.CameraCoords, cfg.CameraRotation)
	}
	if cfg.Engine != EngineBlender || cfg.ClearObject != "Cube" {
		t.Fatalf("unexpected engine defaults %q %q", cfg.Engine, cfg.ClearObject)
	}
	if cfg.Verbose {
		t.Fatalf("verbose should default to off")
	}
}

func TestLoad_ParsesCameraVectors(t *testing.T) {
	cfg, err := Load([]string{
		"--paths", "/meshes",
		"--dimensions", "400",
		"--camera-coords", "1.5,-2,3",
		"--camera-rotation", "45,0,90",
	})
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if cfg.CameraCoords != [3]float64{1.5, -2, 3} {
		t.Fatalf("unexpected camera coords %v", cfg.CameraCoords)
	}
	if cfg.CameraRotation != [3]float64{45, 0, 90} {
		t.Fatalf("unexpected camera rotation %v", cfg.CameraRotation)
	}
}

func TestLoad_RejectsBadInput(t *testing.T) {
	cases := [][]string{
		{"--dimensions", "400"}, // no paths
		{"--paths", "/meshes"},  // no dimensions
		{"--paths", "/meshes", "--dimensions", "400", "--image-format", "gif"},
		{"--paths", "/meshes", "--dimensions", "400", "--jpeg-quality", "101"},
		{"--paths", "/meshes", "--dimensions", "400", "--camera-coords", "1,2"},
		{"--paths", "/meshes", "--dimensions", "400", "--engine", "povray"},
		{"--paths", "/meshes", "--dimensions", "400", "--max-dim", "0"},
	}
	for _, args := range cases {
		_, err := Load(args)
		var verr *render.ValidationError
		if !errors.As(err, &verr) {
			t.Fatalf("args %v: expected ValidationError, got %v", args, err)
		}
	}
}

func TestLoad_EnvFallback(t *testing.T) {
	t.Setenv("MESH2IMG_MAX_DIM", "4.5")
	t.Setenv("MESH2IMG_IMAGE_FORMAT", "jpg")

	cfg, err := Load([]string{"--paths", "/meshes", "--dimensions", "400"})
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if cfg.MaxDim != 4.5 {
		t.Fatalf("expected env max-dim 4.5, got %g", cfg.MaxDim)
	}
	if cfg.ImageFormat != "jpg" {
		t.Fatalf("expected env format jpg, got %q", cfg.ImageFormat)
	}
}
