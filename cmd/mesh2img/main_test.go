package main

import (
	"context"
	"errors"
	"testing"

	"mesh2img/internal/application/batch"
)

type closeOnlyEngine struct {
	closeErr error
	closed   bool
}

func (e *closeOnlyEngine) ImportMesh(_ context.Context, _ string) (string, error) { return "", nil }

func (e *closeOnlyEngine) Dimensions(_ context.Context, _ string) (batch.Vec3, error) {
	return batch.Vec3{}, nil
}

func (e *closeOnlyEngine) SetScale(_ context.Context, _ string, _ float64) error { return nil }

func (e *closeOnlyEngine) SetCamera(_ context.Context, _, _ batch.Vec3) error { return nil }

func (e *closeOnlyEngine) Render(_ context.Context, _ batch.RenderSettings) error { return nil }

func (e *closeOnlyEngine) DeleteObject(_ context.Context, _ string, _ bool) error { return nil }

func (e *closeOnlyEngine) Close() error {
	e.closed = true
	return e.closeErr
}

func TestCloseEngine_SurfacesShutdownFailure(t *testing.T) {
	shutdown := errors.New("engine exited with status 1")
	engine := &closeOnlyEngine{closeErr: shutdown}

	if err := closeEngine(engine, nil); !errors.Is(err, shutdown) {
		t.Fatalf("expected shutdown error on a clean run, got %v", err)
	}
	if !engine.closed {
		t.Fatalf("expected Close to be called")
	}
}

func TestCloseEngine_KeepsBatchError(t *testing.T) {
	batchErr := errors.New("render failed")
	engine := &closeOnlyEngine{closeErr: errors.New("engine exited with status 1")}

	if err := closeEngine(engine, batchErr); !errors.Is(err, batchErr) {
		t.Fatalf("expected the batch error to win, got %v", err)
	}

	engine = &closeOnlyEngine{}
	if err := closeEngine(engine, batchErr); !errors.Is(err, batchErr) {
		t.Fatalf("expected the batch error with a clean close, got %v", err)
	}
}
