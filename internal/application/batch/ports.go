package batch

import "context"

// Vec3 is an XYZ triple used for positions, rotations and bounding sizes.
type Vec3 [3]float64

// RenderSettings carries per-image output parameters for one render call.
type RenderSettings struct {
	Path           string
	Width          int
	Height         int
	Format         string
	JPEGQuality    int
	PNGCompression int
	ColorDepth     int
	Transparent    bool
	// ResolutionPercent renders at a fraction of the output resolution; 100 is full size.
	ResolutionPercent int
	StampText         string
	StampFontSize     int
	StampForeground   [4]float64
	StampBackground   [4]float64
}

// SourceRepository is an application port for mesh source discovery.
type SourceRepository interface {
	IsDir(path string) (bool, error)
	ListMeshFiles(root string) ([]string, error)
}

// Engine is the application port for the render host. It exposes exactly
// one mutable scene: one imported object is active at a time, and callers
// are expected to delete it before importing the next one.
type Engine interface {
	// ImportMesh loads a mesh file into the scene, deselects everything
	// else, centers the object's origin on its geometry and returns the
	// scene object handle.
	ImportMesh(ctx context.Context, path string) (string, error)
	// Dimensions returns the object's axis-aligned bounding box size.
	Dimensions(ctx context.Context, object string) (Vec3, error)
	// SetScale applies a uniform scale factor to the object.
	SetScale(ctx context.Context, object string, factor float64) error
	// SetCamera positions the scene camera; rotation is Euler XYZ in degrees.
	SetCamera(ctx context.Context, position, rotationDeg Vec3) error
	// Render writes an image of the current scene to settings.Path.
	Render(ctx context.Context, settings RenderSettings) error
	// DeleteObject removes a named object from the scene. With
	// ignoreMissing a not-found condition is swallowed; it propagates
	// otherwise.
	DeleteObject(ctx context.Context, object string, ignoreMissing bool) error
	Close() error
}
