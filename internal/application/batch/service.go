package batch

import (
	"context"
	"log"
	"time"

	"github.com/google/uuid"

	"mesh2img/internal/domain/render"
)

// Default stamp styling, foreground on translucent background (RGBA).
var (
	StampWhite            = [4]float64{1, 1, 1, 1}
	StampTranslucentBlack = [4]float64{0, 0, 0, 0.75}
)

// Options control one conversion batch.
type Options struct {
	// MaxDim is the target length of the mesh's longest axis after scaling.
	MaxDim         float64
	CameraPosition Vec3
	CameraRotation Vec3
	// ClearObject names a pre-existing scene object deleted before the
	// batch starts; absence is not an error. Empty skips the cleanup.
	ClearObject string
	// LeaveMeshes keeps imported objects in the scene after rendering.
	LeaveMeshes   bool
	StampText     string
	StampFontSize int
}

// Service executes a planned worklist against the render engine, one work
// item at a time. The engine's single mutable scene makes the ordering
// strict: import, scale, render, delete, then the next item.
type Service struct {
	sources SourceRepository
	engine  Engine
	opts    Options
	logger  *log.Logger
	debug   *log.Logger
}

// NewService creates the conversion driver with injected ports.
func NewService(sources SourceRepository, engine Engine, opts Options, logger, debug *log.Logger) *Service {
	return &Service{sources: sources, engine: engine, opts: opts, logger: logger, debug: debug}
}

// Run plans and executes the whole batch. The first failing operation
// aborts the run and is returned; there are no retries.
func (s *Service) Run(ctx context.Context, paths []string, specs []render.JobSpec) error {
	items, err := Plan(s.sources, paths, specs)
	if err != nil {
		return err
	}

	runID := uuid.NewString()
	execTime := time.Now().Format(render.TimestampLayout)
	s.logger.Printf("batch %s: %d work items across %d job specs", runID, len(items), len(specs))

	if s.opts.ClearObject != "" {
		if err := s.engine.DeleteObject(ctx, s.opts.ClearObject, true); err != nil {
			return err
		}
	}
	if err := s.engine.SetCamera(ctx, s.opts.CameraPosition, s.opts.CameraRotation); err != nil {
		return err
	}

	for _, item := range items {
		if err := s.convert(ctx, item, execTime); err != nil {
			s.logger.Printf("batch %s: aborted on %s: %v", runID, item.Source, err)
			return err
		}
	}

	s.logger.Printf("batch %s: done, %d images written", runID, len(items))
	return nil
}

func (s *Service) convert(ctx context.Context, item render.WorkItem, execTime string) error {
	object, err := s.engine.ImportMesh(ctx, item.Source)
	if err != nil {
		return err
	}
	s.debug.Printf("imported %s as object %q", item.Source, object)

	dims, err := s.engine.Dimensions(ctx, object)
	if err != nil {
		return err
	}
	largest := maxAxis(dims)
	if largest > 0 {
		factor := s.opts.MaxDim / largest
		s.debug.Printf("scaling %q by %g to fit %g units", object, factor, s.opts.MaxDim)
		if err := s.engine.SetScale(ctx, object, factor); err != nil {
			return err
		}
	} else {
		s.debug.Printf("skipping scale for %q, bounding box is empty", object)
	}

	outputPath, err := render.ResolveOutputPath(item.Spec, item.Source, execTime, time.Now())
	if err != nil {
		return err
	}

	settings := RenderSettings{
		Path:              outputPath,
		Width:             item.Spec.Width,
		Height:            item.Spec.Height,
		Format:            item.Spec.Format,
		JPEGQuality:       item.Spec.Quality,
		PNGCompression:    100,
		ColorDepth:        8,
		Transparent:       item.Spec.Format == "png",
		ResolutionPercent: 100,
		StampText:         s.opts.StampText,
		StampFontSize:     s.opts.StampFontSize,
		StampForeground:   StampWhite,
		StampBackground:   StampTranslucentBlack,
	}
	s.logger.Printf("rendering %s -> %s (%dx%d %s)",
		item.Source, outputPath, item.Spec.Width, item.Spec.Height, item.Spec.Format)
	if err := s.engine.Render(ctx, settings); err != nil {
		return err
	}

	if s.opts.LeaveMeshes {
		return nil
	}
	return s.engine.DeleteObject(ctx, object, false)
}

func maxAxis(v Vec3) float64 {
	largest := v[0]
	if v[1] > largest {
		largest = v[1]
	}
	if v[2] > largest {
		largest = v[2]
	}
	return largest
}
