package main

import (
	"context"
	"io"
	"log"
	"os"

	"mesh2img/internal/application/batch"
	"mesh2img/internal/config"
	"mesh2img/internal/domain/render"
	"mesh2img/internal/infrastructure/blender"
	"mesh2img/internal/infrastructure/filesystem"
	"mesh2img/internal/infrastructure/softrender"
)

func main() {
	if err := run(context.Background(), os.Args[1:]); err != nil {
		log.Fatalf("mesh2img: %v", err)
	}
}

func run(ctx context.Context, args []string) error {
	cfg, err := config.Load(args)
	if err != nil {
		return err
	}

	logger := log.New(os.Stderr, "", log.LstdFlags)
	debug := log.New(io.Discard, "", log.LstdFlags)
	if cfg.Verbose {
		debug = log.New(os.Stderr, "debug ", log.LstdFlags)
	}

	specs := make([]render.JobSpec, 0, len(cfg.Dimensions))
	for _, dimensions := range cfg.Dimensions {
		spec, err := render.NewJobSpec(dimensions, cfg.ImageFormat, cfg.OutputTemplate, cfg.JPEGQuality)
		if err != nil {
			return err
		}
		specs = append(specs, spec)
	}

	var engine batch.Engine
	switch cfg.Engine {
	case config.EngineNative:
		engine = softrender.New(debug)
	default:
		engine, err = blender.New(ctx, cfg.BlenderBin)
		if err != nil {
			return err
		}
	}

	service := batch.NewService(filesystem.NewScanner(), engine, batch.Options{
		MaxDim:         cfg.MaxDim,
		CameraPosition: cfg.CameraCoords,
		CameraRotation: cfg.CameraRotation,
		ClearObject:    cfg.ClearObject,
		StampText:      cfg.StampText,
		StampFontSize:  cfg.StampFontSize,
	}, logger, debug)

	return closeEngine(engine, service.Run(ctx, cfg.Paths, specs))
}

// closeEngine shuts the engine down and keeps the batch error when both
// fail; a dirty engine exit still fails an otherwise clean run.
func closeEngine(engine batch.Engine, err error) error {
	if cerr := engine.Close(); cerr != nil && err == nil {
		return cerr
	}
	return err
}
