package blender

import (
	"bufio"
	"bytes"
	"context"
	_ "embed"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"os/exec"
	"path/filepath"
	"strings"

	"mesh2img/internal/application/batch"
	"mesh2img/internal/domain/render"
)

//go:embed bridge.py
var bridgeScript string

// replyPrefix marks bridge responses among Blender's own console output.
const replyPrefix = "##mesh2img## "

// Engine drives one background Blender process through an embedded Python
// bridge. Commands are line-delimited JSON on the process stdin; replies
// come back prefixed on stdout so they can be told apart from importer and
// render chatter.
type Engine struct {
	bin       string
	cmd       *exec.Cmd
	stdin     io.WriteCloser
	replies   *bufio.Scanner
	stderr    *bytes.Buffer
	scriptDir string
}

// New starts Blender with the bridge script and waits for its ready reply.
func New(ctx context.Context, bin string) (*Engine, error) {
	scriptDir, err := os.MkdirTemp("", "mesh2img-bridge-")
	if err != nil {
		return nil, err
	}
	scriptPath := filepath.Join(scriptDir, "bridge.py")
	if err := os.WriteFile(scriptPath, []byte(bridgeScript), 0o644); err != nil {
		_ = os.RemoveAll(scriptDir)
		return nil, err
	}

	cmd := exec.CommandContext(ctx, bin, "--background", "--factory-startup", "--python", scriptPath)
	stdin, err := cmd.StdinPipe()
	if err != nil {
		_ = os.RemoveAll(scriptDir)
		return nil, err
	}
	stdout, err := cmd.StdoutPipe()
	if err != nil {
		_ = os.RemoveAll(scriptDir)
		return nil, err
	}
	stderr := &bytes.Buffer{}
	cmd.Stderr = stderr

	if err := cmd.Start(); err != nil {
		_ = os.RemoveAll(scriptDir)
		return nil, fmt.Errorf("%s failed to start: %w", bin, err)
	}

	scanner := bufio.NewScanner(stdout)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)

	engine := &Engine{
		bin:       bin,
		cmd:       cmd,
		stdin:     stdin,
		replies:   scanner,
		stderr:    stderr,
		scriptDir: scriptDir,
	}
	if _, err := engine.awaitReply("ready"); err != nil {
		_ = engine.Close()
		return nil, err
	}
	return engine, nil
}

type request struct {
	Op            string          `json:"op"`
	Path          string          `json:"path,omitempty"`
	Object        string          `json:"object,omitempty"`
	Factor        float64         `json:"factor,omitempty"`
	IgnoreMissing bool            `json:"ignore_missing,omitempty"`
	Position      []float64       `json:"position,omitempty"`
	Rotation      []float64       `json:"rotation,omitempty"`
	Settings      *renderSettings `json:"settings,omitempty"`
}

type renderSettings struct {
	Path              string     `json:"path"`
	Width             int        `json:"width"`
	Height            int        `json:"height"`
	Format            string     `json:"format"`
	JPEGQuality       int        `json:"jpeg_quality"`
	PNGCompression    int        `json:"png_compression"`
	ColorDepth        int        `json:"color_depth"`
	Transparent       bool       `json:"transparent"`
	ResolutionPercent int        `json:"resolution_percent"`
	StampText         string     `json:"stamp_text,omitempty"`
	StampFontSize     int        `json:"stamp_font_size,omitempty"`
	StampForeground   [4]float64 `json:"stamp_foreground"`
	StampBackground   [4]float64 `json:"stamp_background"`
}

type response struct {
	OK         bool      `json:"ok"`
	Error      string    `json:"error,omitempty"`
	Object     string    `json:"object,omitempty"`
	Dimensions []float64 `json:"dimensions,omitempty"`
}

// ImportMesh asks the bridge to import, isolate and origin-center a mesh file.
func (e *Engine) ImportMesh(ctx context.Context, path string) (string, error) {
	resp, err := e.call(ctx, request{Op: "import", Path: path})
	if err != nil {
		return "", err
	}
	return resp.Object, nil
}

// Dimensions reads the object's bounding box size.
func (e *Engine) Dimensions(ctx context.Context, object string) (batch.Vec3, error) {
	resp, err := e.call(ctx, request{Op: "dimensions", Object: object})
	if err != nil {
		return batch.Vec3{}, err
	}
	if len(resp.Dimensions) != 3 {
		return batch.Vec3{}, &render.OperationError{
			Op:  "dimensions",
			Err: fmt.Errorf("bridge returned %d dimension values", len(resp.Dimensions)),
		}
	}
	return batch.Vec3{resp.Dimensions[0], resp.Dimensions[1], resp.Dimensions[2]}, nil
}

// SetScale applies a uniform scale factor to the object.
func (e *Engine) SetScale(ctx context.Context, object string, factor float64) error {
	_, err := e.call(ctx, request{Op: "set_scale", Object: object, Factor: factor})
	return err
}

// SetCamera positions the default scene camera.
func (e *Engine) SetCamera(ctx context.Context, position, rotationDeg batch.Vec3) error {
	_, err := e.call(ctx, request{
		Op:       "set_camera",
		Position: position[:],
		Rotation: rotationDeg[:],
	})
	return err
}

// Render writes the current scene to settings.Path.
func (e *Engine) Render(ctx context.Context, settings batch.RenderSettings) error {
	_, err := e.call(ctx, request{Op: "render", Settings: &renderSettings{
		Path:              settings.Path,
		Width:             settings.Width,
		Height:            settings.Height,
		Format:            settings.Format,
		JPEGQuality:       settings.JPEGQuality,
		PNGCompression:    settings.PNGCompression,
		ColorDepth:        settings.ColorDepth,
		Transparent:       settings.Transparent,
		ResolutionPercent: settings.ResolutionPercent,
		StampText:         settings.StampText,
		StampFontSize:     settings.StampFontSize,
		StampForeground:   settings.StampForeground,
		StampBackground:   settings.StampBackground,
	}})
	return err
}

// DeleteObject removes a named object from the scene.
func (e *Engine) DeleteObject(ctx context.Context, object string, ignoreMissing bool) error {
	_, err := e.call(ctx, request{Op: "delete", Object: object, IgnoreMissing: ignoreMissing})
	return err
}

// Close asks the bridge to quit and reaps the Blender process.
func (e *Engine) Close() error {
	if e.stdin != nil {
		payload, _ := json.Marshal(request{Op: "quit"})
		_, _ = fmt.Fprintln(e.stdin, string(payload))
		_ = e.stdin.Close()
		e.stdin = nil
	}
	var err error
	if e.cmd != nil {
		err = e.cmd.Wait()
		e.cmd = nil
	}
	if e.scriptDir != "" {
		_ = os.RemoveAll(e.scriptDir)
		e.scriptDir = ""
	}
	return err
}

func (e *Engine) call(ctx context.Context, req request) (response, error) {
	if err := ctx.Err(); err != nil {
		return response{}, err
	}
	payload, err := json.Marshal(req)
	if err != nil {
		return response{}, err
	}
	if _, err := fmt.Fprintln(e.stdin, string(payload)); err != nil {
		return response{}, e.bridgeGone(req.Op, err)
	}
	return e.awaitReply(req.Op)
}

func (e *Engine) awaitReply(op string) (response, error) {
	for e.replies.Scan() {
		resp, ok, err := decodeReply(e.replies.Text())
		if err != nil {
			return response{}, &render.OperationError{Op: op, Err: err}
		}
		if !ok {
			continue
		}
		if !resp.OK {
			return response{}, &render.OperationError{Op: op, Err: errors.New(resp.Error)}
		}
		return resp, nil
	}
	if err := e.replies.Err(); err != nil {
		return response{}, e.bridgeGone(op, err)
	}
	return response{}, e.bridgeGone(op, io.ErrUnexpectedEOF)
}

// decodeReply parses one stdout line. Lines without the bridge prefix are
// Blender's own chatter and are skipped.
func decodeReply(line string) (response, bool, error) {
	if !strings.HasPrefix(line, replyPrefix) {
		return response{}, false, nil
	}
	var resp response
	if err := json.Unmarshal([]byte(strings.TrimPrefix(line, replyPrefix)), &resp); err != nil {
		return response{}, false, fmt.Errorf("malformed bridge reply %q: %w", line, err)
	}
	return resp, true, nil
}

func (e *Engine) bridgeGone(op string, cause error) error {
	msg := strings.TrimSpace(e.stderr.String())
	if msg != "" {
		cause = fmt.Errorf("%w: %s", cause, msg)
	}
	return &render.OperationError{Op: op, Err: fmt.Errorf("%s bridge unavailable: %w", e.bin, cause)}
}
