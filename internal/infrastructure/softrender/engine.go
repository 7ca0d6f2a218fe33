// Package softrender renders previews in-process with a pure-Go software
// rasterizer, for machines without a Blender install. It covers STL and
// glTF imports; PLY still needs the blender engine.
package softrender

import (
	"context"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strings"

	"github.com/disintegration/imaging"
	"github.com/netisu/aeno"

	"mesh2img/internal/application/batch"
	"mesh2img/internal/domain/mesh"
	"mesh2img/internal/domain/render"
)

const (
	fieldOfView = 30.0
	nearPlane   = 1.0
	farPlane    = 100.0
)

var meshColor = aeno.Color{R: 0.75, G: 0.75, B: 0.78, A: 1}

// Engine holds the one-object scene of the software renderer.
type Engine struct {
	mesh        *aeno.Mesh
	object      string
	eye         batch.Vec3
	rotationDeg batch.Vec3
	debug       *log.Logger
}

// New creates a software render engine.
func New(debug *log.Logger) *Engine {
	return &Engine{debug: debug}
}

// ImportMesh loads a mesh file and centers it on the origin. The scene
// holds a single object, so importing while one is present fails.
func (e *Engine) ImportMesh(_ context.Context, path string) (string, error) {
	if e.mesh != nil {
		return "", &render.OperationError{
			Op:  "import",
			Err: fmt.Errorf("scene already holds object %q, delete it first", e.object),
		}
	}

	var (
		m   *aeno.Mesh
		err error
	)
	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".stl":
		m, err = aeno.LoadSTL(path)
	case ".glb", ".gltf":
		m, err = aeno.LoadGLTF(path)
	default:
		return "", &render.OperationError{
			Op:  "import",
			Err: fmt.Errorf("%s import is not supported by the built-in renderer, use the blender engine", ext),
		}
	}
	if err != nil {
		return "", &render.OperationError{Op: "import", Err: err}
	}

	box := m.BoundingBox()
	m.Transform(aeno.Translate(box.Center().Negate()))

	e.mesh = m
	e.object = mesh.Basename(path)
	return e.object, nil
}

// Dimensions returns the held object's bounding box size.
func (e *Engine) Dimensions(_ context.Context, object string) (batch.Vec3, error) {
	if err := e.requireObject("dimensions", object); err != nil {
		return batch.Vec3{}, err
	}
	box := e.mesh.BoundingBox()
	size := box.Max.Sub(box.Min)
	return batch.Vec3{size.X, size.Y, size.Z}, nil
}

// SetScale applies a uniform scale to the held object.
func (e *Engine) SetScale(_ context.Context, object string, factor float64) error {
	if err := e.requireObject("set_scale", object); err != nil {
		return err
	}
	e.mesh.Transform(aeno.Scale(aeno.V(factor, factor, factor)))
	return nil
}

// SetCamera stores the viewpoint; rotation is Euler XYZ degrees applied to
// the default down-looking view direction.
func (e *Engine) SetCamera(_ context.Context, position, rotationDeg batch.Vec3) error {
	e.eye = position
	e.rotationDeg = rotationDeg
	return nil
}

// Render rasterizes the scene and encodes it to settings.Path.
func (e *Engine) Render(_ context.Context, settings batch.RenderSettings) error {
	if e.mesh == nil {
		return &render.OperationError{Op: "render", Err: fmt.Errorf("no object in scene")}
	}
	if settings.StampText != "" {
		e.debug.Printf("stamp text is ignored by the built-in renderer")
	}

	format, err := imageFormat(settings.Format)
	if err != nil {
		return &render.OperationError{Op: "render", Err: err}
	}

	ctx := aeno.NewContext(settings.Width, settings.Height)
	if settings.Transparent {
		ctx.ClearColorBufferWith(aeno.Color{})
	} else {
		ctx.ClearColorBufferWith(aeno.Color{R: 1, G: 1, B: 1, A: 1})
	}

	eye := aeno.V(e.eye[0], e.eye[1], e.eye[2])
	target := eye.Add(e.viewDirection())
	up := aeno.V(0, 1, 0)
	aspect := float64(settings.Width) / float64(settings.Height)
	matrix := aeno.LookAt(eye, target, up).Perspective(fieldOfView, aspect, nearPlane, farPlane)
	light := aeno.V(-0.75, 1, 0.25).Normalize()

	shader := aeno.NewPhongShader(matrix, light, eye)
	shader.ObjectColor = meshColor
	ctx.Shader = shader
	ctx.DrawMesh(e.mesh)

	if err := os.MkdirAll(filepath.Dir(settings.Path), 0o755); err != nil {
		return &render.OperationError{Op: "render", Err: err}
	}
	file, err := os.Create(settings.Path)
	if err != nil {
		return &render.OperationError{Op: "render", Err: err}
	}
	encodeErr := imaging.Encode(file, ctx.Image(), format, imaging.JPEGQuality(settings.JPEGQuality))
	if closeErr := file.Close(); encodeErr == nil {
		encodeErr = closeErr
	}
	if encodeErr != nil {
		return &render.OperationError{Op: "render", Err: encodeErr}
	}
	return nil
}

// DeleteObject drops the held object from the scene.
func (e *Engine) DeleteObject(_ context.Context, object string, ignoreMissing bool) error {
	if e.mesh == nil || e.object != object {
		if ignoreMissing {
			return nil
		}
		return &render.OperationError{Op: "delete", Err: fmt.Errorf("object %q does not exist", object)}
	}
	e.mesh = nil
	e.object = ""
	return nil
}

// Close is a no-op; the renderer has no external process.
func (e *Engine) Close() error { return nil }

func (e *Engine) requireObject(op, object string) error {
	if e.mesh == nil || e.object != object {
		return &render.OperationError{Op: op, Err: fmt.Errorf("object %q does not exist", object)}
	}
	return nil
}

func (e *Engine) viewDirection() aeno.Vector {
	rx := aeno.Radians(e.rotationDeg[0])
	ry := aeno.Radians(e.rotationDeg[1])
	rz := aeno.Radians(e.rotationDeg[2])
	m := aeno.Rotate(aeno.V(0, 0, 1), rz).
		Mul(aeno.Rotate(aeno.V(0, 1, 0), ry)).
		Mul(aeno.Rotate(aeno.V(1, 0, 0), rx))
	return m.MulDirection(aeno.V(0, 0, -1))
}

func imageFormat(key string) (imaging.Format, error) {
	switch key {
	case "bmp":
		return imaging.BMP, nil
	case "jpg":
		return imaging.JPEG, nil
	case "png":
		return imaging.PNG, nil
	case "tif":
		return imaging.TIFF, nil
	default:
		return 0, fmt.Errorf("%q is not an expected image format", key)
	}
}
