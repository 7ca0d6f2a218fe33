package config

import (
	"strconv"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"mesh2img/internal/domain/render"
)

// Engine selection keys.
const (
	EngineBlender = "blender"
	EngineNative  = "native"
)

// Config holds the fully parsed batch settings. Verbosity lives here as a
// plain value; callers derive their own debug logger from it instead of
// touching any process-global level.
type Config struct {
	Paths          []string `validate:"min=1"`
	Dimensions     []string `validate:"min=1"`
	ImageFormat    string   `validate:"oneof=bmp jpg png tif"`
	JPEGQuality    int      `validate:"gte=0,lte=100"`
	OutputTemplate string   `validate:"required"`
	MaxDim         float64  `validate:"gt=0"`
	CameraCoords   [3]float64
	CameraRotation [3]float64
	Engine         string `validate:"oneof=blender native"`
	BlenderBin     string `validate:"required"`
	ClearObject    string
	StampText      string
	StampFontSize  int `validate:"gte=0"`
	Verbose        bool
}

var validate = validator.New()

// Load parses command-line arguments with MESH2IMG_* environment fallbacks
// and returns a validated configuration. Violations come back as
// render.ValidationError so the caller can report them uniformly.
func Load(args []string) (*Config, error) {
	flags := pflag.NewFlagSet("mesh2img", pflag.ContinueOnError)
	flags.StringSliceP("paths", "p", nil,
		"mesh files and/or directories to process; directories are searched recursively for STL and PLY files")
	flags.StringSliceP("dimensions", "d", nil,
		"output sizes, each either W for a square image or W,H (e.g. -d 400 -d 800,600)")
	flags.StringP("image-format", "i", "png", "output image format: bmp, jpg, png or tif")
	flags.Int("jpeg-quality", render.DefaultJPEGQuality, "JPEG compression quality when the format is jpg")
	flags.StringP("output-template", "o", render.DefaultOutputTemplate,
		"output path template; placeholders: {basename} {date} {exec_time} {ext} {filepath} {height} {src_ext} {width}")
	flags.Float64P("max-dim", "x", 9.0, "scale each mesh so its longest axis has exactly this length")
	flags.StringP("camera-coords", "c", "0.0,0.0,10.0", "camera position as X,Y,Z")
	flags.StringP("camera-rotation", "r", "0.0,0.0,0.0", "camera rotation in degrees as X,Y,Z")
	flags.String("engine", EngineBlender, "render engine: blender (external process) or native (built-in rasterizer, imports STL and glTF only)")
	flags.String("blender-bin", "blender", "blender executable used by the blender engine")
	flags.String("clear-object", "Cube", "pre-existing scene object to remove before the batch; empty to skip")
	flags.String("stamp", "", "text stamped onto each rendered image")
	flags.Int("stamp-size", 18, "font size of the stamp text")
	flags.BoolP("verbose", "v", false, "log per-operation detail")

	if err := flags.Parse(args); err != nil {
		return nil, render.NewValidationError("%v", err)
	}

	v := viper.New()
	v.SetEnvPrefix("MESH2IMG")
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()
	if err := v.BindPFlags(flags); err != nil {
		return nil, err
	}

	cameraCoords, err := parseVec3(v.GetString("camera-coords"))
	if err != nil {
		return nil, render.NewValidationError("camera coords: %v", err)
	}
	cameraRotation, err := parseVec3(v.GetString("camera-rotation"))
	if err != nil {
		return nil, render.NewValidationError("camera rotation: %v", err)
	}

	cfg := &Config{
		Paths:          v.GetStringSlice("paths"),
		Dimensions:     v.GetStringSlice("dimensions"),
		ImageFormat:    v.GetString("image-format"),
		JPEGQuality:    v.GetInt("jpeg-quality"),
		OutputTemplate: v.GetString("output-template"),
		MaxDim:         v.GetFloat64("max-dim"),
		CameraCoords:   cameraCoords,
		CameraRotation: cameraRotation,
		Engine:         v.GetString("engine"),
		BlenderBin:     v.GetString("blender-bin"),
		ClearObject:    v.GetString("clear-object"),
		StampText:      v.GetString("stamp"),
		StampFontSize:  v.GetInt("stamp-size"),
		Verbose:        v.GetBool("verbose"),
	}

	if err := validate.Struct(cfg); err != nil {
		return nil, render.NewValidationError("invalid arguments: %v", err)
	}
	return cfg, nil
}

func parseVec3(raw string) ([3]float64, error) {
	parts := strings.Split(raw, ",")
	if len(parts) != 3 {
		return [3]float64{}, render.NewValidationError("%q must be three comma-separated numbers", raw)
	}
	var out [3]float64
	for i, part := range parts {
		value, err := strconv.ParseFloat(strings.TrimSpace(part), 64)
		if err != nil {
			return [3]float64{}, render.NewValidationError("%q is not a number", part)
		}
		out[i] = value
	}
	return out, nil
}
