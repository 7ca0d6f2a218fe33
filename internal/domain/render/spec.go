package render

import (
	"sort"
	"strconv"
	"strings"
)

// DefaultOutputTemplate places output images next to the source mesh.
const DefaultOutputTemplate = "{filepath}_{width}.{ext}"

// DefaultJPEGQuality is used when a spec does not override compression quality.
const DefaultJPEGQuality = 80

var imageFormats = map[string]bool{
	"bmp": true,
	"jpg": true,
	"png": true,
	"tif": true,
}

// ImageFormats returns the accepted output format keys in sorted order.
func ImageFormats() []string {
	formats := make([]string, 0, len(imageFormats))
	for f := range imageFormats {
		formats = append(formats, f)
	}
	sort.Strings(formats)
	return formats
}

// JobSpec describes one desired output image per source mesh. Immutable
// once built; construct through NewJobSpec.
type JobSpec struct {
	Width          int
	Height         int
	Format         string
	Quality        int
	OutputTemplate string
}

// WorkItem pairs one source mesh file with one job spec.
type WorkItem struct {
	Source string
	Spec   JobSpec
}

// NewJobSpec parses a dimension token ("W" for a square image, "W,H" for a
// pair) and builds a validated job spec. An empty format defaults to png,
// an empty template to DefaultOutputTemplate.
func NewJobSpec(dimensions, format, outputTemplate string, quality int) (JobSpec, error) {
	if format == "" {
		format = "png"
	}
	if !imageFormats[format] {
		return JobSpec{}, NewValidationError("%q is not a supported image format (choose from %s)",
			format, strings.Join(ImageFormats(), ", "))
	}
	if outputTemplate == "" {
		outputTemplate = DefaultOutputTemplate
	}
	if quality < 0 || quality > 100 {
		return JobSpec{}, NewValidationError("jpeg quality %d is out of range 0-100", quality)
	}

	width, height, err := parseDimensions(dimensions)
	if err != nil {
		return JobSpec{}, err
	}

	return JobSpec{
		Width:          width,
		Height:         height,
		Format:         format,
		Quality:        quality,
		OutputTemplate: outputTemplate,
	}, nil
}

func parseDimensions(token string) (int, int, error) {
	parts := strings.Split(strings.TrimSpace(token), ",")
	switch len(parts) {
	case 1:
		side, err := parseDimension(parts[0])
		if err != nil {
			return 0, 0, err
		}
		return side, side, nil
	case 2:
		width, err := parseDimension(parts[0])
		if err != nil {
			return 0, 0, err
		}
		height, err := parseDimension(parts[1])
		if err != nil {
			return 0, 0, err
		}
		return width, height, nil
	default:
		return 0, 0, NewValidationError("dimension spec %q must be W or W,H", token)
	}
}

func parseDimension(raw string) (int, error) {
	value, err := strconv.Atoi(strings.TrimSpace(raw))
	if err != nil {
		return 0, NewValidationError("dimension %q is not an integer", raw)
	}
	if value <= 0 {
		return 0, NewValidationError("dimension %d must be positive", value)
	}
	return value, nil
}
