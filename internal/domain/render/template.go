package render

import (
	"regexp"
	"strconv"
	"strings"
	"time"

	"mesh2img/internal/domain/mesh"
)

// TimestampLayout is the wall-clock format for the date and exec_time placeholders.
const TimestampLayout = "2006-01-02_150405"

var placeholderPattern = regexp.MustCompile(`\{([^{}]*)\}`)

// ResolveOutputPath renders a spec's output template against one source
// file. execTime is fixed once per batch; the date placeholder is computed
// from now at every call, so two renders of the same item can land in
// different files when the template asks for it.
func ResolveOutputPath(spec JobSpec, sourcePath, execTime string, now time.Time) (string, error) {
	date := now.Format(TimestampLayout)
	if execTime == "" {
		execTime = date
	}
	pathNoExt, srcExt := mesh.SplitExt(sourcePath)

	values := map[string]string{
		"basename":  mesh.Basename(sourcePath),
		"date":      date,
		"exec_time": execTime,
		"ext":       strings.ToLower(spec.Format),
		"filepath":  pathNoExt,
		"height":    strconv.Itoa(spec.Height),
		"src_ext":   srcExt,
		"width":     strconv.Itoa(spec.Width),
	}

	var unknown string
	resolved := placeholderPattern.ReplaceAllStringFunc(spec.OutputTemplate, func(match string) string {
		name := match[1 : len(match)-1]
		value, ok := values[name]
		if !ok {
			if unknown == "" {
				unknown = name
			}
			return match
		}
		return value
	})
	if unknown != "" {
		return "", &TemplateError{Template: spec.OutputTemplate, Placeholder: unknown}
	}
	return resolved, nil
}
