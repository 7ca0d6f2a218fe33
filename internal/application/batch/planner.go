package batch

import (
	"fmt"

	"mesh2img/internal/domain/render"
)

// Plan expands input paths into the flat worklist: every discovered source
// file crossed with every job spec, file-major. Paths naming a directory
// are expanded recursively and filtered to recognized mesh extensions;
// paths naming a file are kept as given, without extension filtering.
func Plan(sources SourceRepository, paths []string, specs []render.JobSpec) ([]render.WorkItem, error) {
	if len(paths) == 0 {
		return nil, render.NewValidationError("no input paths were given, nothing to convert")
	}
	if len(specs) == 0 {
		return nil, render.NewValidationError("no job specs were given, add at least one output dimension")
	}

	files := make([]string, 0, len(paths))
	for _, path := range paths {
		isDir, err := sources.IsDir(path)
		if err != nil {
			return nil, fmt.Errorf("classify %s: %w", path, err)
		}
		if !isDir {
			files = append(files, path)
			continue
		}
		found, err := sources.ListMeshFiles(path)
		if err != nil {
			return nil, fmt.Errorf("scan %s: %w", path, err)
		}
		files = append(files, found...)
	}

	items := make([]render.WorkItem, 0, len(files)*len(specs))
	for _, file := range files {
		for _, spec := range specs {
			items = append(items, render.WorkItem{Source: file, Spec: spec})
		}
	}
	return items, nil
}
