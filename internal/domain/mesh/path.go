package mesh

import (
	"path/filepath"
	"strings"
)

var supportedMeshExts = map[string]bool{
	".stl": true,
	".ply": true,
}

// IsSupportedMeshExt reports whether extension belongs to a recognized mesh format.
func IsSupportedMeshExt(ext string) bool {
	return supportedMeshExts[strings.ToLower(strings.TrimSpace(ext))]
}

// SplitExt splits a source path into its extension-free prefix and extension.
func SplitExt(path string) (string, string) {
	ext := filepath.Ext(path)
	return strings.TrimSuffix(path, ext), ext
}

// Basename returns the file name without directory or extension.
func Basename(path string) string {
	name := filepath.Base(path)
	return strings.TrimSuffix(name, filepath.Ext(name))
}
