package filesystem

import (
	"io/fs"
	"os"
	"path/filepath"

	"mesh2img/internal/domain/mesh"
)

// Scanner discovers mesh source files on local disk.
type Scanner struct{}

// NewScanner creates the filesystem source adapter.
func NewScanner() *Scanner {
	return &Scanner{}
}

// IsDir reports whether path names a directory.
func (s *Scanner) IsDir(path string) (bool, error) {
	info, err := os.Stat(path)
	if err != nil {
		return false, err
	}
	return info.IsDir(), nil
}

// ListMeshFiles walks the tree under root and returns every file whose
// extension matches a recognized mesh format, in lexical walk order.
func (s *Scanner) ListMeshFiles(root string) ([]string, error) {
	files := make([]string, 0)
	err := filepath.WalkDir(root, func(path string, entry fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if entry.IsDir() {
			return nil
		}
		if !mesh.IsSupportedMeshExt(filepath.Ext(entry.Name())) {
			return nil
		}
		files = append(files, path)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return files, nil
}
