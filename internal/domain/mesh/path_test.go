package mesh

import "testing"

func TestIsSupportedMeshExt(t *testing.T) {
	for _, ext := range []string{".stl", ".ply", ".STL", ".PLY", " .stl "} {
		if !IsSupportedMeshExt(ext) {
			t.Fatalf("expected %q to be supported", ext)
		}
	}
	for _, ext := range []string{".txt", ".obj", "", "stl"} {
		if IsSupportedMeshExt(ext) {
			t.Fatalf("expected %q to be unsupported", ext)
		}
	}
}

func TestSplitExt(t *testing.T) {
	prefix, ext := SplitExt("/m/sub/part.v2.STL")
	if prefix != "/m/sub/part.v2" || ext != ".STL" {
		t.Fatalf("unexpected split %q %q", prefix, ext)
	}
	prefix, ext = SplitExt("/m/noext")
	if prefix != "/m/noext" || ext != "" {
		t.Fatalf("unexpected split %q %q", prefix, ext)
	}
}

func TestBasename(t *testing.T) {
	if got := Basename("/m/sub/part.stl"); got != "part" {
		t.Fatalf("expected %q, got %q", "part", got)
	}
}
