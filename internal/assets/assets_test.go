package assets

import (
	"bytes"
	"encoding/binary"
	"errors"
	"os"
	"path/filepath"
	"testing"
)

// minimalRSM returns a version 1.1 model with no textures and no nodes.
func minimalRSM(root string) []byte {
	var b bytes.Buffer
	b.WriteString("GRSM")
	b.Write([]byte{1, 1})
	binary.Write(&b, binary.LittleEndian, int32(0)) // anim length
	binary.Write(&b, binary.LittleEndian, int32(1)) // shading
	b.Write(make([]byte, 16))
	binary.Write(&b, binary.LittleEndian, int32(0)) // textures
	name := make([]byte, 40)
	copy(name, root)
	b.Write(name)
	binary.Write(&b, binary.LittleEndian, int32(0)) // nodes
	return b.Bytes()
}

func writeFile(t *testing.T, dir, name string, data []byte) {
	t.Helper()
	path := filepath.Join(dir, filepath.FromSlash(name))
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		t.Fatal(err)
	}
}

func TestManagerReadFilePriority(t *testing.T) {
	low, high := t.TempDir(), t.TempDir()
	writeFile(t, low, "data/a.txt", []byte("low"))
	writeFile(t, low, "data/only-low.txt", []byte("only"))
	writeFile(t, high, "data/a.txt", []byte("high"))

	m := NewManager(nil)
	defer m.Close()
	if err := m.AddDir(low); err != nil {
		t.Fatal(err)
	}
	if err := m.AddDir(high); err != nil {
		t.Fatal(err)
	}

	tests := []struct {
		name string
		want string
	}{
		{"data/a.txt", "high"},
		{"DATA\\A.TXT", "high"},
		{"data/only-low.txt", "only"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := m.ReadFile(tt.name)
			if err != nil {
				t.Fatalf("ReadFile() error = %v", err)
			}
			if string(got) != tt.want {
				t.Errorf("ReadFile() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestManagerNotFound(t *testing.T) {
	m := NewManager(nil)
	if err := m.AddDir(t.TempDir()); err != nil {
		t.Fatal(err)
	}

	_, err := m.ReadFile("data/missing.rsm")
	if !errors.Is(err, ErrNotFound) {
		t.Errorf("got %v, want ErrNotFound", err)
	}
}

func TestManagerAddDirErrors(t *testing.T) {
	m := NewManager(nil)
	if err := m.AddDir(filepath.Join(t.TempDir(), "nope")); err == nil {
		t.Error("expected error for missing dir")
	}

	file := filepath.Join(t.TempDir(), "file")
	os.WriteFile(file, nil, 0644)
	if err := m.AddDir(file); err == nil {
		t.Error("expected error for regular file")
	}
}

func TestManagerAddArchiveMissing(t *testing.T) {
	m := NewManager(nil)
	if err := m.AddArchive(filepath.Join(t.TempDir(), "none.grf")); err == nil {
		t.Error("expected error for missing archive")
	}
}

func TestManagerCaches(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "data/a.txt", []byte("v1"))

	m := NewManager(nil)
	m.AddDir(dir)

	if _, err := m.ReadFile("data/a.txt"); err != nil {
		t.Fatal(err)
	}
	writeFile(t, dir, "data/a.txt", []byte("v2"))

	got, _ := m.ReadFile("data/a.txt")
	if string(got) != "v1" {
		t.Errorf("expected cached v1, got %q", got)
	}
	hits, misses := m.cache.Stats()
	if hits != 1 || misses != 1 {
		t.Errorf("Stats() = %d, %d; want 1, 1", hits, misses)
	}

	m.Close()
	if _, err := m.ReadFile("data/a.txt"); !errors.Is(err, ErrNotFound) {
		t.Errorf("closed manager should find nothing, got %v", err)
	}
}

func TestManagerLoadModel(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "data/model/town/house.rsm", minimalRSM("roof"))
	writeFile(t, dir, "data/model/broken.rsm", []byte("nope"))

	m := NewManager(nil)
	m.AddDir(dir)

	rsm, err := m.LoadModel("Town\\House.rsm")
	if err != nil {
		t.Fatalf("LoadModel() error = %v", err)
	}
	if rsm.RootNode != "roof" {
		t.Errorf("RootNode = %q, want roof", rsm.RootNode)
	}

	if _, err := m.LoadModel("broken.rsm"); err == nil {
		t.Error("expected parse error")
	}
	if _, err := m.LoadModel("absent.rsm"); !errors.Is(err, ErrNotFound) {
		t.Errorf("got %v, want ErrNotFound", err)
	}
}
