package grf

import (
	"bytes"
	"compress/zlib"
	"encoding/binary"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

type testFile struct {
	name    string
	content []byte
}

// buildGRF assembles a version 0x200 archive in memory.
func buildGRF(t *testing.T, files []testFile) []byte {
	t.Helper()

	var body, table bytes.Buffer
	for _, file := range files {
		var compressed bytes.Buffer
		w := zlib.NewWriter(&compressed)
		w.Write(file.content)
		w.Close()

		aligned := uint32(compressed.Len())
		if aligned%8 != 0 {
			aligned += 8 - aligned%8
		}
		offset := uint32(body.Len())
		body.Write(compressed.Bytes())
		body.Write(make([]byte, aligned-uint32(compressed.Len())))

		table.WriteString(strings.ReplaceAll(file.name, "/", "\\"))
		table.WriteByte(0)
		binary.Write(&table, binary.LittleEndian, uint32(compressed.Len()))
		binary.Write(&table, binary.LittleEndian, aligned)
		binary.Write(&table, binary.LittleEndian, uint32(len(file.content)))
		table.WriteByte(flagFile)
		binary.Write(&table, binary.LittleEndian, offset)
	}

	var compressedTable bytes.Buffer
	tw := zlib.NewWriter(&compressedTable)
	tw.Write(table.Bytes())
	tw.Close()

	header := Header{
		TableOffset: uint32(body.Len()),
		FileCount:   uint32(len(files)) + 7,
		Version:     version200,
	}
	copy(header.Magic[:], grfMagic)

	var out bytes.Buffer
	binary.Write(&out, binary.LittleEndian, header)
	out.Write(body.Bytes())
	binary.Write(&out, binary.LittleEndian, uint32(compressedTable.Len()))
	binary.Write(&out, binary.LittleEndian, uint32(table.Len()))
	out.Write(compressedTable.Bytes())
	return out.Bytes()
}

func testArchive(t *testing.T) *Archive {
	t.Helper()
	data := buildGRF(t, []testFile{
		{"data/model/prontera/tree.rsm", []byte("GRSM fake model")},
		{"data/texture/Wood.bmp", []byte("BM fake bitmap data")},
		{"data/subfolder/nested/file.txt", []byte("Nested file content")},
	})
	archive, err := NewArchive(bytes.NewReader(data))
	if err != nil {
		t.Fatalf("NewArchive failed: %v", err)
	}
	return archive
}

func TestList(t *testing.T) {
	archive := testArchive(t)

	want := []string{
		"data/model/prontera/tree.rsm",
		"data/subfolder/nested/file.txt",
		"data/texture/wood.bmp",
	}
	got := archive.List()
	if len(got) != len(want) {
		t.Fatalf("List() = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("List()[%d] = %q, want %q", i, got[i], want[i])
		}
	}
}

func TestContains(t *testing.T) {
	archive := testArchive(t)

	tests := []struct {
		path string
		want bool
	}{
		{"data/texture/wood.bmp", true},
		{`data\texture\WOOD.BMP`, true},
		{"data/texture/stone.bmp", false},
	}
	for _, tt := range tests {
		if got := archive.Contains(tt.path); got != tt.want {
			t.Errorf("Contains(%q) = %v, want %v", tt.path, got, tt.want)
		}
	}
}

func TestReadFile(t *testing.T) {
	archive := testArchive(t)

	data, err := archive.ReadFile(`data\model\prontera\tree.rsm`)
	if err != nil {
		t.Fatalf("ReadFile failed: %v", err)
	}
	if string(data) != "GRSM fake model" {
		t.Errorf("ReadFile = %q", data)
	}

	if _, err := archive.ReadFile("missing.rsm"); !errors.Is(err, ErrNotFound) {
		t.Errorf("missing file: got %v, want ErrNotFound", err)
	}
}

func TestOpenFromDisk(t *testing.T) {
	path := filepath.Join(t.TempDir(), "test.grf")
	if err := os.WriteFile(path, buildGRF(t, []testFile{{"a.txt", []byte("hello")}}), 0644); err != nil {
		t.Fatalf("writing archive: %v", err)
	}

	archive, err := Open(path)
	if err != nil {
		t.Fatalf("Open failed: %v", err)
	}
	defer archive.Close()

	data, err := archive.ReadFile("A.TXT")
	if err != nil || string(data) != "hello" {
		t.Errorf("ReadFile = %q, %v", data, err)
	}
}

func TestInvalidArchive(t *testing.T) {
	data := buildGRF(t, nil)
	copy(data, "Not a GRF file!")

	if _, err := NewArchive(bytes.NewReader(data)); !errors.Is(err, ErrInvalidMagic) {
		t.Errorf("got %v, want ErrInvalidMagic", err)
	}
}
