package report

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestWriteVehicleCollapsesWhitespaceInName(t *testing.T) {
	dir := t.TempDir()
	w := NewWriter(dir, nil)

	path, err := w.WriteVehicle("abc-123", "Land Rover", "Range  Rover", "KA01AB1234",
		[]Field{{Key: "make", Value: "Land Rover"}, {Key: "empty", Value: ""}},
		[]Image{{Name: "img_front", URL: "https://cdn.example.com/f.jpg"}, {Name: "img_back", URL: ""}})
	if err != nil {
		t.Fatalf("write: %v", err)
	}
	if filepath.Base(path) != "deleted-Land-Rover-Range-Rover-abc-123.html" {
		t.Fatalf("filename mismatch: %s", filepath.Base(path))
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read back: %v", err)
	}
	content := string(data)
	if !strings.Contains(content, "KA01AB1234") {
		t.Fatal("reg number missing from report")
	}
	// 空值的明细行和图片位不渲染
	if strings.Contains(content, "empty") || strings.Contains(content, "img_back") {
		t.Fatal("empty fields should be skipped")
	}
}

func TestWriteVehicleEscapesContent(t *testing.T) {
	dir := t.TempDir()
	w := NewWriter(dir, nil)

	path, err := w.WriteVehicle("x", "Make", "Model", `<script>alert(1)</script>`,
		[]Field{{Key: "color", Value: `red & "blue"`}}, nil)
	if err != nil {
		t.Fatalf("write: %v", err)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read back: %v", err)
	}
	if strings.Contains(string(data), "<script>") {
		t.Fatal("markup should be escaped")
	}
}

func TestWriterRequiresDirectory(t *testing.T) {
	var w *Writer
	if _, err := w.WriteVehicle("x", "a", "b", "", nil, nil); err == nil {
		t.Fatal("nil writer should error")
	}
	if _, err := NewWriter("", nil).WriteVehicle("x", "a", "b", "", nil, nil); err == nil {
		t.Fatal("empty dir should error")
	}
}
