package filemgr

import (
	"bytes"
	"errors"
	"image"
	"mime/multipart"
	"os"
	"path/filepath"
	"testing"
)

// jpegPayload builds a blob that sniffs as image/jpeg, padded to size bytes.
func jpegPayload(size int) []byte {
	data := make([]byte, size)
	copy(data, []byte{0xff, 0xd8, 0xff, 0xe0})
	return data
}

func photoDir(t *testing.T) string {
	t.Helper()
	dir := filepath.Join(t.TempDir(), "photo")
	if err := os.MkdirAll(dir, 0o755); err != nil {
		t.Fatal(err)
	}
	return dir
}

func TestSaveFileRejectsOversized(t *testing.T) {
	data := jpegPayload(4096)
	header := &multipart.FileHeader{Filename: "big.jpg", Size: int64(len(data))}

	_, err := SaveFile(bytes.NewReader(data), header, photoDir(t), 1024, nil)
	if !errors.Is(err, ErrFileTooLarge) {
		t.Fatalf("expected ErrFileTooLarge, got %v", err)
	}
}

// A header that understates the upload size must not sneak a truncated
// oversized body onto disk.
func TestSaveFileRejectsOversizedBody(t *testing.T) {
	dir := photoDir(t)
	data := jpegPayload(5000)
	header := &multipart.FileHeader{Filename: "sneaky.jpg", Size: 10}

	_, err := SaveFile(bytes.NewReader(data), header, dir, 1024, nil)
	if !errors.Is(err, ErrFileTooLarge) {
		t.Fatalf("expected ErrFileTooLarge, got %v", err)
	}

	entries, err := os.ReadDir(dir)
	if err != nil {
		t.Fatal(err)
	}
	if len(entries) != 0 {
		t.Fatalf("expected no file left behind, found %d", len(entries))
	}
}

func TestSaveFileWithinLimit(t *testing.T) {
	dir := photoDir(t)
	data := jpegPayload(2048)
	header := &multipart.FileHeader{Filename: "ok.jpg", Size: int64(len(data))}

	name, err := SaveFile(bytes.NewReader(data), header, dir, 64<<10, nil)
	if err != nil {
		t.Fatalf("save: %v", err)
	}

	info, err := os.Stat(filepath.Join(dir, name))
	if err != nil {
		t.Fatalf("stat saved file: %v", err)
	}
	if info.Size() != int64(len(data)) {
		t.Fatalf("saved %d bytes, want %d", info.Size(), len(data))
	}
}

func TestValidateImageDimensions(t *testing.T) {
	img := image.NewRGBA(image.Rect(0, 0, 100, 80))

	if err := ValidateImageDimensions(img, 200, 200); err != nil {
		t.Fatalf("expected 100x80 within 200x200, got %v", err)
	}
	if err := ValidateImageDimensions(img, 50, 200); err == nil {
		t.Fatal("expected rejection for width over the max")
	}
}
