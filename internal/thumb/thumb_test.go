package thumb

import (
	"image"
	"image/jpeg"
	"os"
	"path/filepath"
	"testing"
)

func writeTestImage(t *testing.T, path string, w, h int) {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	f, err := os.Create(path)
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close()
	if err := jpeg.Encode(f, img, nil); err != nil {
		t.Fatal(err)
	}
}

func decodeBounds(t *testing.T, path string) (int, int) {
	t.Helper()
	f, err := os.Open(path)
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close()
	cfg, _, err := image.DecodeConfig(f)
	if err != nil {
		t.Fatal(err)
	}
	return cfg.Width, cfg.Height
}

func TestFromPhotoLandscape(t *testing.T) {
	dir := t.TempDir()
	src := filepath.Join(dir, "src.jpg")
	dst := filepath.Join(dir, "thumb.jpg")
	writeTestImage(t, src, 640, 360)

	if err := FromPhoto(src, dst); err != nil {
		t.Fatalf("FromPhoto failed: %v", err)
	}
	w, h := decodeBounds(t, dst)
	if w != Side || h != Side*360/640 {
		t.Errorf("thumbnail bounds = %dx%d, want %dx%d", w, h, Side, Side*360/640)
	}
}

func TestFromPhotoPortrait(t *testing.T) {
	dir := t.TempDir()
	src := filepath.Join(dir, "src.jpg")
	dst := filepath.Join(dir, "thumb.jpg")
	writeTestImage(t, src, 300, 600)

	if err := FromPhoto(src, dst); err != nil {
		t.Fatalf("FromPhoto failed: %v", err)
	}
	w, h := decodeBounds(t, dst)
	if h != Side || w != Side*300/600 {
		t.Errorf("thumbnail bounds = %dx%d, want %dx%d", w, h, Side*300/600, Side)
	}
}

func TestDefault(t *testing.T) {
	dst := filepath.Join(t.TempDir(), "thumb.jpg")
	if err := Default(dst); err != nil {
		t.Fatalf("Default failed: %v", err)
	}
	w, h := decodeBounds(t, dst)
	if w != Side || h != Side {
		t.Errorf("default thumbnail bounds = %dx%d, want %dx%d", w, h, Side, Side)
	}
}

func TestFromPhotoMissingSource(t *testing.T) {
	dir := t.TempDir()
	if err := FromPhoto(filepath.Join(dir, "nope.jpg"), filepath.Join(dir, "out.jpg")); err == nil {
		t.Fatal("expected error for missing source")
	}
}
