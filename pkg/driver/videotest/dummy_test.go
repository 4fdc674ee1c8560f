package videotest

import (
	"image"
	"io"
	"testing"

	"github.com/pion/mediacheck/pkg/driver"
)

func TestDummy(t *testing.T) {
	m := driver.NewManager()
	if err := RegisterCamera(m, "cam"); err != nil {
		t.Fatal(err)
	}
	if err := RegisterScreen(m, "display"); err != nil {
		t.Fatal(err)
	}

	screens := m.Query(driver.FilterDeviceType(driver.Screen))
	if len(screens) != 1 {
		t.Fatalf("expected 1 screen, got %d", len(screens))
	}

	d := m.Query(driver.FilterDeviceType(driver.Camera))[0]
	if err := d.Open(); err != nil {
		t.Fatal(err)
	}

	p := d.Properties()[1]
	r, err := d.(driver.VideoRecorder).VideoRecord(p)
	if err != nil {
		t.Fatal(err)
	}

	img, _, err := r.Read()
	if err != nil {
		t.Fatal(err)
	}
	if img.Bounds() != image.Rect(0, 0, 1280, 720) {
		t.Errorf("unexpected bounds %v", img.Bounds())
	}

	d.Close()
	if _, _, err := r.Read(); err != io.EOF {
		t.Errorf("expected EOF after close, got %v", err)
	}
}
