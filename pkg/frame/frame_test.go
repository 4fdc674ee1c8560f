package frame

import (
	"bytes"
	"errors"
	"image"
	"image/color"
	"image/jpeg"
	"testing"
)

func TestDecodeYUY2(t *testing.T) {
	const width, height = 2, 2
	raw := []byte{
		10, 128, 20, 130,
		30, 126, 40, 132,
	}

	d, err := NewDecoder(FormatYUYV)
	if err != nil {
		t.Fatal(err)
	}
	img, _, err := d.Decode(raw, width, height)
	if err != nil {
		t.Fatal(err)
	}

	yuv := img.(*image.YCbCr)
	if !bytes.Equal(yuv.Y, []byte{10, 20, 30, 40}) {
		t.Errorf("unexpected luma %v", yuv.Y)
	}
	if !bytes.Equal(yuv.Cb, []byte{128, 126}) || !bytes.Equal(yuv.Cr, []byte{130, 132}) {
		t.Errorf("unexpected chroma %v %v", yuv.Cb, yuv.Cr)
	}

	if _, _, err := d.Decode(raw[:6], width, height); err == nil {
		t.Error("expected an error for a short frame")
	}
}

func TestDecodeI420(t *testing.T) {
	const width, height = 2, 2
	raw := []byte{1, 2, 3, 4, 5, 6}

	d, err := NewDecoder(FormatI420)
	if err != nil {
		t.Fatal(err)
	}
	img, _, err := d.Decode(raw, width, height)
	if err != nil {
		t.Fatal(err)
	}
	yuv := img.(*image.YCbCr)
	if yuv.Cb[0] != 5 || yuv.Cr[0] != 6 {
		t.Errorf("unexpected chroma %v %v", yuv.Cb, yuv.Cr)
	}
}

func TestDecodeMJPEG(t *testing.T) {
	src := image.NewGray(image.Rect(0, 0, 8, 8))
	for i := range src.Pix {
		src.Pix[i] = 200
	}
	var buf bytes.Buffer
	if err := jpeg.Encode(&buf, src, nil); err != nil {
		t.Fatal(err)
	}

	d, err := NewDecoder(FormatMJPEG)
	if err != nil {
		t.Fatal(err)
	}
	img, _, err := d.Decode(buf.Bytes(), 8, 8)
	if err != nil {
		t.Fatal(err)
	}
	if img.Bounds() != src.Bounds() {
		t.Errorf("expected bounds %v, got %v", src.Bounds(), img.Bounds())
	}
	if g := color.GrayModel.Convert(img.At(4, 4)).(color.Gray); g.Y < 190 || g.Y > 210 {
		t.Errorf("unexpected pixel value %d", g.Y)
	}
}

func TestDecodeMJPEGRejectsBadFrames(t *testing.T) {
	var buf bytes.Buffer
	if err := jpeg.Encode(&buf, image.NewGray(image.Rect(0, 0, 8, 8)), nil); err != nil {
		t.Fatal(err)
	}

	if _, _, err := decodeMJPEG(nil, 8, 8); !errors.Is(err, errEmptyFrame) {
		t.Errorf("empty frame: expected %v, got %v", errEmptyFrame, err)
	}
	if _, _, err := decodeMJPEG(buf.Bytes(), 16, 8); !errors.Is(err, errFrameSize) {
		t.Errorf("wrong size: expected %v, got %v", errFrameSize, err)
	}
	if _, _, err := decodeMJPEG(buf.Bytes()[:buf.Len()/2], 8, 8); err == nil {
		t.Error("truncated frame: expected an error")
	}
	if _, _, err := decodeMJPEG(buf.Bytes(), 0, 0); err != nil {
		t.Errorf("unknown size: unexpected error %v", err)
	}
}

func TestUnsupportedFormat(t *testing.T) {
	if _, err := NewDecoder(FormatRGBA); err == nil {
		t.Error("expected an error")
	}
}
