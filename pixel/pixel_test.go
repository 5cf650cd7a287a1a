package pixel

import (
	"bytes"
	"testing"
)

// TestToRGBA_RGB565_ChannelExtremes verifies min/mid/max scaling for
// each channel of the 5/6/5 encoding.
func TestToRGBA_RGB565_ChannelExtremes(t *testing.T) {
	testCases := []struct {
		name string
		px   uint16
		want []byte
	}{
		{"black", 0x0000, []byte{0, 0, 0, 0xFF}},
		{"red max", 0x1F << 11, []byte{255, 0, 0, 0xFF}},
		{"red mid", 0x10 << 11, []byte{0x10 * 255 / 31, 0, 0, 0xFF}},
		{"green max", 0x3F << 5, []byte{0, 255, 0, 0xFF}},
		{"green mid", 0x20 << 5, []byte{0, 0x20 * 255 / 63, 0, 0xFF}},
		{"blue max", 0x1F, []byte{0, 0, 255, 0xFF}},
		{"blue mid", 0x10, []byte{0, 0, 0x10 * 255 / 31, 0xFF}},
		{"white", 0xFFFF, []byte{255, 255, 255, 0xFF}},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			src := []byte{byte(tc.px), byte(tc.px >> 8)}
			dst := make([]byte, 4)
			ToRGBA(dst, src, FormatRGB565, 1, 1, 2)
			if !bytes.Equal(dst, tc.want) {
				t.Errorf("got % 02x, want % 02x", dst, tc.want)
			}
		})
	}
}

// TestToRGBA_0RGB1555_ChannelExtremes verifies 5-bit channel scaling
// with the top bit ignored.
func TestToRGBA_0RGB1555_ChannelExtremes(t *testing.T) {
	testCases := []struct {
		name string
		px   uint16
		want []byte
	}{
		{"black", 0x0000, []byte{0, 0, 0, 0xFF}},
		{"red max", 0x1F << 10, []byte{255, 0, 0, 0xFF}},
		{"green max", 0x1F << 5, []byte{0, 255, 0, 0xFF}},
		{"blue max", 0x1F, []byte{0, 0, 255, 0xFF}},
		{"mid gray", 0x10<<10 | 0x10<<5 | 0x10, []byte{0x83, 0x83, 0x83, 0xFF}},
		{"top bit ignored", 0x8000, []byte{0, 0, 0, 0xFF}},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			src := []byte{byte(tc.px), byte(tc.px >> 8)}
			dst := make([]byte, 4)
			ToRGBA(dst, src, Format0RGB1555, 1, 1, 2)
			if !bytes.Equal(dst, tc.want) {
				t.Errorf("got % 02x, want % 02x", dst, tc.want)
			}
		})
	}
}

// TestToRGBA_XRGB8888 verifies byte extraction and that the top byte is
// discarded.
func TestToRGBA_XRGB8888(t *testing.T) {
	testCases := []struct {
		name string
		px   uint32
		want []byte
	}{
		{"black", 0x00000000, []byte{0, 0, 0, 0xFF}},
		{"red", 0x00FF0000, []byte{255, 0, 0, 0xFF}},
		{"green", 0x0000FF00, []byte{0, 255, 0, 0xFF}},
		{"blue", 0x000000FF, []byte{0, 0, 255, 0xFF}},
		{"top byte ignored", 0xFF123456, []byte{0x12, 0x34, 0x56, 0xFF}},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			src := []byte{byte(tc.px), byte(tc.px >> 8), byte(tc.px >> 16), byte(tc.px >> 24)}
			dst := make([]byte, 4)
			ToRGBA(dst, src, FormatXRGB8888, 1, 1, 4)
			if !bytes.Equal(dst, tc.want) {
				t.Errorf("got % 02x, want % 02x", dst, tc.want)
			}
		})
	}
}

// TestToRGBA_RespectsPitch verifies padded source rows convert to a
// tightly packed destination.
func TestToRGBA_RespectsPitch(t *testing.T) {
	// 2x2 RGB565 frame with 8-byte pitch (4 bytes of padding per row).
	// Pixels: red, green / blue, white.
	red := []byte{0x00, 0xF8}
	green := []byte{0xE0, 0x07}
	blue := []byte{0x1F, 0x00}
	white := []byte{0xFF, 0xFF}
	pad := []byte{0xAA, 0xAA, 0xAA, 0xAA}

	var src []byte
	src = append(src, red...)
	src = append(src, green...)
	src = append(src, pad...)
	src = append(src, blue...)
	src = append(src, white...)
	src = append(src, pad...)

	dst := make([]byte, 2*2*4)
	ToRGBA(dst, src, FormatRGB565, 2, 2, 8)

	want := []byte{
		255, 0, 0, 0xFF,
		0, 255, 0, 0xFF,
		0, 0, 255, 0xFF,
		255, 255, 255, 0xFF,
	}
	if !bytes.Equal(dst, want) {
		t.Errorf("got % 02x, want % 02x", dst, want)
	}
}

// TestToRGBA_UnknownFormatDefaults verifies unknown formats fall back
// to 0RGB1555 decoding.
func TestToRGBA_UnknownFormatDefaults(t *testing.T) {
	px := uint16(0x1F << 10) // red in 1555
	src := []byte{byte(px), byte(px >> 8)}
	dst := make([]byte, 4)

	ToRGBA(dst, src, Format(99), 1, 1, 2)

	want := []byte{255, 0, 0, 0xFF}
	if !bytes.Equal(dst, want) {
		t.Errorf("got % 02x, want % 02x", dst, want)
	}
}

func TestFormatBytesPerPixel(t *testing.T) {
	if got := Format0RGB1555.BytesPerPixel(); got != 2 {
		t.Errorf("0RGB1555 bpp = %d, want 2", got)
	}
	if got := FormatRGB565.BytesPerPixel(); got != 2 {
		t.Errorf("RGB565 bpp = %d, want 2", got)
	}
	if got := FormatXRGB8888.BytesPerPixel(); got != 4 {
		t.Errorf("XRGB8888 bpp = %d, want 4", got)
	}
}
