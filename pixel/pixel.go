// Package pixel converts libretro framebuffer pixel formats into
// tightly packed RGBA8888.
//
// Cores render in one of three encodings negotiated through the
// environment callback. Source rows may be padded, so conversion walks
// rows by pitch; the destination is always width*height*4 bytes with
// alpha forced to 255.
package pixel

// Format identifies a libretro framebuffer pixel encoding. The values
// match RETRO_PIXEL_FORMAT_* from the libretro API.
type Format int

const (
	// Format0RGB1555 is 16 bits per pixel, 5 bits per channel, top bit
	// unused. The libretro default when a core never negotiates a format.
	Format0RGB1555 Format = 0

	// FormatXRGB8888 is 32 bits per pixel with the top byte ignored.
	FormatXRGB8888 Format = 1

	// FormatRGB565 is 16 bits per pixel with a 6-bit green channel.
	FormatRGB565 Format = 2
)

func (f Format) String() string {
	switch f {
	case Format0RGB1555:
		return "0RGB1555"
	case FormatXRGB8888:
		return "XRGB8888"
	case FormatRGB565:
		return "RGB565"
	}
	return "unknown"
}

// BytesPerPixel returns the source encoding size in bytes.
func (f Format) BytesPerPixel() int {
	if f == FormatXRGB8888 {
		return 4
	}
	return 2
}

// ToRGBA converts a raw framebuffer in the given format to RGBA8888.
// src holds at least height rows of pitch bytes each; dst must hold
// width*height*4 bytes. Unknown formats are treated as 0RGB1555, the
// libretro default.
func ToRGBA(dst, src []byte, f Format, width, height, pitch int) {
	switch f {
	case FormatXRGB8888:
		xrgb8888ToRGBA(dst, src, width, height, pitch)
	case FormatRGB565:
		rgb565ToRGBA(dst, src, width, height, pitch)
	default:
		rgb1555ToRGBA(dst, src, width, height, pitch)
	}
}

func xrgb8888ToRGBA(dst, src []byte, width, height, pitch int) {
	di := 0
	for y := 0; y < height; y++ {
		row := src[y*pitch:]
		for x := 0; x < width; x++ {
			px := uint32(row[x*4]) | uint32(row[x*4+1])<<8 |
				uint32(row[x*4+2])<<16 | uint32(row[x*4+3])<<24
			dst[di] = byte(px >> 16)  // R
			dst[di+1] = byte(px >> 8) // G
			dst[di+2] = byte(px)      // B
			dst[di+3] = 0xFF
			di += 4
		}
	}
}

func rgb565ToRGBA(dst, src []byte, width, height, pitch int) {
	di := 0
	for y := 0; y < height; y++ {
		row := src[y*pitch:]
		for x := 0; x < width; x++ {
			px := uint16(row[x*2]) | uint16(row[x*2+1])<<8
			dst[di] = byte((px >> 11 & 0x1F) * 255 / 31)  // R
			dst[di+1] = byte((px >> 5 & 0x3F) * 255 / 63) // G
			dst[di+2] = byte((px & 0x1F) * 255 / 31)      // B
			dst[di+3] = 0xFF
			di += 4
		}
	}
}

func rgb1555ToRGBA(dst, src []byte, width, height, pitch int) {
	di := 0
	for y := 0; y < height; y++ {
		row := src[y*pitch:]
		for x := 0; x < width; x++ {
			px := uint16(row[x*2]) | uint16(row[x*2+1])<<8
			dst[di] = byte((px >> 10 & 0x1F) * 255 / 31) // R
			dst[di+1] = byte((px >> 5 & 0x1F) * 255 / 31) // G
			dst[di+2] = byte((px & 0x1F) * 255 / 31)      // B
			dst[di+3] = 0xFF
			di += 4
		}
	}
}
