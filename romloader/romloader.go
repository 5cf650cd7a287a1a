// Package romloader reads game content from disk, transparently
// extracting it from compressed archives (ZIP, 7z, gzip, tar.gz, RAR).
// Archives are detected by magic bytes first, file extension second;
// the first entry matching one of the accepted ROM extensions wins.
package romloader

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
)

// Content is one loaded ROM image. Name is the basename of the file
// the bytes came from, which differs from the archive path when the
// image was extracted.
type Content struct {
	Data []byte
	Name string
}

// ErrNoEntry is returned when an archive holds no file matching the
// accepted extensions.
var ErrNoEntry = errors.New("romloader: no matching file in archive")

// ErrUnsupportedFormat is returned for files that are neither a known
// archive nor match an accepted extension.
var ErrUnsupportedFormat = errors.New("romloader: unsupported file format")

// ErrTooLarge is returned when content exceeds maxContentSize, a guard
// against decompression bombs.
var ErrTooLarge = errors.New("romloader: content exceeds size limit")

// maxContentSize bounds a single extracted image. CD-based systems
// ship images in the hundreds of megabytes; 768MB covers them with
// headroom.
const maxContentSize = 768 * 1024 * 1024

type archiveKind int

const (
	kindRaw archiveKind = iota
	kindZIP
	kind7z
	kindGzip
	kindRAR
	kindUnknown
)

var (
	magicZIP      = []byte{0x50, 0x4B, 0x03, 0x04}
	magicZIPEmpty = []byte{0x50, 0x4B, 0x05, 0x06}
	magic7z       = []byte{0x37, 0x7A, 0xBC, 0xAF, 0x27, 0x1C}
	magicGzip     = []byte{0x1F, 0x8B}
	magicRAR      = []byte{0x52, 0x61, 0x72, 0x21} // "Rar!"
)

// Read loads the content at path. extensions lists accepted ROM
// extensions with leading dots (".sms", ".gg"); an empty list accepts
// any archive entry. When blockExtract is set, archives are returned
// untouched; some cores insist on parsing their own container formats.
func Read(path string, extensions []string, blockExtract bool) (Content, error) {
	f, err := os.Open(path)
	if err != nil {
		return Content{}, fmt.Errorf("romloader: open: %w", err)
	}
	defer f.Close()

	header := make([]byte, 16)
	n, err := f.Read(header)
	if err != nil && err != io.EOF {
		return Content{}, fmt.Errorf("romloader: read header: %w", err)
	}
	kind := detectKind(header[:n], path, extensions)

	if blockExtract && kind != kindRaw {
		kind = kindRaw
	}

	switch kind {
	case kindRaw:
		if _, err := f.Seek(0, io.SeekStart); err != nil {
			return Content{}, fmt.Errorf("romloader: seek: %w", err)
		}
		data, err := readCapped(f)
		if err != nil {
			return Content{}, err
		}
		return Content{Data: data, Name: filepath.Base(path)}, nil

	case kindZIP:
		return extractZIP(path, extensions)

	case kind7z:
		return extract7z(path, extensions)

	case kindGzip:
		return extractGzip(path, extensions)

	case kindRAR:
		return extractRAR(path, extensions)

	default:
		return Content{}, fmt.Errorf("%w: %s", ErrUnsupportedFormat, path)
	}
}

// detectKind classifies a file by magic bytes, falling back to its
// extension for truncated headers, then to the accepted-extension list
// for raw images. With no extension list, anything unrecognized is
// treated as a raw image.
func detectKind(header []byte, path string, extensions []string) archiveKind {
	if bytes.HasPrefix(header, magicZIP) || bytes.HasPrefix(header, magicZIPEmpty) {
		return kindZIP
	}
	if bytes.HasPrefix(header, magicRAR) {
		return kindRAR
	}
	if bytes.HasPrefix(header, magic7z) {
		return kind7z
	}
	if bytes.HasPrefix(header, magicGzip) {
		return kindGzip
	}

	switch strings.ToLower(filepath.Ext(path)) {
	case ".zip":
		return kindZIP
	case ".7z":
		return kind7z
	case ".gz", ".tgz":
		return kindGzip
	case ".rar":
		return kindRAR
	}

	if len(extensions) == 0 || matchesExt(path, extensions) {
		return kindRaw
	}
	return kindUnknown
}

// matchesExt reports whether a filename carries one of the accepted
// dotted extensions, case-insensitively.
func matchesExt(name string, extensions []string) bool {
	ext := strings.ToLower(filepath.Ext(name))
	for _, e := range extensions {
		if ext == strings.ToLower(e) {
			return true
		}
	}
	return false
}

// acceptEntry decides whether an archive member is a loadable image.
func acceptEntry(name string, extensions []string) bool {
	if len(extensions) == 0 {
		return true
	}
	return matchesExt(name, extensions)
}

// readCapped reads everything from r, failing rather than growing past
// maxContentSize.
func readCapped(r io.Reader) ([]byte, error) {
	data, err := io.ReadAll(io.LimitReader(r, maxContentSize+1))
	if err != nil {
		return nil, fmt.Errorf("romloader: read: %w", err)
	}
	if len(data) > maxContentSize {
		return nil, ErrTooLarge
	}
	return data, nil
}
