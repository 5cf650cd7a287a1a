package romloader

import (
	"archive/tar"
	"archive/zip"
	"compress/gzip"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/bodgit/sevenzip"
	"github.com/nwaples/rardecode/v2"
)

func extractZIP(path string, extensions []string) (Content, error) {
	r, err := zip.OpenReader(path)
	if err != nil {
		return Content{}, fmt.Errorf("romloader: open zip: %w", err)
	}
	defer r.Close()

	for _, f := range r.File {
		if f.FileInfo().IsDir() || !acceptEntry(f.Name, extensions) {
			continue
		}
		rc, err := f.Open()
		if err != nil {
			return Content{}, fmt.Errorf("romloader: open %s in zip: %w", f.Name, err)
		}
		data, err := readCapped(rc)
		rc.Close()
		if err != nil {
			return Content{}, err
		}
		return Content{Data: data, Name: filepath.Base(f.Name)}, nil
	}
	return Content{}, ErrNoEntry
}

func extract7z(path string, extensions []string) (Content, error) {
	r, err := sevenzip.OpenReader(path)
	if err != nil {
		return Content{}, fmt.Errorf("romloader: open 7z: %w", err)
	}
	defer r.Close()

	for _, f := range r.File {
		if f.FileInfo().IsDir() || !acceptEntry(f.Name, extensions) {
			continue
		}
		rc, err := f.Open()
		if err != nil {
			return Content{}, fmt.Errorf("romloader: open %s in 7z: %w", f.Name, err)
		}
		data, err := readCapped(rc)
		rc.Close()
		if err != nil {
			return Content{}, err
		}
		return Content{Data: data, Name: filepath.Base(f.Name)}, nil
	}
	return Content{}, ErrNoEntry
}

func extractRAR(path string, extensions []string) (Content, error) {
	r, err := rardecode.OpenReader(path)
	if err != nil {
		return Content{}, fmt.Errorf("romloader: open rar: %w", err)
	}
	defer r.Close()

	for {
		header, err := r.Next()
		if err == io.EOF {
			break
		}
		if err != nil {
			return Content{}, fmt.Errorf("romloader: read rar entry: %w", err)
		}
		if header.IsDir || !acceptEntry(header.Name, extensions) {
			continue
		}
		data, err := readCapped(r)
		if err != nil {
			return Content{}, err
		}
		return Content{Data: data, Name: filepath.Base(header.Name)}, nil
	}
	return Content{}, ErrNoEntry
}

// extractGzip handles both plain .gz images and .tar.gz/.tgz bundles.
func extractGzip(path string, extensions []string) (Content, error) {
	f, err := os.Open(path)
	if err != nil {
		return Content{}, fmt.Errorf("romloader: open gzip: %w", err)
	}
	defer f.Close()

	gr, err := gzip.NewReader(f)
	if err != nil {
		return Content{}, fmt.Errorf("romloader: gzip reader: %w", err)
	}
	defer gr.Close()

	lower := strings.ToLower(path)
	if strings.HasSuffix(lower, ".tar.gz") || strings.HasSuffix(lower, ".tgz") {
		return extractTar(gr, extensions)
	}

	data, err := readCapped(gr)
	if err != nil {
		return Content{}, err
	}
	name := strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	return Content{Data: data, Name: name}, nil
}

func extractTar(r io.Reader, extensions []string) (Content, error) {
	tr := tar.NewReader(r)
	for {
		header, err := tr.Next()
		if err == io.EOF {
			break
		}
		if err != nil {
			return Content{}, fmt.Errorf("romloader: read tar entry: %w", err)
		}
		if header.Typeflag != tar.TypeReg || !acceptEntry(header.Name, extensions) {
			continue
		}
		data, err := readCapped(tr)
		if err != nil {
			return Content{}, err
		}
		return Content{Data: data, Name: filepath.Base(header.Name)}, nil
	}
	return Content{}, ErrNoEntry
}
