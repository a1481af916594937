package preview

import (
	"bufio"
	"errors"
	"fmt"
	"image/png"
	"io"
	"os"
	"path/filepath"
	"strings"

	"golang.org/x/image/bmp"
	"golang.org/x/image/tiff"

	"github.com/gogpu/gcanvas"
)

// ErrUnknownFormat is returned for image formats the preview cannot write.
var ErrUnknownFormat = errors.New("preview: unknown image format")

// Format is an image encoding.
type Format int

// Supported formats.
const (
	PNG Format = iota
	TIFF
	BMP
)

// String returns the usual file extension of f, without the dot.
func (f Format) String() string {
	switch f {
	case TIFF:
		return "tiff"
	case BMP:
		return "bmp"
	default:
		return "png"
	}
}

// ParseFormat returns the format for a file extension, with or without
// the leading dot.
func ParseFormat(ext string) (Format, error) {
	switch strings.ToLower(strings.TrimPrefix(ext, ".")) {
	case "png":
		return PNG, nil
	case "tif", "tiff":
		return TIFF, nil
	case "bmp":
		return BMP, nil
	}
	return PNG, fmt.Errorf("%w: %q", ErrUnknownFormat, ext)
}

// Encode writes the image to w.
func (p *Preview) Encode(w io.Writer, f Format) error {
	switch f {
	case PNG:
		return png.Encode(w, p.img)
	case TIFF:
		return tiff.Encode(w, p.img, &tiff.Options{Compression: tiff.Deflate})
	case BMP:
		return bmp.Encode(w, p.img)
	}
	return fmt.Errorf("%w: %d", ErrUnknownFormat, f)
}

// Save writes the image to a file, choosing the format by extension.
func (p *Preview) Save(path string) error {
	f, err := ParseFormat(filepath.Ext(path))
	if err != nil {
		return err
	}
	file, err := os.Create(path) //nolint:gosec // path is user-provided intentionally
	if err != nil {
		return err
	}
	bw := bufio.NewWriter(file)
	if err := p.Encode(bw, f); err != nil {
		_ = file.Close()
		return err
	}
	if err := bw.Flush(); err != nil {
		_ = file.Close()
		return err
	}
	gcanvas.Logger().Info("preview: saved", "path", path, "format", f)
	return file.Close()
}
