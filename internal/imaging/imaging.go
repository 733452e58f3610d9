// Package imaging prepares item photos for display.
package imaging

import (
	"bytes"
	"context"
	"database/sql"
	"errors"
	"fmt"
	"image"
	"image/jpeg"
	"image/png"
	"io"
	"log/slog"
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"golang.org/x/image/draw"

	"github.com/erazemk/izposoja/internal/store"
)

// MaxDimension is the maximum width or height of a stored photo.
const MaxDimension = 640

// JPEGQuality is the compression quality of stored photos.
const JPEGQuality = 85

// MaxFileSize is the largest photo file read from disk.
const MaxFileSize = 8 << 20

var allowedMIME = map[string]bool{
	"image/jpeg": true,
	"image/png":  true,
}

// photoExts maps accepted file extensions when scanning a directory.
var photoExts = map[string]bool{
	".jpg":  true,
	".jpeg": true,
	".png":  true,
}

// Photo is an encoded photo ready to serve.
type Photo struct {
	Data []byte
	MIME string
}

// Process sniffs the image format, downscales images larger than
// MaxDimension and re-encodes them as JPEG.
func Process(r io.Reader) (*Photo, error) {
	data, err := io.ReadAll(io.LimitReader(r, MaxFileSize+1))
	if err != nil {
		return nil, fmt.Errorf("reading image data: %w", err)
	}
	if len(data) > MaxFileSize {
		return nil, fmt.Errorf("image larger than %d bytes", MaxFileSize)
	}

	detected := http.DetectContentType(data)
	if !allowedMIME[detected] {
		return nil, fmt.Errorf("unsupported image format: %s (only JPEG and PNG accepted)", detected)
	}

	img, _, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("decoding image: %w", err)
	}
	img = downscale(img, MaxDimension)

	var buf bytes.Buffer
	if err := jpeg.Encode(&buf, img, &jpeg.Options{Quality: JPEGQuality}); err != nil {
		return nil, fmt.Errorf("encoding JPEG: %w", err)
	}
	return &Photo{Data: buf.Bytes(), MIME: "image/jpeg"}, nil
}

// LoadDir attaches photos from dir to items. A file named after an item ID
// with a .jpg, .jpeg or .png extension becomes that item's photo. Files for
// unknown items and unreadable images are skipped with a warning. It returns
// the number of photos stored.
func LoadDir(ctx context.Context, db *sql.DB, dir string) (int, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return 0, fmt.Errorf("reading photo directory: %w", err)
	}

	loaded := 0
	for _, e := range entries {
		ext := strings.ToLower(filepath.Ext(e.Name()))
		if e.IsDir() || !photoExts[ext] {
			continue
		}
		itemID := strings.TrimSuffix(e.Name(), filepath.Ext(e.Name()))
		path := filepath.Join(dir, e.Name())

		photo, err := processFile(path)
		if err != nil {
			slog.Warn("skipping item photo", "path", path, "error", err)
			continue
		}

		err = store.SetItemImage(ctx, db, itemID, photo.Data, photo.MIME)
		if errors.Is(err, store.ErrItemNotFound) {
			slog.Warn("skipping photo for unknown item", "path", path, "item", itemID)
			continue
		}
		if err != nil {
			return loaded, err
		}
		loaded++
	}
	return loaded, nil
}

func processFile(path string) (*Photo, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return Process(f)
}

// downscale resizes img so neither dimension exceeds maxDim, keeping the
// aspect ratio. Smaller images are returned unchanged.
func downscale(img image.Image, maxDim int) image.Image {
	bounds := img.Bounds()
	w, h := bounds.Dx(), bounds.Dy()
	if w <= maxDim && h <= maxDim {
		return img
	}

	newW, newH := maxDim, maxDim
	if w > h {
		newH = max(1, h*maxDim/w)
	} else {
		newW = max(1, w*maxDim/h)
	}

	dst := image.NewRGBA(image.Rect(0, 0, newW, newH))
	draw.CatmullRom.Scale(dst, dst.Bounds(), img, bounds, draw.Over, nil)
	return dst
}

func init() {
	image.RegisterFormat("jpeg", "\xff\xd8", jpeg.Decode, jpeg.DecodeConfig)
	image.RegisterFormat("png", "\x89PNG", png.Decode, png.DecodeConfig)
}
