package ingest

import (
	"bytes"
	"context"
	"image"
	"image/jpeg"
	"io"
	"math"

	_ "image/gif"
	_ "image/png"

	"github.com/m-mizutani/goerr/v2"
	"github.com/m-mizutani/omoide/pkg/model"
	"github.com/m-mizutani/omoide/pkg/repository"
	"github.com/m-mizutani/omoide/pkg/utils/logging"
	"golang.org/x/image/draw"
)

const (
	thumbnailWidth = 200
	jpegQuality    = 80
)

// UseCase turns one captured photo into an enumerable memory
type UseCase struct {
	repo repository.Repository
}

// New creates a new ingest UseCase instance
func New(repo repository.Repository) *UseCase {
	return &UseCase{repo: repo}
}

// Ingest decodes a raw captured image, writes its full-size JPEG encoding
// and an aspect-preserving thumbnail, and returns the new memory's ID.
//
// The thumbnail is written last because its presence is what makes the
// memory enumerable; any failure after the full image is written rolls the
// image back so no partial memory is left visible.
func (u *UseCase) Ingest(ctx context.Context, r io.Reader) (model.MemoryID, error) {
	src, format, err := image.Decode(r)
	if err != nil {
		return "", goerr.Wrap(err, "failed to decode captured image")
	}

	id := model.NewMemoryID()

	full, err := encodeJPEG(src)
	if err != nil {
		return "", goerr.Wrap(err, "failed to encode full-size image", goerr.V("memory_id", id))
	}
	if err := u.repo.Write(id, model.KindImage, full); err != nil {
		return "", err
	}

	thumb, err := encodeJPEG(scaleToWidth(src, thumbnailWidth))
	if err != nil {
		_ = u.repo.Remove(id, model.KindImage)
		return "", goerr.Wrap(err, "failed to encode thumbnail", goerr.V("memory_id", id))
	}
	if err := u.repo.Write(id, model.KindThumbnail, thumb); err != nil {
		_ = u.repo.Remove(id, model.KindImage)
		return "", err
	}

	logging.From(ctx).Info("memory created",
		"memory_id", id,
		"source_format", format,
		"image_bytes", len(full),
		"thumbnail_bytes", len(thumb),
	)

	return id, nil
}

func encodeJPEG(img image.Image) ([]byte, error) {
	var buf bytes.Buffer
	if err := jpeg.Encode(&buf, img, &jpeg.Options{Quality: jpegQuality}); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// scaleToWidth scales isotropically to the target width, recomputing the
// height from the source aspect ratio
func scaleToWidth(src image.Image, width int) image.Image {
	bounds := src.Bounds()
	if bounds.Dx() == width {
		return src
	}

	height := int(math.Round(float64(bounds.Dy()) * float64(width) / float64(bounds.Dx())))
	if height < 1 {
		height = 1
	}

	dst := image.NewRGBA(image.Rect(0, 0, width, height))
	draw.CatmullRom.Scale(dst, dst.Bounds(), src, bounds, draw.Src, nil)
	return dst
}
