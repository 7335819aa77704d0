package imaging

import (
	"bytes"
	"fmt"
	"image"
	"image/draw"
	"image/png"

	_ "image/gif"
	_ "image/jpeg"
)

// Transformer is the image collaborator the tileset pipeline depends on:
// report pixel dimensions and crop rectangles out of raw image bytes.
type Transformer interface {
	Dimensions(data []byte) (width, height int, err error)
	Crop(data []byte, x, y, width, height int) ([]byte, error)
}

type transformer struct{}

func NewTransformer() *transformer {
	return &transformer{}
}

func (t *transformer) Dimensions(data []byte) (int, int, error) {
	cfg, _, err := image.DecodeConfig(bytes.NewReader(data))
	if err != nil {
		return 0, 0, fmt.Errorf("decode image: %w", err)
	}
	return cfg.Width, cfg.Height, nil
}

// Crop returns the sub-rectangle re-encoded as PNG.
func (t *transformer) Crop(data []byte, x, y, width, height int) ([]byte, error) {
	src, _, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("decode image: %w", err)
	}

	rect := image.Rect(x, y, x+width, y+height)
	if !rect.In(src.Bounds()) {
		return nil, fmt.Errorf("crop rectangle %v outside image bounds %v", rect, src.Bounds())
	}

	dst := image.NewRGBA(image.Rect(0, 0, width, height))
	draw.Draw(dst, dst.Bounds(), src, rect.Min, draw.Src)

	var buf bytes.Buffer
	if err := png.Encode(&buf, dst); err != nil {
		return nil, fmt.Errorf("encode tile: %w", err)
	}
	return buf.Bytes(), nil
}
