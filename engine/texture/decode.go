package texture

import (
	"bytes"
	"errors"
	"fmt"
	"image"
	_ "image/jpeg"
	_ "image/png"

	_ "golang.org/x/image/bmp"
	xdraw "golang.org/x/image/draw"
	_ "golang.org/x/image/webp"

	"github.com/Carmen-Shannon/oxy-quad/common"
)

// ErrDecode is returned when encoded bytes do not yield a usable image.
var ErrDecode = errors.New("texture: decode failed")

// Decode turns PNG, JPEG, WebP or BMP bytes into tightly packed RGBA8 rows, top row first.
// Images with a side longer than maxDimension are scaled down with bilinear filtering so the
// longer side equals maxDimension, keeping the aspect ratio. A maxDimension of 0 disables scaling.
//
// Parameters:
//   - encoded: the encoded image bytes
//   - maxDimension: the largest width or height the device accepts
//
// Returns:
//   - common.TextureStagingData: the decoded pixels
//   - error: ErrDecode for empty, unrecognized or corrupt input
func Decode(encoded []byte, maxDimension uint32) (common.TextureStagingData, error) {
	if len(encoded) == 0 {
		return common.TextureStagingData{}, fmt.Errorf("%w: empty input", ErrDecode)
	}

	src, format, err := image.Decode(bytes.NewReader(encoded))
	if err != nil {
		return common.TextureStagingData{}, fmt.Errorf("%w: %v", ErrDecode, err)
	}
	bounds := src.Bounds()
	if bounds.Empty() {
		return common.TextureStagingData{}, fmt.Errorf("%w: %s image has no pixels", ErrDecode, format)
	}

	w, h := fitWithin(bounds.Dx(), bounds.Dy(), int(maxDimension))
	dst := image.NewRGBA(image.Rect(0, 0, w, h))
	if w == bounds.Dx() && h == bounds.Dy() {
		xdraw.Draw(dst, dst.Bounds(), src, bounds.Min, xdraw.Src)
	} else {
		xdraw.ApproxBiLinear.Scale(dst, dst.Bounds(), src, bounds, xdraw.Src, nil)
	}

	return common.TextureStagingData{
		Pixels: dst.Pix,
		Width:  uint32(w),
		Height: uint32(h),
	}, nil
}

// fitWithin scales (w, h) down so neither side exceeds limit, never below 1 pixel.
func fitWithin(w, h, limit int) (int, int) {
	if limit <= 0 || (w <= limit && h <= limit) {
		return w, h
	}
	if w >= h {
		return limit, max(1, h*limit/w)
	}
	return max(1, w*limit/h), limit
}
