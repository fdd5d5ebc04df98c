package validator

import (
	"bytes"
	"image"
	"image/color"
	"image/jpeg"
	"image/png"

	"golang.org/x/image/bmp"
	"golang.org/x/image/tiff"
	"golang.org/x/image/webp"

	"github.com/joseph-ayodele/ocr-service/constants"
	"github.com/joseph-ayodele/ocr-service/internal/common"
)

// validateImage covers the five recognized raster formats: a
// decoded-pixel ceiling checked from the header before any full
// decode, explicit width/height/area bounds, and a trial transform
// (downscale to a thumbnail) to confirm end-to-end decodability. Any
// failure is MALFORMED_IMAGE.
func validateImage(data []byte, mime string) error {
	cfg, _, err := image.DecodeConfig(bytes.NewReader(data))
	if err != nil {
		return common.NewAppError(common.CodeMalformedImage,
			"unable to read image metadata: "+err.Error(), common.ErrInvalidInput)
	}

	w, h := cfg.Width, cfg.Height
	if w <= 0 || h <= 0 {
		return common.NewAppError(common.CodeMalformedImage, "image has zero dimensions", common.ErrInvalidInput)
	}
	if w > constants.MaxImageDim || h > constants.MaxImageDim {
		return common.NewAppError(common.CodeMalformedImage, "image dimensions exceed the 50,000px bound", common.ErrInvalidInput)
	}
	if int64(w)*int64(h) > constants.MaxImagePixels {
		return common.NewAppError(common.CodeMalformedImage, "image exceeds the maximum decoded pixel count", common.ErrInvalidInput)
	}

	// Trial transform: decode fully and downscale to a thumbnail. Any
	// decode error here means the bytes are corrupt despite a valid
	// header, which the magic-number step alone cannot catch.
	img, err := decodeByMime(data, mime)
	if err != nil {
		return common.NewAppError(common.CodeMalformedImage, "image failed trial decode: "+err.Error(), common.ErrInvalidInput)
	}
	thumbnail(img, constants.ThumbnailSide, constants.ThumbnailSide)
	return nil
}

func decodeByMime(data []byte, mime string) (image.Image, error) {
	r := bytes.NewReader(data)
	switch mime {
	case constants.MimePNG:
		return png.Decode(r)
	case constants.MimeJPEG:
		return jpeg.Decode(r)
	case constants.MimeBMP:
		return bmp.Decode(r)
	case constants.MimeTIFF:
		return tiff.Decode(r)
	case constants.MimeWebP:
		return webp.Decode(r)
	default:
		img, _, err := image.Decode(r)
		return img, err
	}
}

// thumbnail performs a crude nearest-neighbor downscale to confirm the
// decoded image can be re-sampled without panicking; it is a
// correctness probe, not a quality transform, and its output is
// discarded.
func thumbnail(img image.Image, maxW, maxH int) *image.RGBA {
	b := img.Bounds()
	srcW, srcH := b.Dx(), b.Dy()
	if srcW == 0 || srcH == 0 {
		return image.NewRGBA(image.Rect(0, 0, 1, 1))
	}
	dst := image.NewRGBA(image.Rect(0, 0, maxW, maxH))
	for y := 0; y < maxH; y++ {
		sy := b.Min.Y + y*srcH/maxH
		for x := 0; x < maxW; x++ {
			sx := b.Min.X + x*srcW/maxW
			dst.Set(x, y, color.RGBAModel.Convert(img.At(sx, sy)))
		}
	}
	return dst
}
