package assets

import (
	"bytes"
	"fmt"
	"image"
	"image/gif"
	_ "image/jpeg"
	"image/png"
	"io"
	"strings"

	"github.com/gabriel-vasile/mimetype"
	"golang.org/x/image/draw"
	_ "golang.org/x/image/webp"
)

// decodableTypes lists the sniffed MIME types the rescale policy can decode.
var decodableTypes = map[string]bool{
	"image/jpeg": true,
	"image/png":  true,
	"image/gif":  true,
	"image/webp": true,
}

// sniff returns the detected MIME type of data without parameters.
func sniff(data []byte) string {
	mt := mimetype.Detect(data).String()
	if idx := strings.IndexByte(mt, ';'); idx >= 0 {
		mt = mt[:idx]
	}
	return mt
}

// converted is a rescaled image ready to be written.
type converted struct {
	img    image.Image
	width  int
	height int
}

// convert decodes data and scales it to width, preserving aspect ratio.
func convert(data []byte, contentType string, width int) (*converted, error) {
	if !decodableTypes[contentType] {
		return nil, fmt.Errorf("unsupported content type %s", contentType)
	}
	src, _, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("decode image: %w", err)
	}
	bounds := src.Bounds()
	if bounds.Dx() <= 0 || bounds.Dy() <= 0 {
		return nil, fmt.Errorf("image has empty bounds %v", bounds)
	}
	if width <= 0 {
		width = bounds.Dx()
	}
	height := int(float64(bounds.Dy()) * float64(width) / float64(bounds.Dx()))
	if height < 1 {
		height = 1
	}
	dst := image.NewRGBA(image.Rect(0, 0, width, height))
	draw.CatmullRom.Scale(dst, dst.Bounds(), src, bounds, draw.Over, nil)
	return &converted{img: dst, width: width, height: height}, nil
}

// encode writes img in the target format.
func encode(w io.Writer, img image.Image, format string) error {
	switch format {
	case "gif":
		return gif.Encode(w, img, &gif.Options{NumColors: 256, Drawer: draw.FloydSteinberg})
	case "png":
		return png.Encode(w, img)
	default:
		return fmt.Errorf("unsupported target format %q", format)
	}
}
