package application

import (
	"fmt"
	"image"
	"image/color"
	"path/filepath"
	"strings"

	"github.com/dfryer1193/img2html/convert/domain"
)

// MarkupRenderer defines the interface for converting a pixel grid to HTML.
type MarkupRenderer interface {
	Render(img image.Image, sourceName string) (string, error)
}

// PixelMarkupRenderer emits one 1px color block per pixel, floated left so a
// row of pixels abuts horizontally, with an explicit clearing break between
// rows. Output is fully determined by the pixel grid and the source name.
type PixelMarkupRenderer struct{}

var _ MarkupRenderer = (*PixelMarkupRenderer)(nil)

func NewMarkupRenderer() MarkupRenderer {
	return &PixelMarkupRenderer{}
}

func (r *PixelMarkupRenderer) Render(img image.Image, sourceName string) (string, error) {
	token, err := sanitizeName(sourceName)
	if err != nil {
		return "", err
	}

	bounds := img.Bounds()
	width := bounds.Dx()

	var b strings.Builder
	fmt.Fprintf(&b, "<div class=\"i2html\" id=\"i2html-%s\" style=\"width: %dpx;\">\n", token, width)

	for y := bounds.Min.Y; y < bounds.Max.Y; y++ {
		for x := bounds.Min.X; x < bounds.Max.X; x++ {
			// Straight (non-premultiplied) channels: a half-transparent red
			// pixel stays red rather than darkening toward black. Alpha
			// itself is not representable in a solid fill and is dropped.
			c := color.NRGBAModel.Convert(img.At(x, y)).(color.NRGBA)
			fmt.Fprintf(&b,
				"<span style=\"float: left; width: 1px; height: 1px; background-color: rgb(%d,%d,%d);\"></span>",
				c.R, c.G, c.B)
		}
		b.WriteString("<br style=\"clear: left;\"/>\n")
	}

	b.WriteString("</div>\n")

	return b.String(), nil
}

// sanitizeName reduces a source file name to an identifier token. The base
// name must be printable ASCII; everything outside [A-Za-z0-9_-] is stripped.
func sanitizeName(name string) (string, error) {
	base := filepath.Base(name)

	for i := 0; i < len(base); i++ {
		if base[i] < 0x20 || base[i] > 0x7e {
			return "", fmt.Errorf("%w: %q", domain.ErrSanitize, base)
		}
	}

	var b strings.Builder
	for i := 0; i < len(base); i++ {
		c := base[i]
		switch {
		case c >= 'a' && c <= 'z',
			c >= 'A' && c <= 'Z',
			c >= '0' && c <= '9',
			c == '-', c == '_':
			b.WriteByte(c)
		}
	}

	return b.String(), nil
}
