package application

import (
	"math"

	"github.com/dfryer1193/img2html/convert/domain"
)

// ResolveDimensions computes the target size for a conversion from the source
// size and the configured bounds. A bound of 0 means unset.
//
// With a single bound set, that dimension is forced to the bound and the other
// is left at source size — aspect ratio is intentionally NOT preserved in this
// branch. With both bounds set, the image is scaled by
// min(maxWidth/srcWidth, maxHeight/srcHeight) and fractional results are
// truncated.
func ResolveDimensions(source domain.Dimensions, maxWidth, maxHeight int) domain.Dimensions {
	switch {
	case maxWidth == 0 && maxHeight == 0:
		return source
	case maxHeight == 0:
		return domain.Dimensions{Width: maxWidth, Height: source.Height}
	case maxWidth == 0:
		return domain.Dimensions{Width: source.Width, Height: maxHeight}
	}

	ratio := math.Min(
		float64(maxWidth)/float64(source.Width),
		float64(maxHeight)/float64(source.Height),
	)

	return domain.Dimensions{
		Width:  int(float64(source.Width) * ratio),
		Height: int(float64(source.Height) * ratio),
	}
}
