package render

import (
	"image/color"
	"strconv"

	"github.com/lucasb-eyer/go-colorful"

	"github.com/skoehler/geomap/pkg/errors"
)

// parseColor converts a hex color string (#RGB, #RRGGBB or #RRGGBBAA) to a
// color.Color. Alpha-carrying colors are handled here because go-colorful
// only understands opaque 6-digit hex.
func parseColor(hex string) (color.Color, error) {
	if err := errors.ValidateHexColor(hex); err != nil {
		return nil, err
	}
	if hex == "" {
		return color.Transparent, nil
	}

	switch len(hex) {
	case 4: // #RGB
		expanded := []byte{'#', hex[1], hex[1], hex[2], hex[2], hex[3], hex[3]}
		hex = string(expanded)
	case 9: // #RRGGBBAA
		a, err := strconv.ParseUint(hex[7:9], 16, 8)
		if err != nil {
			return nil, errors.New(errors.ErrCodeInvalidColors, "bad alpha in %q", hex)
		}
		c, err := colorful.Hex(hex[:7])
		if err != nil {
			return nil, errors.Wrap(errors.ErrCodeInvalidColors, err, "parse %q", hex)
		}
		r, g, b := c.RGB255()
		return color.NRGBA{R: r, G: g, B: b, A: uint8(a)}, nil
	}

	c, err := colorful.Hex(hex)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidColors, err, "parse %q", hex)
	}
	return c, nil
}
