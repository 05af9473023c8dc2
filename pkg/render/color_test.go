package render

import (
	"image/color"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/skoehler/geomap/pkg/errors"
)

func rgba(c color.Color) (r, g, b, a uint32) {
	return c.RGBA()
}

func TestParseColor(t *testing.T) {
	t.Run("six digit", func(t *testing.T) {
		c, err := parseColor("#ff0000")
		require.NoError(t, err)
		r, g, b, _ := rgba(c)
		assert.Equal(t, uint32(0xffff), r)
		assert.Zero(t, g)
		assert.Zero(t, b)
	})

	t.Run("short form expands", func(t *testing.T) {
		short, err := parseColor("#f0a")
		require.NoError(t, err)
		long, err := parseColor("#ff00aa")
		require.NoError(t, err)

		r1, g1, b1, _ := rgba(short)
		r2, g2, b2, _ := rgba(long)
		assert.Equal(t, [3]uint32{r2, g2, b2}, [3]uint32{r1, g1, b1})
	})

	t.Run("alpha channel", func(t *testing.T) {
		c, err := parseColor("#ff000080")
		require.NoError(t, err)
		nrgba, ok := c.(color.NRGBA)
		require.True(t, ok)
		assert.Equal(t, uint8(0xff), nrgba.R)
		assert.Equal(t, uint8(0x80), nrgba.A)
	})

	t.Run("empty is transparent", func(t *testing.T) {
		c, err := parseColor("")
		require.NoError(t, err)
		_, _, _, a := rgba(c)
		assert.Zero(t, a)
	})

	t.Run("invalid", func(t *testing.T) {
		for _, hex := range []string{"red", "#gggggg", "#12345", "ff0000"} {
			_, err := parseColor(hex)
			assert.Error(t, err, "hex %q", hex)
			assert.True(t, errors.Is(err, errors.ErrCodeInvalidColors), "hex %q: %v", hex, err)
		}
	})
}
