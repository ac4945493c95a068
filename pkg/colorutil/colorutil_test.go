package colorutil

import (
	"image/color"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestParseHex(t *testing.T) {
	tests := []struct {
		in   string
		want color.RGBA
	}{
		{"#000000", Black},
		{"#ffffff", White},
		{"#FFC107", Yellow},
		{"ffc107", Yellow},
		{"  #ff0000  ", color.RGBA{R: 255, A: 255}},
		{"#f00", color.RGBA{R: 255, A: 255}},
		{"#abc", color.RGBA{R: 0xaa, G: 0xbb, B: 0xcc, A: 255}},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseHex(tt.in)
			require.NoError(t, err)
			require.Equal(t, tt.want, got)
		})
	}
}

func TestParseHexInvalid(t *testing.T) {
	for _, in := range []string{"", "#", "#ffff", "#gggggg", "not a color"} {
		_, err := ParseHex(in)
		require.Error(t, err, "input %q", in)
	}
}

func TestParseHexOr(t *testing.T) {
	require.Equal(t, Green, ParseHexOr("#28a745", Red))
	require.Equal(t, Red, ParseHexOr("garbage", Red))
	require.Equal(t, Red, ParseHexOr("", Red))
}

func TestHexRoundTrip(t *testing.T) {
	for _, c := range []color.RGBA{Black, White, Grey, Red, Green, Yellow, Blue, Magenta} {
		got, err := ParseHex(Hex(c))
		require.NoError(t, err)
		require.Equal(t, c, got)
	}
}

func TestBlend(t *testing.T) {
	require.Equal(t, Black, Blend(Black, White, 0))
	require.Equal(t, White, Blend(Black, White, 1))
	mid := Blend(Black, White, 0.5)
	require.Equal(t, color.RGBA{R: 127, G: 127, B: 127, A: 255}, mid)

	// t is clamped to [0, 1].
	require.Equal(t, Black, Blend(Black, White, -2))
	require.Equal(t, White, Blend(Black, White, 3))
}

func TestToRGBA(t *testing.T) {
	require.Equal(t, Red, ToRGBA(Red))
	require.Equal(t, color.RGBA{R: 255, G: 255, B: 255, A: 255}, ToRGBA(color.White))
	require.Equal(t, color.RGBA{R: 0x10, G: 0x20, B: 0x30, A: 0xff},
		ToRGBA(color.NRGBA{R: 0x10, G: 0x20, B: 0x30, A: 0xff}))
}
