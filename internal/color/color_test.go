package color

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParse(t *testing.T) {
	testCases := []struct {
		name      string
		input     string
		expected  Color
		expectErr bool
	}{
		{name: "named black", input: "black", expected: Color{A: 1}},
		{name: "named white, mixed case", input: "White", expected: Color{R: 1, G: 1, B: 1, A: 1}},
		{name: "transparent", input: "transparent", expected: Color{}},
		{name: "short hex", input: "#fff", expected: Color{R: 1, G: 1, B: 1, A: 1}},
		{name: "long hex", input: "#ff0000", expected: Color{R: 1, A: 1}},
		{name: "hex with alpha", input: "#00000000", expected: Color{}},
		{name: "functional rgb", input: "rgb(0.0,0.0,0.0)", expected: Color{A: 1}},
		{name: "functional rgba", input: "rgba(1, 0.5, 0, 0.25)", expected: Color{R: 1, G: 0.5, A: 0.25}},
		{name: "unknown name", input: "blurple", expectErr: true},
		{name: "empty", input: "  ", expectErr: true},
		{name: "too few components", input: "rgb(1, 0)", expectErr: true},
		{name: "component out of range", input: "rgb(2, 0, 0)", expectErr: true},
		{name: "unterminated", input: "rgb(1, 0, 0", expectErr: true},
		{name: "bad hex", input: "#zzzzzz", expectErr: true},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			c, err := Parse(tc.input)
			if tc.expectErr {
				require.ErrorIs(t, err, ErrInvalidColor)
				return
			}
			require.NoError(t, err)
			assert.InDelta(t, tc.expected.R, c.R, 1e-9)
			assert.InDelta(t, tc.expected.G, c.G, 1e-9)
			assert.InDelta(t, tc.expected.B, c.B, 1e-9)
			assert.InDelta(t, tc.expected.A, c.A, 1e-9)
		})
	}
}

func TestColor_StringIsParseable(t *testing.T) {
	c := Color{R: 0.25, G: 0.5, B: 0.75, A: 1}

	assert.Equal(t, "rgba(0.2500, 0.5000, 0.7500, 1.0000)", c.String())

	back, err := Parse(c.String())
	require.NoError(t, err)
	assert.Equal(t, c, back)
}

func TestColor_Hex(t *testing.T) {
	assert.Equal(t, "#000000", Color{A: 1}.Hex())
	assert.Equal(t, "#ff8000", Color{R: 1, G: 0.5, A: 0.25}.Hex(), "alpha is dropped")
}
