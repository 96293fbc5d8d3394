package codec

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEncodeDecodeRoundTrip(t *testing.T) {
	prns := []string{
		"1",
		"0042",         // leading zeros must survive
		"PRN-2024/117", // punctuation
		"aBcD123",      // mixed case
		"A_B.C",
	}
	for _, prn := range prns {
		t.Run(prn, func(t *testing.T) {
			payload, err := Encode(prn)
			require.NoError(t, err)

			got, err := Decode(payload)
			require.NoError(t, err)
			assert.Equal(t, prn, got)
		})
	}
}

func TestEncodeDeterministic(t *testing.T) {
	a, err := Encode("PRN-9")
	require.NoError(t, err)
	b, err := Encode("PRN-9")
	require.NoError(t, err)
	assert.Equal(t, a, b)
}

func TestEncodeTrimsSurroundingWhitespace(t *testing.T) {
	payload, err := Encode("  0042  ")
	require.NoError(t, err)
	assert.Equal(t, "0042", payload)
}

func TestEncodeRejectsBlankAndNonPrintable(t *testing.T) {
	_, err := Encode("   ")
	assert.ErrorIs(t, err, ErrEmptyPRN)

	_, err = Encode("ab\x00cd")
	assert.ErrorIs(t, err, ErrUnencodable)
}

func TestDecodeStripsScannerNoise(t *testing.T) {
	got, err := Decode("0042\n")
	require.NoError(t, err)
	assert.Equal(t, "0042", got)

	_, err = Decode(" \n ")
	assert.ErrorIs(t, err, ErrEmptyPRN)
}

func TestRenderPNG(t *testing.T) {
	png, err := RenderPNG("PRN-2024/117", 128)
	require.NoError(t, err)
	require.NotEmpty(t, png)
	// PNG magic header
	assert.Equal(t, []byte{0x89, 'P', 'N', 'G'}, png[:4])
}
