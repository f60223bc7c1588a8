package osc

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/lumenlab/ledsignal/internal/color"
)

func TestEncodeFrame_ByteLayout(t *testing.T) {
	frame := []color.RGB{
		{R: 255},
		{G: 255},
		{B: 255},
	}
	assert.Equal(t,
		[]byte{0xFF, 0x00, 0x00, 0x00, 0xFF, 0x00, 0x00, 0x00, 0xFF},
		EncodeFrame(frame))
}

func TestEncodeFrame_Empty(t *testing.T) {
	assert.Empty(t, EncodeFrame(nil))
}

func TestEncodeFrame_LengthIsThreePerLED(t *testing.T) {
	frame := make([]color.RGB, 225)
	assert.Len(t, EncodeFrame(frame), 675)
}
