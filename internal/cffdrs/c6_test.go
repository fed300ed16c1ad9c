package cffdrs

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var c6Reference = C6Inputs{ISI: 15, Buildup: ApplyBUI(80), FMC: 100, SFC: 3, CBH: 7}

func TestC6_Outputs(t *testing.T) {
	tests := []struct {
		output   C6Output
		expected float64
	}{
		{C6CrownRateOfSpread, 29.922052116993783},
		{C6SurfaceRateOfSpread, 10.660442043526812},
		{C6CrownFractionBurned, 0.8088457146503341},
		{C6RateOfSpread, 26.240112808716276},
	}

	for _, tt := range tests {
		t.Run(tt.output.String(), func(t *testing.T) {
			r, err := C6Calc(C6, c6Reference, tt.output)
			require.NoError(t, err)
			assert.Equal(t, tt.output, r.Output)
			assert.InDelta(t, tt.expected, r.Value, tolerance)
		})
	}
}

func TestC6_CrownRateIgnoresSurfaceInputs(t *testing.T) {
	in := c6Reference
	in.SFC = 0
	in.CBH = 0

	r, err := C6Calc(C6, in, C6CrownRateOfSpread)
	require.NoError(t, err)
	assert.InDelta(t, 29.922052116993783, r.Value, tolerance)
}

func TestC6_HighCrownBaseStaysOnSurface(t *testing.T) {
	in := c6Reference
	in.CBH = 30

	s, err := C6Behaviour(C6, in)
	require.NoError(t, err)

	assert.Zero(t, s.CFB)
	assert.Equal(t, s.RSS, s.ROS)
	assert.Greater(t, s.RSO, s.RSS)
}

func TestC6Behaviour(t *testing.T) {
	s, err := C6Behaviour(C6, c6Reference)
	require.NoError(t, err)

	assert.InDelta(t, 29.922052116993783, s.RSC, tolerance)
	assert.InDelta(t, 10.660442043526812, s.RSS, tolerance)
	assert.InDelta(t, 3119.584968389225, s.CSI, 1e-6)
	assert.InDelta(t, 3.4662055204324727, s.RSO, tolerance)
	assert.InDelta(t, 0.8088457146503341, s.CFB, tolerance)
	assert.InDelta(t, s.RSS+s.CFB*(s.RSC-s.RSS), s.ROS, tolerance)
}

func TestC6_SkipBuildup(t *testing.T) {
	in := c6Reference
	in.Buildup = SkipBuildup

	r, err := C6Calc(C6, in, C6SurfaceRateOfSpread)
	require.NoError(t, err)
	assert.InDelta(t, 30*math.Pow(1-math.Exp(-0.08*15), 3), r.Value, tolerance)
}

func TestC6_Errors(t *testing.T) {
	t.Run("unknown output", func(t *testing.T) {
		_, err := C6Calc(C6, c6Reference, C6Output(9))
		require.Error(t, err)
		assert.Contains(t, err.Error(), "C6Output(9)")
	})

	t.Run("unsupported fuel type", func(t *testing.T) {
		for _, o := range []C6Output{C6CrownRateOfSpread, C6SurfaceRateOfSpread, C6RateOfSpread} {
			r, err := C6Calc(FuelType(0), c6Reference, o)
			assert.ErrorIs(t, err, ErrUnsupportedFuelType, o.String())
			assert.Zero(t, r)
		}
	})
}
