package bridge

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSecondsToFrames(t *testing.T) {
	tests := []struct {
		name     string
		seconds  float64
		fps      float64
		expected int
	}{
		{"whole seconds at 30fps", 8.0, 30, 240},
		{"fractional seconds round", 1.5, 30, 45},
		{"rounds to nearest frame", 0.99, 30, 30},
		{"zero", 0, 30, 0},
		{"24fps", 2.0, 24, 48},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, SecondsToFrames(tt.seconds, tt.fps))
		})
	}
}

func TestFramesToSeconds(t *testing.T) {
	assert.Equal(t, 8.0, FramesToSeconds(240, 30))
	assert.Equal(t, 1.5, FramesToSeconds(45, 30))
	assert.Equal(t, 0.0, FramesToSeconds(100, 0), "zero fps must not divide")
}

func TestClampTiming(t *testing.T) {
	tests := []struct {
		name         string
		from         int
		duration     int
		total        int
		expectNil    bool
		expectedFrom int
		expectedDur  int
	}{
		{"fits entirely", 10, 50, 100, false, 10, 50},
		{"negative start clamped to zero", -20, 50, 100, false, 0, 50},
		{"duration clipped to total", 60, 80, 100, false, 60, 40},
		{"zero duration becomes one frame", 10, 0, 100, false, 10, 1},
		{"start at total dropped", 100, 30, 100, true, 0, 0},
		{"start beyond total dropped", 250, 30, 100, true, 0, 0},
		{"zero total dropped", 0, 30, 0, true, 0, 0},
		{"last frame placement", 99, 10, 100, false, 99, 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			win := clampTiming(tt.from, tt.duration, tt.total)
			if tt.expectNil {
				assert.Nil(t, win)
				return
			}
			require.NotNil(t, win)
			assert.Equal(t, tt.expectedFrom, win.from)
			assert.Equal(t, tt.expectedDur, win.duration)
			assert.GreaterOrEqual(t, win.from, 0)
			assert.LessOrEqual(t, win.from+win.duration, tt.total)
		})
	}
}
