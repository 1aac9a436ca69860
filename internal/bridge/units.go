package bridge

import "math"

// Canvas dimensions for the vertical 9:16 format the editor renders at
const (
	CanvasWidth  = 1080
	CanvasHeight = 1920
)

// DefaultFPS is used when the caller does not supply a frame rate
const DefaultFPS = 30.0

// SecondsToFrames converts a time in seconds to a frame count at the given rate
func SecondsToFrames(seconds, fps float64) int {
	return int(math.Round(seconds * fps))
}

// FramesToSeconds converts a frame count back to seconds at the given rate
func FramesToSeconds(frames int, fps float64) float64 {
	if fps <= 0 {
		return 0
	}
	return float64(frames) / fps
}

// frameWindow is a placed time range on the timeline
type frameWindow struct {
	from     int
	duration int
}

// clampTiming confines a window to [0, total). A nil result means the window
// has no visible placement and the caller must not emit an entry for it;
// this is the only degradation path in the forward direction.
func clampTiming(from, duration, total int) *frameWindow {
	if total <= 0 {
		return nil
	}
	if from < 0 {
		from = 0
	}
	if from >= total {
		return nil
	}
	if duration < 1 {
		duration = 1
	}
	if from+duration > total {
		duration = total - from
	}
	return &frameWindow{from: from, duration: duration}
}
