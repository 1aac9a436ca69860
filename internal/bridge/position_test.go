package bridge

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/priyanshagrawal/overlaybridge/pkg/models"
)

func TestNearestTextPosition(t *testing.T) {
	tests := []struct {
		name     string
		pixelTop int
		expected models.TextPosition
	}{
		{"exact top anchor", 200, models.TextPositionTop},
		{"exact center anchor", 760, models.TextPositionCenter},
		{"exact bottom anchor", 1320, models.TextPositionBottom},
		{"above canvas snaps to top", -50, models.TextPositionTop},
		{"below canvas snaps to bottom", 2500, models.TextPositionBottom},
		{"nudged top stays top", 380, models.TextPositionTop},
		{"nudged center stays center", 900, models.TextPositionCenter},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, NearestTextPosition(tt.pixelTop))
		})
	}
}

func TestNearestTextPositionHalfDistancePerturbation(t *testing.T) {
	// A drag of less than half the distance to the neighboring zone must
	// still recover the original bucket.
	for _, zone := range textZones {
		for _, delta := range []int{-100, 0, 100, 250} {
			got := NearestTextPosition(zone.box.top + delta)
			assert.Equal(t, zone.position, got, "position %s perturbed by %d", zone.position, delta)
		}
	}
}

func TestNearestGraphicPosition(t *testing.T) {
	tests := []struct {
		name     string
		left     int
		top      int
		expected models.GraphicPosition
	}{
		{"origin snaps to top left", 0, 0, models.GraphicPositionTopLeft},
		{"far corner snaps to bottom right", 1080, 1920, models.GraphicPositionBottomRight},
		{"canvas middle snaps to center", 420, 840, models.GraphicPositionCenter},
		{"top right quadrant", 700, 100, models.GraphicPositionTopRight},
		{"bottom left quadrant", 100, 1500, models.GraphicPositionBottomLeft},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, NearestGraphicPosition(tt.left, tt.top))
		})
	}
}

func TestNearestGraphicPositionRecoversAnchors(t *testing.T) {
	for _, a := range graphicAnchors {
		got := NearestGraphicPosition(a.anchor.left+40, a.anchor.top-40)
		assert.Equal(t, a.position, got, "anchor %s", a.position)
	}
}

func TestTextZonesDoNotOverlap(t *testing.T) {
	for i := 0; i < len(textZones)-1; i++ {
		bottom := textZones[i].box.top + textZones[i].box.height
		assert.LessOrEqual(t, bottom, textZones[i+1].box.top,
			"zone %s overlaps %s", textZones[i].position, textZones[i+1].position)
	}
}
