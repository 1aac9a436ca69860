package bridge

import (
	"github.com/priyanshagrawal/overlaybridge/pkg/models"
)

// rect is a pixel rectangle on the canvas
type rect struct {
	left, top, width, height int
}

// point is a pixel anchor on the canvas
type point struct {
	left, top int
}

// The three text zones span the canvas width and do not overlap. Ordered
// slices keep nearest-bucket lookups deterministic.
var textZones = []struct {
	position models.TextPosition
	box      rect
}{
	{models.TextPositionTop, rect{40, 200, CanvasWidth - 80, 400}},
	{models.TextPositionCenter, rect{40, 760, CanvasWidth - 80, 400}},
	{models.TextPositionBottom, rect{40, 1320, CanvasWidth - 80, 400}},
}

// GraphicBoxSize is the fixed icon box graphics are rendered into
const GraphicBoxSize = 240

const graphicMarginX = 60
const graphicMarginY = 120

var graphicAnchors = []struct {
	position models.GraphicPosition
	anchor   point
}{
	{models.GraphicPositionTopLeft, point{graphicMarginX, graphicMarginY}},
	{models.GraphicPositionTopRight, point{CanvasWidth - graphicMarginX - GraphicBoxSize, graphicMarginY}},
	{models.GraphicPositionBottomLeft, point{graphicMarginX, CanvasHeight - graphicMarginY - GraphicBoxSize}},
	{models.GraphicPositionBottomRight, point{CanvasWidth - graphicMarginX - GraphicBoxSize, CanvasHeight - graphicMarginY - GraphicBoxSize}},
	{models.GraphicPositionCenter, point{(CanvasWidth - GraphicBoxSize) / 2, (CanvasHeight - GraphicBoxSize) / 2}},
}

// The CTA button has no configurable position; it sits in a fixed box near
// the bottom of the canvas.
var ctaBox = rect{(CanvasWidth - 700) / 2, 1640, 700, 140}

// textZoneRect returns the canvas rectangle for a text position, falling
// back to the bottom zone for unknown values.
func textZoneRect(pos models.TextPosition) rect {
	for _, z := range textZones {
		if z.position == pos {
			return z.box
		}
	}
	return textZones[len(textZones)-1].box
}

// graphicAnchorPoint returns the anchor for a graphic position, falling
// back to top-right for unknown values.
func graphicAnchorPoint(pos models.GraphicPosition) point {
	for _, a := range graphicAnchors {
		if a.position == pos {
			return a.anchor
		}
	}
	return graphicAnchors[1].anchor
}

// NearestTextPosition snaps an arbitrary vertical pixel offset, possibly the
// result of a user drag, to the closest canonical text zone.
func NearestTextPosition(pixelTop int) models.TextPosition {
	best := textZones[0].position
	bestDist := -1
	for _, z := range textZones {
		d := pixelTop - z.box.top
		if d < 0 {
			d = -d
		}
		if bestDist < 0 || d < bestDist {
			best = z.position
			bestDist = d
		}
	}
	return best
}

// NearestGraphicPosition snaps arbitrary pixel coordinates to the closest
// canonical graphic anchor by Euclidean distance.
func NearestGraphicPosition(pixelLeft, pixelTop int) models.GraphicPosition {
	best := graphicAnchors[0].position
	bestDist := -1
	for _, a := range graphicAnchors {
		dx := pixelLeft - a.anchor.left
		dy := pixelTop - a.anchor.top
		d := dx*dx + dy*dy
		if bestDist < 0 || d < bestDist {
			best = a.position
			bestDist = d
		}
	}
	return best
}
