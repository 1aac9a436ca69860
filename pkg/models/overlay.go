package models

import (
	"database/sql/driver"
	"encoding/json"
)

// TextPosition is one of the three canonical vertical zones for text overlays
type TextPosition string

const (
	TextPositionTop    TextPosition = "top"
	TextPositionCenter TextPosition = "center"
	TextPositionBottom TextPosition = "bottom"
)

// GraphicPosition is one of the five canonical placements for graphic overlays
type GraphicPosition string

const (
	GraphicPositionTopLeft     GraphicPosition = "top_left"
	GraphicPositionTopRight    GraphicPosition = "top_right"
	GraphicPositionBottomLeft  GraphicPosition = "bottom_left"
	GraphicPositionBottomRight GraphicPosition = "bottom_right"
	GraphicPositionCenter      GraphicPosition = "center"
)

// OverlayConfig is the declarative, persisted description of a creative's
// overlays. Every field is optional; all times are in seconds relative to
// the clip the config is scoped to.
type OverlayConfig struct {
	Style         string           `json:"style,omitempty"`
	BrandColor    string           `json:"brandColor,omitempty"`
	AccentColor   string           `json:"accentColor,omitempty"`
	Hook          *HookOverlay     `json:"hook,omitempty"`
	Captions      []CaptionOverlay `json:"captions,omitempty"`
	CTA           *CTAOverlay      `json:"cta,omitempty"`
	Graphics      []GraphicOverlay `json:"graphics,omitempty"`
	EndCard       *EndCardOverlay  `json:"endCard,omitempty"`
	VoiceoverURL  string           `json:"voiceoverUrl,omitempty"`
	AppendedClips []AppendedClip   `json:"appendedClips,omitempty"`
}

// Value implements driver.Valuer for database storage
func (oc OverlayConfig) Value() (driver.Value, error) {
	return json.Marshal(oc)
}

// Scan implements sql.Scanner for database retrieval
func (oc *OverlayConfig) Scan(value interface{}) error {
	if value == nil {
		return nil
	}

	bytes, ok := value.([]byte)
	if !ok {
		return nil
	}

	return json.Unmarshal(bytes, oc)
}

// HookOverlay is the attention-grabbing text shown at video start
type HookOverlay struct {
	Line1      string       `json:"line1,omitempty"`
	Line2      string       `json:"line2,omitempty"`
	StartTime  float64      `json:"startTime"`
	EndTime    float64      `json:"endTime"`
	Animation  string       `json:"animation,omitempty"`
	FontSize   int          `json:"fontSize,omitempty"`
	FontWeight int          `json:"fontWeight,omitempty"`
	Position   TextPosition `json:"position,omitempty"`
}

// CaptionOverlay is one short timed text cue
type CaptionOverlay struct {
	Text          string       `json:"text"`
	StartTime     float64      `json:"startTime"`
	EndTime       float64      `json:"endTime"`
	HighlightWord string       `json:"highlightWord,omitempty"`
	FontSize      int          `json:"fontSize,omitempty"`
	FontWeight    int          `json:"fontWeight,omitempty"`
	Position      TextPosition `json:"position,omitempty"`
}

// CTAOverlay is the call-to-action button; it runs from StartTime to the
// end of its clip
type CTAOverlay struct {
	Text      string  `json:"text"`
	StartTime float64 `json:"startTime"`
	Animation string  `json:"animation,omitempty"`
	Color     string  `json:"color,omitempty"`
	FontSize  int     `json:"fontSize,omitempty"`
}

// GraphicOverlay is an image or badge pinned to a canonical position
type GraphicOverlay struct {
	Type      string          `json:"type,omitempty"`
	URL       string          `json:"url"`
	Position  GraphicPosition `json:"position,omitempty"`
	StartTime float64         `json:"startTime"`
	EndTime   float64         `json:"endTime"`
	Opacity   float64         `json:"opacity,omitempty"`
}

// GraphicType constants
const (
	GraphicTypeBadge = "badge"
	GraphicTypeLogo  = "logo"
)

// EndCardOverlay is a full-screen card rendered strictly after all video
// content has ended
type EndCardOverlay struct {
	Duration        float64 `json:"duration"`
	BackgroundColor string  `json:"backgroundColor,omitempty"`
	Text            string  `json:"text,omitempty"`
	TextColor       string  `json:"textColor,omitempty"`
	FontSize        int     `json:"fontSize,omitempty"`
}

// AppendedClip is a video segment continuing after the base clip. FromFrame
// is the frame offset at which it begins in the outer timeline; Overlays is
// an optional nested config scoped to the clip's own duration.
type AppendedClip struct {
	URL       string         `json:"url"`
	Duration  float64        `json:"duration"`
	FromFrame int            `json:"fromFrame"`
	Overlays  *OverlayConfig `json:"overlays,omitempty"`
}
