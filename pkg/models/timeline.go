package models

// OverlayType identifies the kind of a timeline entry
type OverlayType string

const (
	OverlayTypeVideo   OverlayType = "VIDEO"
	OverlayTypeText    OverlayType = "TEXT"
	OverlayTypeCaption OverlayType = "CAPTION"
	OverlayTypeImage   OverlayType = "IMAGE"
	OverlayTypeSound   OverlayType = "SOUND"
	OverlayTypeShape   OverlayType = "SHAPE"
)

// Identity tags embedded in the style bag so the declarative category of an
// entry survives a round trip through the editor. Untagged TEXT entries are
// treated as hooks on the way back.
const (
	TagHook        = "hook"
	TagCTA         = "cta"
	TagEndCardBG   = "end-card-background"
	TagEndCardText = "end-card-text"
)

// TimelineOverlay is one entry in the flat, row/frame/pixel-addressed list
// the editor and renderer consume. Row is purely for vertical stacking in
// the editor and carries no semantics.
type TimelineOverlay struct {
	ID               int               `json:"id"`
	Type             OverlayType       `json:"type"`
	From             int               `json:"from"`
	DurationInFrames int               `json:"durationInFrames"`
	Left             int               `json:"left"`
	Top              int               `json:"top"`
	Width            int               `json:"width"`
	Height           int               `json:"height"`
	Row              int               `json:"row"`
	Rotation         float64           `json:"rotation"`
	Src              string            `json:"src,omitempty"`
	Content          string            `json:"content,omitempty"`
	Styles           OverlayStyles     `json:"styles"`
	Captions         []TimelineCaption `json:"captions,omitempty"`
}

// OverlayStyles is the type-specific style bag of a timeline entry
type OverlayStyles struct {
	FontFamily string          `json:"fontFamily,omitempty"`
	FontSize   int             `json:"fontSize,omitempty"`
	FontWeight int             `json:"fontWeight,omitempty"`
	Color      string          `json:"color,omitempty"`
	Fill       string          `json:"fill,omitempty"`
	TextAlign  string          `json:"textAlign,omitempty"`
	Opacity    *float64        `json:"opacity,omitempty"`
	Volume     *float64        `json:"volume,omitempty"`
	Highlight  *HighlightStyle `json:"highlight,omitempty"`
	Tag        string          `json:"tag,omitempty"`
}

// HighlightStyle controls how a caption's highlighted word is rendered
type HighlightStyle struct {
	Color      string `json:"color"`
	FontWeight int    `json:"fontWeight,omitempty"`
}

// TimelineCaption is a timed text cue inside a CAPTION entry. Offsets are
// milliseconds relative to the owning entry's own start.
type TimelineCaption struct {
	Text          string        `json:"text"`
	StartMs       int           `json:"startMs"`
	EndMs         int           `json:"endMs"`
	HighlightWord string        `json:"highlightWord,omitempty"`
	Words         []CaptionWord `json:"words,omitempty"`
}

// CaptionWord carries word-level timing within a cue
type CaptionWord struct {
	Word    string `json:"word"`
	StartMs int    `json:"startMs"`
	EndMs   int    `json:"endMs"`
}
