package bridge

import (
	"strings"

	"github.com/priyanshagrawal/overlaybridge/pkg/models"
)

// SourceVideo identifies the base clip a config is flattened against
type SourceVideo struct {
	URL      string
	Duration float64 // seconds
	FPS      float64
}

// Format defaults applied when a declarative field does not specify a value
const (
	DefaultFontFamily        = "Inter"
	DefaultHookFontSize      = 64
	DefaultHookFontWeight    = 700
	DefaultHookAnimation     = "fade"
	DefaultCaptionFontSize   = 48
	DefaultCaptionFontWeight = 600
	DefaultCTAFontSize       = 52
	DefaultCTAAnimation      = "slide-up"
	DefaultCTAColor          = "#2563EB"
	DefaultEndCardFontSize   = 72
	DefaultTextColor         = "#FFFFFF"
	DefaultEndCardBackground = "#000000"
	DefaultHighlightColor    = "#FFD700"
)

// Row categories in their fixed stacking order. A category only consumes a
// row when the config actually has it, so the editor never shows empty rows.
const (
	categoryHook      = "hook"
	categoryCaptions  = "captions"
	categoryCTA       = "cta"
	categoryGraphics  = "graphics"
	categoryVoiceover = "voiceover"
	categoryVideo     = "video"
	categoryEndCard   = "end-card"
)

// rowAllocator hands out row indices lazily in first-use order
type rowAllocator struct {
	next int
	rows map[string]int
}

func newRowAllocator() *rowAllocator {
	return &rowAllocator{rows: make(map[string]int)}
}

func (r *rowAllocator) row(category string) int {
	if row, ok := r.rows[category]; ok {
		return row
	}
	row := r.next
	r.rows[category] = row
	r.next++
	return row
}

// idGen issues entry ids unique within a single conversion. State is local
// to the call so conversions never contend across goroutines.
type idGen struct {
	next int
}

func (g *idGen) id() int {
	g.next++
	return g.next
}

// ToTimeline flattens a declarative config into the editor's timeline
// representation. Entries whose time window falls entirely outside the
// video are dropped silently; the function never fails.
func ToTimeline(cfg *models.OverlayConfig, src SourceVideo) []models.TimelineOverlay {
	fps := src.FPS
	if fps <= 0 {
		fps = DefaultFPS
	}
	ids := &idGen{}
	return buildTimeline(cfg, src.URL, src.Duration, fps, ids)
}

// buildTimeline converts one config scoped to one clip. Appended clips
// recurse through it with the clip's own duration; the shared id generator
// keeps ids unique across the whole call.
func buildTimeline(cfg *models.OverlayConfig, videoURL string, duration, fps float64, ids *idGen) []models.TimelineOverlay {
	if cfg == nil {
		cfg = &models.OverlayConfig{}
	}

	total := SecondsToFrames(duration, fps)
	rows := newRowAllocator()
	var out []models.TimelineOverlay

	if cfg.Hook != nil {
		if entry := hookEntry(cfg.Hook, total, fps, rows.row(categoryHook), ids); entry != nil {
			out = append(out, *entry)
		}
	}

	if len(cfg.Captions) > 0 {
		if entry := captionEntry(cfg.Captions, cfg.AccentColor, total, fps, rows.row(categoryCaptions), ids); entry != nil {
			out = append(out, *entry)
		}
	}

	if cfg.CTA != nil {
		if entry := ctaEntry(cfg.CTA, cfg.BrandColor, total, fps, rows.row(categoryCTA), ids); entry != nil {
			out = append(out, *entry)
		}
	}

	for i := range cfg.Graphics {
		if entry := graphicEntry(&cfg.Graphics[i], total, fps, rows.row(categoryGraphics), ids); entry != nil {
			out = append(out, *entry)
		}
	}

	if cfg.VoiceoverURL != "" {
		volume := 1.0
		out = append(out, models.TimelineOverlay{
			ID:               ids.id(),
			Type:             models.OverlayTypeSound,
			From:             0,
			DurationInFrames: total,
			Row:              rows.row(categoryVoiceover),
			Src:              cfg.VoiceoverURL,
			Styles:           models.OverlayStyles{Volume: &volume},
		})
	}

	// Base clip. Its own audio is muted when a voiceover spans the timeline.
	videoVolume := 1.0
	if cfg.VoiceoverURL != "" {
		videoVolume = 0
	}
	out = append(out, models.TimelineOverlay{
		ID:               ids.id(),
		Type:             models.OverlayTypeVideo,
		From:             0,
		DurationInFrames: total,
		Width:            CanvasWidth,
		Height:           CanvasHeight,
		Row:              rows.row(categoryVideo),
		Src:              videoURL,
		Styles:           models.OverlayStyles{Volume: &videoVolume},
	})

	for _, clip := range cfg.AppendedClips {
		clipFrames := SecondsToFrames(clip.Duration, fps)
		if clipFrames <= 0 {
			continue
		}
		clipVolume := 1.0
		out = append(out, models.TimelineOverlay{
			ID:               ids.id(),
			Type:             models.OverlayTypeVideo,
			From:             clip.FromFrame,
			DurationInFrames: clipFrames,
			Width:            CanvasWidth,
			Height:           CanvasHeight,
			Row:              rows.row(categoryVideo),
			Src:              clip.URL,
			Styles:           models.OverlayStyles{Volume: &clipVolume},
		})

		if clip.Overlays == nil {
			continue
		}
		nested := buildTimeline(clip.Overlays, clip.URL, clip.Duration, fps, ids)
		for i := range nested {
			// The clip's own VIDEO entry was emitted above.
			if nested[i].Type == models.OverlayTypeVideo && nested[i].From == 0 {
				continue
			}
			nested[i].From += clip.FromFrame
			out = append(out, nested[i])
		}
	}

	if cfg.EndCard != nil {
		out = append(out, endCardEntries(cfg.EndCard, cfg.AppendedClips, total, fps, rows, ids)...)
	}

	return out
}

func hookEntry(hook *models.HookOverlay, total int, fps float64, row int, ids *idGen) *models.TimelineOverlay {
	win := clampTiming(
		SecondsToFrames(hook.StartTime, fps),
		SecondsToFrames(hook.EndTime-hook.StartTime, fps),
		total,
	)
	if win == nil {
		return nil
	}

	pos := hook.Position
	if pos == "" {
		pos = models.TextPositionTop
	}
	box := textZoneRect(pos)

	content := hook.Line1
	if hook.Line2 != "" {
		content += "\n" + hook.Line2
	}

	fontSize := hook.FontSize
	if fontSize == 0 {
		fontSize = DefaultHookFontSize
	}
	fontWeight := hook.FontWeight
	if fontWeight == 0 {
		fontWeight = DefaultHookFontWeight
	}

	return &models.TimelineOverlay{
		ID:               ids.id(),
		Type:             models.OverlayTypeText,
		From:             win.from,
		DurationInFrames: win.duration,
		Left:             box.left,
		Top:              box.top,
		Width:            box.width,
		Height:           box.height,
		Row:              row,
		Content:          content,
		Styles: models.OverlayStyles{
			FontFamily: DefaultFontFamily,
			FontSize:   fontSize,
			FontWeight: fontWeight,
			Color:      DefaultTextColor,
			TextAlign:  "center",
			Tag:        models.TagHook,
		},
	}
}

// captionEntry aggregates all captions into a single CAPTION entry spanning
// the earliest cue start to the latest cue end. Cue offsets are stored
// relative to the entry's own start; word timing is synthesized by evenly
// dividing each cue across its words.
func captionEntry(captions []models.CaptionOverlay, accentColor string, total int, fps float64, row int, ids *idGen) *models.TimelineOverlay {
	start := captions[0].StartTime
	end := captions[0].EndTime
	for _, c := range captions[1:] {
		if c.StartTime < start {
			start = c.StartTime
		}
		if c.EndTime > end {
			end = c.EndTime
		}
	}

	win := clampTiming(SecondsToFrames(start, fps), SecondsToFrames(end-start, fps), total)
	if win == nil {
		return nil
	}

	entryStartMs := int(FramesToSeconds(win.from, fps) * 1000)
	cues := make([]models.TimelineCaption, 0, len(captions))
	for _, c := range captions {
		startMs := int(c.StartTime*1000) - entryStartMs
		endMs := int(c.EndTime*1000) - entryStartMs
		if startMs < 0 {
			startMs = 0
		}
		if endMs < startMs {
			endMs = startMs
		}
		cues = append(cues, models.TimelineCaption{
			Text:          c.Text,
			StartMs:       startMs,
			EndMs:         endMs,
			HighlightWord: c.HighlightWord,
			Words:         splitWordTimings(c.Text, startMs, endMs),
		})
	}

	first := captions[0]
	pos := first.Position
	if pos == "" {
		pos = models.TextPositionBottom
	}
	box := textZoneRect(pos)

	fontSize := first.FontSize
	if fontSize == 0 {
		fontSize = DefaultCaptionFontSize
	}
	fontWeight := first.FontWeight
	if fontWeight == 0 {
		fontWeight = DefaultCaptionFontWeight
	}
	highlightColor := accentColor
	if highlightColor == "" {
		highlightColor = DefaultHighlightColor
	}

	return &models.TimelineOverlay{
		ID:               ids.id(),
		Type:             models.OverlayTypeCaption,
		From:             win.from,
		DurationInFrames: win.duration,
		Left:             box.left,
		Top:              box.top,
		Width:            box.width,
		Height:           box.height,
		Row:              row,
		Styles: models.OverlayStyles{
			FontFamily: DefaultFontFamily,
			FontSize:   fontSize,
			FontWeight: fontWeight,
			Color:      DefaultTextColor,
			TextAlign:  "center",
			Highlight:  &models.HighlightStyle{Color: highlightColor, FontWeight: 800},
		},
		Captions: cues,
	}
}

// splitWordTimings divides a cue's duration evenly across its words
func splitWordTimings(text string, startMs, endMs int) []models.CaptionWord {
	words := strings.Fields(text)
	if len(words) == 0 {
		return nil
	}
	per := (endMs - startMs) / len(words)
	out := make([]models.CaptionWord, len(words))
	for i, w := range words {
		ws := startMs + i*per
		we := ws + per
		if i == len(words)-1 {
			we = endMs
		}
		out[i] = models.CaptionWord{Word: w, StartMs: ws, EndMs: we}
	}
	return out
}

func ctaEntry(cta *models.CTAOverlay, brandColor string, total int, fps float64, row int, ids *idGen) *models.TimelineOverlay {
	from := SecondsToFrames(cta.StartTime, fps)
	// CTAs run from their start time to the end of the clip.
	win := clampTiming(from, total-from, total)
	if win == nil {
		return nil
	}

	fontSize := cta.FontSize
	if fontSize == 0 {
		fontSize = DefaultCTAFontSize
	}
	fill := cta.Color
	if fill == "" {
		fill = brandColor
	}
	if fill == "" {
		fill = DefaultCTAColor
	}

	return &models.TimelineOverlay{
		ID:               ids.id(),
		Type:             models.OverlayTypeText,
		From:             win.from,
		DurationInFrames: win.duration,
		Left:             ctaBox.left,
		Top:              ctaBox.top,
		Width:            ctaBox.width,
		Height:           ctaBox.height,
		Row:              row,
		Content:          cta.Text,
		Styles: models.OverlayStyles{
			FontFamily: DefaultFontFamily,
			FontSize:   fontSize,
			FontWeight: 700,
			Color:      DefaultTextColor,
			Fill:       fill,
			TextAlign:  "center",
			Tag:        models.TagCTA,
		},
	}
}

func graphicEntry(g *models.GraphicOverlay, total int, fps float64, row int, ids *idGen) *models.TimelineOverlay {
	win := clampTiming(
		SecondsToFrames(g.StartTime, fps),
		SecondsToFrames(g.EndTime-g.StartTime, fps),
		total,
	)
	if win == nil {
		return nil
	}

	anchor := graphicAnchorPoint(g.Position)
	opacity := g.Opacity
	if opacity == 0 {
		opacity = 1.0
	}

	return &models.TimelineOverlay{
		ID:               ids.id(),
		Type:             models.OverlayTypeImage,
		From:             win.from,
		DurationInFrames: win.duration,
		Left:             anchor.left,
		Top:              anchor.top,
		Width:            GraphicBoxSize,
		Height:           GraphicBoxSize,
		Row:              row,
		Src:              g.URL,
		Styles:           models.OverlayStyles{Opacity: &opacity},
	}
}

// endCardEntries schedules the end card after the last frame of the
// longest-running clip, so it always trails the true end of visible video
// content no matter how clips were appended.
func endCardEntries(card *models.EndCardOverlay, clips []models.AppendedClip, total int, fps float64, rows *rowAllocator, ids *idGen) []models.TimelineOverlay {
	allClipsEnd := total
	for _, clip := range clips {
		if end := clip.FromFrame + SecondsToFrames(clip.Duration, fps); end > allClipsEnd {
			allClipsEnd = end
		}
	}

	durFrames := SecondsToFrames(card.Duration, fps)
	if durFrames < 1 {
		durFrames = 1
	}

	background := card.BackgroundColor
	if background == "" {
		background = DefaultEndCardBackground
	}

	row := rows.row(categoryEndCard)
	out := []models.TimelineOverlay{{
		ID:               ids.id(),
		Type:             models.OverlayTypeShape,
		From:             allClipsEnd,
		DurationInFrames: durFrames,
		Width:            CanvasWidth,
		Height:           CanvasHeight,
		Row:              row,
		Styles: models.OverlayStyles{
			Fill: background,
			Tag:  models.TagEndCardBG,
		},
	}}

	if card.Text != "" {
		fontSize := card.FontSize
		if fontSize == 0 {
			fontSize = DefaultEndCardFontSize
		}
		textColor := card.TextColor
		if textColor == "" {
			textColor = DefaultTextColor
		}
		box := textZoneRect(models.TextPositionCenter)
		out = append(out, models.TimelineOverlay{
			ID:               ids.id(),
			Type:             models.OverlayTypeText,
			From:             allClipsEnd,
			DurationInFrames: durFrames,
			Left:             box.left,
			Top:              box.top,
			Width:            box.width,
			Height:           box.height,
			Row:              row,
			Content:          card.Text,
			Styles: models.OverlayStyles{
				FontFamily: DefaultFontFamily,
				FontSize:   fontSize,
				FontWeight: 700,
				Color:      textColor,
				TextAlign:  "center",
				Tag:        models.TagEndCardText,
			},
		})
	}

	return out
}
