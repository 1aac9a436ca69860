package bridge

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/priyanshagrawal/overlaybridge/pkg/models"
)

func findByType(overlays []models.TimelineOverlay, t models.OverlayType) []models.TimelineOverlay {
	var out []models.TimelineOverlay
	for _, o := range overlays {
		if o.Type == t {
			out = append(out, o)
		}
	}
	return out
}

func findByTag(overlays []models.TimelineOverlay, tag string) *models.TimelineOverlay {
	for i := range overlays {
		if overlays[i].Styles.Tag == tag {
			return &overlays[i]
		}
	}
	return nil
}

func TestToTimelineEmptyConfig(t *testing.T) {
	out := ToTimeline(&models.OverlayConfig{}, SourceVideo{URL: "https://cdn.example.com/base.mp4", Duration: 10, FPS: 30})

	require.Len(t, out, 1, "an empty config still produces the base video entry")
	video := out[0]
	assert.Equal(t, models.OverlayTypeVideo, video.Type)
	assert.Equal(t, 0, video.From)
	assert.Equal(t, 300, video.DurationInFrames)
	assert.Equal(t, "https://cdn.example.com/base.mp4", video.Src)
	require.NotNil(t, video.Styles.Volume)
	assert.Equal(t, 1.0, *video.Styles.Volume)
}

func TestToTimelineNilConfig(t *testing.T) {
	out := ToTimeline(nil, SourceVideo{URL: "v.mp4", Duration: 5, FPS: 30})
	require.Len(t, out, 1)
	assert.Equal(t, models.OverlayTypeVideo, out[0].Type)
}

func TestToTimelineDefaultFPS(t *testing.T) {
	out := ToTimeline(&models.OverlayConfig{}, SourceVideo{URL: "v.mp4", Duration: 2})
	require.Len(t, out, 1)
	assert.Equal(t, 60, out[0].DurationInFrames, "fps defaults to 30")
}

func TestToTimelineHook(t *testing.T) {
	cfg := &models.OverlayConfig{
		Hook: &models.HookOverlay{
			Line1:      "Stop scrolling",
			Line2:      "Watch this",
			StartTime:  0,
			EndTime:    3,
			Animation:  "pop",
			FontSize:   72,
			FontWeight: 800,
			Position:   models.TextPositionCenter,
		},
	}

	out := ToTimeline(cfg, SourceVideo{URL: "v.mp4", Duration: 10, FPS: 30})
	hook := findByTag(out, models.TagHook)
	require.NotNil(t, hook)

	assert.Equal(t, models.OverlayTypeText, hook.Type)
	assert.Equal(t, 0, hook.From)
	assert.Equal(t, 90, hook.DurationInFrames)
	assert.Equal(t, "Stop scrolling\nWatch this", hook.Content)
	assert.Equal(t, 72, hook.Styles.FontSize)
	assert.Equal(t, 800, hook.Styles.FontWeight)
	assert.Equal(t, textZoneRect(models.TextPositionCenter).top, hook.Top)
}

func TestToTimelineHookBeyondVideoDropped(t *testing.T) {
	cfg := &models.OverlayConfig{
		Hook: &models.HookOverlay{Line1: "late", StartTime: 12, EndTime: 15},
	}

	out := ToTimeline(cfg, SourceVideo{URL: "v.mp4", Duration: 10, FPS: 30})
	assert.Nil(t, findByTag(out, models.TagHook), "out-of-range hook is dropped silently")
	assert.Len(t, out, 1, "only the base video remains")
}

func TestToTimelineCaptionAggregation(t *testing.T) {
	cfg := &models.OverlayConfig{
		AccentColor: "#FF00AA",
		Captions: []models.CaptionOverlay{
			{Text: "first cue here", StartTime: 2, EndTime: 3, FontSize: 44, FontWeight: 500, Position: models.TextPositionBottom},
			{Text: "second", StartTime: 3.5, EndTime: 4.5, HighlightWord: "second"},
			{Text: "third one", StartTime: 5, EndTime: 6},
		},
	}

	out := ToTimeline(cfg, SourceVideo{URL: "v.mp4", Duration: 10, FPS: 30})
	captions := findByType(out, models.OverlayTypeCaption)
	require.Len(t, captions, 1, "captions aggregate into a single entry")

	entry := captions[0]
	assert.Equal(t, 60, entry.From, "entry starts at the earliest cue")
	assert.Equal(t, 120, entry.DurationInFrames, "entry spans to the latest cue end")
	require.Len(t, entry.Captions, 3)

	// Cue offsets are relative to the entry's own start.
	assert.Equal(t, 0, entry.Captions[0].StartMs)
	assert.Equal(t, 1000, entry.Captions[0].EndMs)
	assert.Equal(t, 1500, entry.Captions[1].StartMs)
	assert.Equal(t, 2500, entry.Captions[1].EndMs)
	assert.Equal(t, "second", entry.Captions[1].HighlightWord)

	// Word timing is synthesized by even division.
	words := entry.Captions[0].Words
	require.Len(t, words, 3)
	assert.Equal(t, models.CaptionWord{Word: "first", StartMs: 0, EndMs: 333}, words[0])
	assert.Equal(t, models.CaptionWord{Word: "cue", StartMs: 333, EndMs: 666}, words[1])
	assert.Equal(t, models.CaptionWord{Word: "here", StartMs: 666, EndMs: 1000}, words[2], "last word absorbs the remainder")

	require.NotNil(t, entry.Styles.Highlight)
	assert.Equal(t, "#FF00AA", entry.Styles.Highlight.Color, "accent color drives the highlight style")
}

func TestToTimelineCTARunsToEnd(t *testing.T) {
	cfg := &models.OverlayConfig{
		BrandColor: "#112233",
		CTA:        &models.CTAOverlay{Text: "Shop Now", StartTime: 6, FontSize: 52},
	}

	out := ToTimeline(cfg, SourceVideo{URL: "v.mp4", Duration: 10, FPS: 30})
	cta := findByTag(out, models.TagCTA)
	require.NotNil(t, cta)

	assert.Equal(t, 180, cta.From)
	assert.Equal(t, 120, cta.DurationInFrames, "CTA runs until the end of the video")
	assert.Equal(t, "#112233", cta.Styles.Fill, "brand color fills the button when the CTA has none")
	assert.Equal(t, "Shop Now", cta.Content)
}

func TestToTimelineGraphics(t *testing.T) {
	cfg := &models.OverlayConfig{
		Graphics: []models.GraphicOverlay{
			{URL: "badge.png", Position: models.GraphicPositionTopRight, StartTime: 1, EndTime: 4, Opacity: 0.8},
			{URL: "logo.png", Position: models.GraphicPositionBottomLeft, StartTime: 2, EndTime: 5},
		},
	}

	out := ToTimeline(cfg, SourceVideo{URL: "v.mp4", Duration: 10, FPS: 30})
	images := findByType(out, models.OverlayTypeImage)
	require.Len(t, images, 2)

	anchor := graphicAnchorPoint(models.GraphicPositionTopRight)
	assert.Equal(t, anchor.left, images[0].Left)
	assert.Equal(t, anchor.top, images[0].Top)
	require.NotNil(t, images[0].Styles.Opacity)
	assert.Equal(t, 0.8, *images[0].Styles.Opacity)
	require.NotNil(t, images[1].Styles.Opacity)
	assert.Equal(t, 1.0, *images[1].Styles.Opacity, "opacity defaults to fully opaque")
	assert.Equal(t, images[0].Row, images[1].Row, "graphics share one row")
}

func TestToTimelineVoiceoverMutesBaseVideo(t *testing.T) {
	cfg := &models.OverlayConfig{VoiceoverURL: "https://cdn.example.com/vo.mp3"}

	out := ToTimeline(cfg, SourceVideo{URL: "v.mp4", Duration: 10, FPS: 30})

	sounds := findByType(out, models.OverlayTypeSound)
	require.Len(t, sounds, 1)
	assert.Equal(t, "https://cdn.example.com/vo.mp3", sounds[0].Src)
	assert.Equal(t, 300, sounds[0].DurationInFrames, "voiceover spans the whole timeline")

	videos := findByType(out, models.OverlayTypeVideo)
	require.Len(t, videos, 1)
	require.NotNil(t, videos[0].Styles.Volume)
	assert.Equal(t, 0.0, *videos[0].Styles.Volume, "base video is muted under a voiceover")
}

func TestToTimelineRowsOnlyForPresentCategories(t *testing.T) {
	cfg := &models.OverlayConfig{
		CTA: &models.CTAOverlay{Text: "Go", StartTime: 1},
	}

	out := ToTimeline(cfg, SourceVideo{URL: "v.mp4", Duration: 10, FPS: 30})
	require.Len(t, out, 2)

	cta := findByTag(out, models.TagCTA)
	videos := findByType(out, models.OverlayTypeVideo)
	require.NotNil(t, cta)
	require.Len(t, videos, 1)
	assert.Equal(t, 0, cta.Row, "absent hook and captions consume no rows")
	assert.Equal(t, 1, videos[0].Row)
}

func TestToTimelineAppendedClips(t *testing.T) {
	cfg := &models.OverlayConfig{
		AppendedClips: []models.AppendedClip{
			{
				URL:       "ext.mp4",
				Duration:  7,
				FromFrame: 240,
				Overlays: &models.OverlayConfig{
					CTA: &models.CTAOverlay{Text: "Buy", StartTime: 2},
				},
			},
		},
	}

	out := ToTimeline(cfg, SourceVideo{URL: "base.mp4", Duration: 8, FPS: 30})

	videos := findByType(out, models.OverlayTypeVideo)
	require.Len(t, videos, 2, "the nested conversion's video entry is discarded")
	assert.Equal(t, 240, videos[1].From)
	assert.Equal(t, 210, videos[1].DurationInFrames)
	assert.Equal(t, "ext.mp4", videos[1].Src)

	cta := findByTag(out, models.TagCTA)
	require.NotNil(t, cta)
	assert.Equal(t, 300, cta.From, "nested CTA is rebased by the clip offset")
	assert.Equal(t, 150, cta.DurationInFrames, "nested CTA runs to the clip's end")
}

func TestToTimelineEndCardTrailsAllClips(t *testing.T) {
	tests := []struct {
		name          string
		clips         []models.AppendedClip
		expectedStart int
	}{
		{"no appended clips", nil, 240},
		{
			"one appended clip",
			[]models.AppendedClip{{URL: "a.mp4", Duration: 7, FromFrame: 240}},
			450,
		},
		{
			"overlapping clips take the max end",
			[]models.AppendedClip{
				{URL: "a.mp4", Duration: 4, FromFrame: 200},
				{URL: "b.mp4", Duration: 2, FromFrame: 100},
			},
			320,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := &models.OverlayConfig{
				EndCard:       &models.EndCardOverlay{Duration: 2, BackgroundColor: "#000000", Text: "Shop Now"},
				AppendedClips: tt.clips,
			}

			out := ToTimeline(cfg, SourceVideo{URL: "base.mp4", Duration: 8, FPS: 30})

			bg := findByTag(out, models.TagEndCardBG)
			text := findByTag(out, models.TagEndCardText)
			require.NotNil(t, bg)
			require.NotNil(t, text)

			assert.Equal(t, tt.expectedStart, bg.From)
			assert.Equal(t, tt.expectedStart, text.From)
			assert.Equal(t, 60, bg.DurationInFrames)
			assert.Equal(t, models.OverlayTypeShape, bg.Type)
			assert.Equal(t, CanvasWidth, bg.Width)
			assert.Equal(t, CanvasHeight, bg.Height)

			for _, clip := range tt.clips {
				clipEnd := clip.FromFrame + SecondsToFrames(clip.Duration, 30)
				assert.GreaterOrEqual(t, bg.From, clipEnd, "end card must trail every clip")
			}
		})
	}
}

func TestToTimelineUniqueIDs(t *testing.T) {
	cfg := &models.OverlayConfig{
		Hook:     &models.HookOverlay{Line1: "hi", StartTime: 0, EndTime: 2},
		Captions: []models.CaptionOverlay{{Text: "a", StartTime: 1, EndTime: 2}},
		CTA:      &models.CTAOverlay{Text: "Go", StartTime: 3},
		Graphics: []models.GraphicOverlay{{URL: "g.png", StartTime: 0, EndTime: 5}},
		EndCard:  &models.EndCardOverlay{Duration: 1, Text: "Bye"},
		AppendedClips: []models.AppendedClip{
			{URL: "e.mp4", Duration: 3, FromFrame: 150, Overlays: &models.OverlayConfig{
				Hook: &models.HookOverlay{Line1: "more", StartTime: 0, EndTime: 1},
			}},
		},
	}

	out := ToTimeline(cfg, SourceVideo{URL: "v.mp4", Duration: 5, FPS: 30})
	seen := make(map[int]bool)
	for _, o := range out {
		assert.False(t, seen[o.ID], "duplicate id %d", o.ID)
		seen[o.ID] = true
	}
}
