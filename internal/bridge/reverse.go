package bridge

import (
	"sort"
	"strings"

	"github.com/priyanshagrawal/overlaybridge/pkg/models"
)

// clipRange is the [from, end) frame interval owned by one video entry
type clipRange struct {
	from int
	end  int
	src  string
}

// FromTimeline reconstructs a declarative config from an edited timeline.
// prev supplies fields that have no timeline representation (style, colors,
// animations, voiceover when no SOUND entry survives); it may be nil. The
// function never fails: unrecognized entries degrade to heuristic recovery
// and a timeline without video yields an otherwise-empty config.
func FromTimeline(overlays []models.TimelineOverlay, fps float64, prev *models.OverlayConfig) *models.OverlayConfig {
	if fps <= 0 {
		fps = DefaultFPS
	}

	cfg := &models.OverlayConfig{}
	if prev != nil {
		cfg.Style = prev.Style
		cfg.BrandColor = prev.BrandColor
		cfg.AccentColor = prev.AccentColor
		cfg.VoiceoverURL = prev.VoiceoverURL
	}

	clips := collectClipRanges(overlays)

	// Per-clip reconstruction targets: index 0 is the base clip and maps to
	// the top level of cfg, the rest become nested appended-clip configs.
	nested := make([]*models.OverlayConfig, len(clips))

	voiceoverSeen := false
	for i := range overlays {
		entry := &overlays[i]
		switch entry.Type {
		case models.OverlayTypeVideo:
			continue

		case models.OverlayTypeShape:
			if entry.Styles.Tag == models.TagEndCardBG {
				card := ensureEndCard(cfg)
				card.Duration = FramesToSeconds(entry.DurationInFrames, fps)
				card.BackgroundColor = entry.Styles.Fill
			}

		case models.OverlayTypeText:
			switch entry.Styles.Tag {
			case models.TagEndCardText:
				card := ensureEndCard(cfg)
				card.Text = entry.Content
				card.TextColor = entry.Styles.Color
				card.FontSize = entry.Styles.FontSize
			case models.TagCTA:
				recoverCTA(cfg, nested, clips, entry, fps, prev)
			default:
				// Untagged text is treated as a hook; that covers both
				// tagged hooks and text the user added by hand.
				recoverHook(cfg, nested, clips, entry, fps, prev)
			}

		case models.OverlayTypeCaption:
			recoverCaptions(cfg, nested, clips, entry, fps)

		case models.OverlayTypeImage:
			recoverGraphic(cfg, entry, fps)

		case models.OverlayTypeSound:
			if !voiceoverSeen {
				cfg.VoiceoverURL = entry.Src
				voiceoverSeen = true
			}
		}
	}

	for i := 1; i < len(clips); i++ {
		cfg.AppendedClips = append(cfg.AppendedClips, models.AppendedClip{
			URL:       clips[i].src,
			Duration:  FramesToSeconds(clips[i].end-clips[i].from, fps),
			FromFrame: clips[i].from,
			Overlays:  nested[i],
		})
	}

	return cfg
}

// collectClipRanges orders the VIDEO entries into the authoritative clip
// partition of the timeline. The first range is the base clip.
func collectClipRanges(overlays []models.TimelineOverlay) []clipRange {
	var clips []clipRange
	for i := range overlays {
		if overlays[i].Type != models.OverlayTypeVideo {
			continue
		}
		clips = append(clips, clipRange{
			from: overlays[i].From,
			end:  overlays[i].From + overlays[i].DurationInFrames,
			src:  overlays[i].Src,
		})
	}
	sort.SliceStable(clips, func(i, j int) bool {
		return clips[i].from < clips[j].from
	})
	return clips
}

// ownerClip attributes an entry to the latest clip whose start is at or
// before the entry's temporal midpoint. A midpoint landing exactly on a
// clip boundary therefore resolves to the later clip. Returns -1 when the
// timeline has no video at all.
func ownerClip(clips []clipRange, entry *models.TimelineOverlay) int {
	if len(clips) == 0 {
		return -1
	}
	mid := float64(entry.From) + float64(entry.DurationInFrames)/2
	owner := 0
	for i := range clips {
		if float64(clips[i].from) <= mid {
			owner = i
		}
	}
	return owner
}

func ensureEndCard(cfg *models.OverlayConfig) *models.EndCardOverlay {
	if cfg.EndCard == nil {
		cfg.EndCard = &models.EndCardOverlay{}
	}
	return cfg.EndCard
}

// nestedConfig returns the reconstruction target for an appended clip,
// creating it on first use
func nestedConfig(nested []*models.OverlayConfig, idx int) *models.OverlayConfig {
	if nested[idx] == nil {
		nested[idx] = &models.OverlayConfig{}
	}
	return nested[idx]
}

func recoverCTA(cfg *models.OverlayConfig, nested []*models.OverlayConfig, clips []clipRange, entry *models.TimelineOverlay, fps float64, prev *models.OverlayConfig) {
	idx := ownerClip(clips, entry)

	cta := &models.CTAOverlay{
		Text:      entry.Content,
		Animation: DefaultCTAAnimation,
		Color:     entry.Styles.Fill,
		FontSize:  entry.Styles.FontSize,
	}

	if idx <= 0 {
		// The timeline format has no animation concept; carry it over from
		// the previous config when one exists.
		if prev != nil && prev.CTA != nil && prev.CTA.Animation != "" {
			cta.Animation = prev.CTA.Animation
		}
		cta.StartTime = FramesToSeconds(entry.From, fps)
		cfg.CTA = cta
		return
	}

	if prev != nil && idx-1 < len(prev.AppendedClips) {
		if po := prev.AppendedClips[idx-1].Overlays; po != nil && po.CTA != nil && po.CTA.Animation != "" {
			cta.Animation = po.CTA.Animation
		}
	}
	cta.StartTime = FramesToSeconds(entry.From-clips[idx].from, fps)
	nestedConfig(nested, idx).CTA = cta
}

func recoverHook(cfg *models.OverlayConfig, nested []*models.OverlayConfig, clips []clipRange, entry *models.TimelineOverlay, fps float64, prev *models.OverlayConfig) {
	idx := ownerClip(clips, entry)

	lines := strings.SplitN(entry.Content, "\n", 2)
	hook := &models.HookOverlay{
		Line1:      lines[0],
		Animation:  DefaultHookAnimation,
		FontSize:   entry.Styles.FontSize,
		FontWeight: entry.Styles.FontWeight,
		Position:   NearestTextPosition(entry.Top),
	}
	if len(lines) > 1 {
		hook.Line2 = lines[1]
	}

	if idx <= 0 {
		if prev != nil && prev.Hook != nil && prev.Hook.Animation != "" {
			hook.Animation = prev.Hook.Animation
		}
		hook.StartTime = FramesToSeconds(entry.From, fps)
		hook.EndTime = FramesToSeconds(entry.From+entry.DurationInFrames, fps)
		cfg.Hook = hook
		return
	}

	if prev != nil && idx-1 < len(prev.AppendedClips) {
		if po := prev.AppendedClips[idx-1].Overlays; po != nil && po.Hook != nil && po.Hook.Animation != "" {
			hook.Animation = po.Hook.Animation
		}
	}
	hook.StartTime = FramesToSeconds(entry.From-clips[idx].from, fps)
	hook.EndTime = FramesToSeconds(entry.From+entry.DurationInFrames-clips[idx].from, fps)
	nestedConfig(nested, idx).Hook = hook
}

// recoverCaptions expands a CAPTION entry back into one declarative caption
// per cue, converting cue-relative milliseconds to clip-relative seconds.
// Cues within one entry share formatting.
func recoverCaptions(cfg *models.OverlayConfig, nested []*models.OverlayConfig, clips []clipRange, entry *models.TimelineOverlay, fps float64) {
	idx := ownerClip(clips, entry)

	base := FramesToSeconds(entry.From, fps)
	if idx > 0 {
		base = FramesToSeconds(entry.From-clips[idx].from, fps)
	}

	fontSize := entry.Styles.FontSize
	fontWeight := entry.Styles.FontWeight
	position := NearestTextPosition(entry.Top)

	for _, cue := range entry.Captions {
		caption := models.CaptionOverlay{
			Text:          cue.Text,
			StartTime:     base + float64(cue.StartMs)/1000,
			EndTime:       base + float64(cue.EndMs)/1000,
			HighlightWord: cue.HighlightWord,
			FontSize:      fontSize,
			FontWeight:    fontWeight,
			Position:      position,
		}
		if idx <= 0 {
			cfg.Captions = append(cfg.Captions, caption)
		} else {
			target := nestedConfig(nested, idx)
			target.Captions = append(target.Captions, caption)
		}
	}
}

// recoverGraphic rebuilds a graphic overlay from an IMAGE entry. The
// generic model carries no graphic category, so the type defaults to badge.
func recoverGraphic(cfg *models.OverlayConfig, entry *models.TimelineOverlay, fps float64) {
	opacity := 1.0
	if entry.Styles.Opacity != nil {
		opacity = *entry.Styles.Opacity
	}
	cfg.Graphics = append(cfg.Graphics, models.GraphicOverlay{
		Type:      models.GraphicTypeBadge,
		URL:       entry.Src,
		Position:  NearestGraphicPosition(entry.Left, entry.Top),
		StartTime: FramesToSeconds(entry.From, fps),
		EndTime:   FramesToSeconds(entry.From+entry.DurationInFrames, fps),
		Opacity:   opacity,
	})
}
