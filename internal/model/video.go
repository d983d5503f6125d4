package model

import (
	"fmt"
	"strings"
)

// VideoInfo holds the metadata returned by the info endpoint
type VideoInfo struct {
	Title           string
	Uploader        string
	DurationSeconds int // never negative
	ThumbnailURL    string
}

// FormatDuration renders seconds as M:SS. Minutes are not wrapped into hours,
// so 3725 seconds is "62:05".
func FormatDuration(seconds int) string {
	if seconds < 0 {
		seconds = 0
	}
	return fmt.Sprintf("%d:%02d", seconds/60, seconds%60)
}

// GetDurationString returns the duration formatted for display
func (v *VideoInfo) GetDurationString() string {
	return FormatDuration(v.DurationSeconds)
}

// GetDisplayTitle returns the title with control characters flattened to spaces,
// or the uploader when the server sent no title
func (v *VideoInfo) GetDisplayTitle() string {
	title := strings.TrimSpace(strings.Map(func(r rune) rune {
		if r == '\n' || r == '\r' || r == '\t' {
			return ' '
		}
		return r
	}, v.Title))
	if title != "" {
		return title
	}
	return v.Uploader
}
