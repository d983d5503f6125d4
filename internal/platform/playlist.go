package platform

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/ytget/ytdlp/v2"

	"github.com/ytget/yt-web-client/internal/model"
)

// Timeout constants
const (
	DefaultExpandTimeout = 60 * time.Second
)

// URL parameters and separators
const (
	PlaylistParam  = "list="
	ParamSeparator = "&"
)

// Default values
const (
	DefaultPlaylistName = "Unknown Playlist"
)

// URL templates
const (
	YouTubeVideoURLTemplate = "https://www.youtube.com/watch?v=%s"
)

// Playlist title constants
const (
	MinPrefixLength = 10
	PlaylistSuffix  = " Playlist"
)

// ErrNoPlaylistID is returned for URLs without a usable list parameter
var ErrNoPlaylistID = errors.New("no playlist id in url")

// PlaylistItem is one video listed by a playlist source
type PlaylistItem struct {
	VideoID string
	Title   string
}

// PlaylistSource lists the videos of a playlist
type PlaylistSource func(ctx context.Context, playlistID string) ([]PlaylistItem, error)

// PlaylistExpander turns a playlist URL into a batch of single-video URLs
type PlaylistExpander struct {
	timeout time.Duration
	source  PlaylistSource
}

// NewPlaylistExpander creates an expander backed by yt-dlp
func NewPlaylistExpander() *PlaylistExpander {
	return &PlaylistExpander{
		timeout: DefaultExpandTimeout,
		source:  ytdlpSource,
	}
}

// SetTimeout sets the timeout for one expansion
func (p *PlaylistExpander) SetTimeout(timeout time.Duration) {
	p.timeout = timeout
}

// SetSource replaces the playlist source
func (p *PlaylistExpander) SetSource(source PlaylistSource) {
	p.source = source
}

func ytdlpSource(ctx context.Context, playlistID string) ([]PlaylistItem, error) {
	items, err := ytdlp.New().GetPlaylistItemsAll(ctx, playlistID, 0)
	if err != nil {
		return nil, err
	}
	out := make([]PlaylistItem, 0, len(items))
	for _, it := range items {
		out = append(out, PlaylistItem{VideoID: it.VideoID, Title: it.Title})
	}
	return out, nil
}

// Expand lists the videos of the playlist in rawURL. Items without a video id are skipped.
func (p *PlaylistExpander) Expand(ctx context.Context, rawURL string) (*model.Batch, error) {
	playlistID, err := ExtractPlaylistID(rawURL)
	if err != nil {
		return nil, err
	}

	ctx, cancel := context.WithTimeout(ctx, p.timeout)
	defer cancel()

	items, err := p.source(ctx, playlistID)
	if err != nil {
		return nil, fmt.Errorf("get playlist items: %w", err)
	}

	batch := model.NewBatch(rawURL)
	batch.PlaylistID = playlistID
	for _, it := range items {
		if it.VideoID == "" {
			continue
		}
		batch.AddEntry(&model.BatchEntry{
			VideoID: it.VideoID,
			Title:   it.Title,
			URL:     fmt.Sprintf(YouTubeVideoURLTemplate, it.VideoID),
		})
	}
	batch.Title = playlistTitle(batch.Entries)
	batch.SetStatus(model.BatchStatusReady)
	return batch, nil
}

// IsPlaylistURL reports whether rawURL carries a playlist id
func IsPlaylistURL(rawURL string) bool {
	_, err := ExtractPlaylistID(rawURL)
	return err == nil
}

// ExtractPlaylistID returns the first list parameter of rawURL
func ExtractPlaylistID(rawURL string) (string, error) {
	if u, err := url.Parse(rawURL); err == nil {
		if id := u.Query().Get("list"); id != "" {
			return id, nil
		}
	}

	// not a parseable URL: fall back to scanning for list=
	if i := strings.Index(rawURL, PlaylistParam); i >= 0 {
		id := rawURL[i+len(PlaylistParam):]
		if j := strings.Index(id, ParamSeparator); j >= 0 {
			id = id[:j]
		}
		if id != "" {
			return id, nil
		}
	}
	return "", fmt.Errorf("%w: %s", ErrNoPlaylistID, rawURL)
}

// playlistTitle derives a title from the common prefix of the first two video titles
func playlistTitle(entries []*model.BatchEntry) string {
	if len(entries) == 0 {
		return DefaultPlaylistName
	}
	if len(entries) > 1 {
		commonPrefix := findCommonPrefix(entries[0].Title, entries[1].Title)
		if len(commonPrefix) > MinPrefixLength {
			return strings.TrimSpace(commonPrefix) + PlaylistSuffix
		}
	}
	return entries[0].Title + PlaylistSuffix
}

// findCommonPrefix finds the common prefix between two strings
func findCommonPrefix(s1, s2 string) string {
	minLen := min(len(s1), len(s2))
	for i := 0; i < minLen; i++ {
		if s1[i] != s2[i] {
			return s1[:i]
		}
	}
	return s1[:minLen]
}
