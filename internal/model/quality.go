package model

import (
	"errors"
	"fmt"
	"strings"
)

// Quality is a resolution tier accepted by the download endpoint
type Quality string

const (
	Quality2160p Quality = "2160p"
	Quality1440p Quality = "1440p"
	Quality1080p Quality = "1080p"
	Quality720p  Quality = "720p"
	Quality480p  Quality = "480p"
	QualityBest  Quality = "best"
)

// DefaultQuality matches the server's default when no quality is sent
const DefaultQuality = Quality1080p

// ErrUnknownQuality is returned by ParseQuality for values outside the fixed set
var ErrUnknownQuality = errors.New("unknown quality")

// QualityOptions returns the selectable tiers, highest first
func QualityOptions() []Quality {
	return []Quality{Quality2160p, Quality1440p, Quality1080p, Quality720p, Quality480p, QualityBest}
}

// ParseQuality converts user input into a Quality. Matching is case-insensitive.
func ParseQuality(s string) (Quality, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	for _, q := range QualityOptions() {
		if string(q) == s {
			return q, nil
		}
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownQuality, s)
}

// String returns the wire value
func (q Quality) String() string {
	return string(q)
}
