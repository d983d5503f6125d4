package model

import (
	"time"
)

// BatchStatus represents the overall state of a playlist batch
type BatchStatus string

const (
	BatchStatusExpanding BatchStatus = "expanding"
	BatchStatusReady     BatchStatus = "ready"
	BatchStatusRunning   BatchStatus = "running"
	BatchStatusCompleted BatchStatus = "completed"
	BatchStatusError     BatchStatus = "error"
)

// EntryStatus represents the outcome of one video inside a batch
type EntryStatus string

const (
	EntryStatusPending   EntryStatus = "pending"
	EntryStatusRunning   EntryStatus = "running"
	EntryStatusCompleted EntryStatus = "completed"
	EntryStatusError     EntryStatus = "error"
)

// BatchEntry is one video of an expanded playlist
type BatchEntry struct {
	VideoID    string      `json:"video_id"`
	Title      string      `json:"title"`
	URL        string      `json:"url"`
	Status     EntryStatus `json:"status"`
	Error      string      `json:"error,omitempty"`
	OutputPath string      `json:"output_path,omitempty"`
	FileSize   int64       `json:"file_size,omitempty"`
	UpdatedAt  time.Time   `json:"updated_at"`
}

// Batch is a playlist expanded into individual video URLs
type Batch struct {
	PlaylistID string        `json:"playlist_id"`
	Title      string        `json:"title"`
	URL        string        `json:"url"`
	Entries    []*BatchEntry `json:"entries"`
	Status     BatchStatus   `json:"status"`
	CreatedAt  time.Time     `json:"created_at"`
	UpdatedAt  time.Time     `json:"updated_at"`
}

// NewBatch creates a batch for a playlist URL that has not been expanded yet
func NewBatch(url string) *Batch {
	now := time.Now()
	return &Batch{
		URL:       url,
		Status:    BatchStatusExpanding,
		Entries:   make([]*BatchEntry, 0),
		CreatedAt: now,
		UpdatedAt: now,
	}
}

// AddEntry appends a video to the batch
func (b *Batch) AddEntry(entry *BatchEntry) {
	if entry.Status == "" {
		entry.Status = EntryStatusPending
	}
	entry.UpdatedAt = time.Now()
	b.Entries = append(b.Entries, entry)
	b.UpdatedAt = entry.UpdatedAt
}

// SetStatus updates the batch status
func (b *Batch) SetStatus(status BatchStatus) {
	b.Status = status
	b.UpdatedAt = time.Now()
}

// MarkEntry records the outcome of one entry
func (b *Batch) MarkEntry(entry *BatchEntry, status EntryStatus, errMsg string) {
	entry.Status = status
	entry.Error = errMsg
	entry.UpdatedAt = time.Now()
	b.UpdatedAt = entry.UpdatedAt
}

// Pending returns entries that have not run yet
func (b *Batch) Pending() []*BatchEntry {
	return b.filter(EntryStatusPending)
}

// Completed returns entries whose file was saved
func (b *Batch) Completed() []*BatchEntry {
	return b.filter(EntryStatusCompleted)
}

// Failed returns entries that ended with an error
func (b *Batch) Failed() []*BatchEntry {
	return b.filter(EntryStatusError)
}

func (b *Batch) filter(status EntryStatus) []*BatchEntry {
	var out []*BatchEntry
	for _, e := range b.Entries {
		if e.Status == status {
			out = append(out, e)
		}
	}
	return out
}

// Progress returns the share of finished entries as percentage
func (b *Batch) Progress() float64 {
	if len(b.Entries) == 0 {
		return 0
	}
	done := len(b.Completed()) + len(b.Failed())
	return float64(done) / float64(len(b.Entries)) * 100
}

// HasErrors checks if any entry failed
func (b *Batch) HasErrors() bool {
	return len(b.Failed()) > 0
}
