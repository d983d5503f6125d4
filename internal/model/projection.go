package model

import (
	"fmt"
	"strconv"
)

// Phase is the lifecycle position of a controller session
type Phase string

const (
	PhaseIdle        Phase = "idle"
	PhaseInfo        Phase = "info-fetched"
	PhaseDownloading Phase = "downloading"
	PhaseReady       Phase = "ready"
	PhaseError       Phase = "error"
)

// Section is the single UI section a front end should show
type Section string

const (
	SectionHiddenAll     Section = "hidden-all"
	SectionVideoInfo     Section = "video-info"
	SectionProgress      Section = "progress"
	SectionDownloadReady Section = "download-ready"
	SectionError         Section = "error"
)

// Progress messages shown under the bar
const (
	MsgStartingDownload = "Starting download..."
	MsgWaitingToStart   = "Waiting to start..."
	MsgProcessingFormat = "Processing video... %s%%"
	MsgDownloadComplete = "Download complete!"
	MsgDownloadFailed   = "Download failed"
	MsgProcessing       = "Processing..."
)

// Snapshot is a copy of the controller state taken under its lock
type Snapshot struct {
	Phase      Phase
	VideoURL   string
	JobID      string
	Info       *VideoInfo
	Status     JobStatus
	Submitting bool // download requested, no status received yet
	FileURL    string
	ErrMessage string
	Notice     string

	InfoBusy        bool
	InfoEnabled     bool
	DownloadEnabled bool
}

// VideoCard is the display form of VideoInfo
type VideoCard struct {
	Title        string
	Uploader     string
	Duration     string
	ThumbnailURL string
}

// Projection is what a front end renders. Exactly one section is visible.
type Projection struct {
	Section      Section
	Video        *VideoCard
	Percent      int
	ProgressText string
	FileURL      string
	ErrorMessage string
	Notice       string

	InfoBusy        bool
	InfoEnabled     bool
	DownloadEnabled bool
}

// Project maps a controller snapshot to the UI sections to display
func Project(s Snapshot) Projection {
	p := Projection{
		Section:         SectionHiddenAll,
		Notice:          s.Notice,
		InfoBusy:        s.InfoBusy,
		InfoEnabled:     s.InfoEnabled,
		DownloadEnabled: s.DownloadEnabled,
	}

	switch s.Phase {
	case PhaseInfo:
		if s.Info != nil {
			p.Section = SectionVideoInfo
			p.Video = &VideoCard{
				Title:        s.Info.GetDisplayTitle(),
				Uploader:     s.Info.Uploader,
				Duration:     s.Info.GetDurationString(),
				ThumbnailURL: s.Info.ThumbnailURL,
			}
		}
	case PhaseDownloading:
		p.Section = SectionProgress
		if s.Submitting {
			p.ProgressText = MsgStartingDownload
		} else {
			p.Percent = int(ClampProgress(s.Status.Progress))
			p.ProgressText = ProgressMessage(s.Status)
		}
	case PhaseReady:
		p.Section = SectionDownloadReady
		p.FileURL = s.FileURL
		p.Percent = 100
	case PhaseError:
		p.Section = SectionError
		p.ErrorMessage = s.ErrMessage
	}

	return p
}

// ProgressMessage returns the status line for a job status
func ProgressMessage(st JobStatus) string {
	switch st.State {
	case JobStatePending:
		return MsgWaitingToStart
	case JobStateProcessing:
		return fmt.Sprintf(MsgProcessingFormat, strconv.FormatFloat(ClampProgress(st.Progress), 'f', -1, 64))
	case JobStateCompleted:
		return MsgDownloadComplete
	case JobStateFailed:
		return MsgDownloadFailed
	default:
		return MsgProcessing
	}
}
