package controller

import (
	"errors"
	"fmt"

	"github.com/ytget/yt-web-client/internal/api"
	"github.com/ytget/yt-web-client/internal/model"
)

// Messages shown when a step fails without a more specific reason.
const (
	MsgEmptyURL        = "Please enter a YouTube video URL"
	MsgInvalidURL      = "Please enter a valid YouTube URL"
	MsgInfoFailed      = "Failed to fetch video information"
	MsgDownloadFailed  = "Failed to start download"
	MsgNetworkErrorFmt = "Network error: %s"
)

var (
	// ErrSuperseded is returned by a flow whose response arrived after a reset or
	// after a newer flow replaced it. The session was not modified.
	ErrSuperseded = errors.New("controller: superseded by a newer request")

	// ErrClosed is returned by flows started after Close.
	ErrClosed = errors.New("controller: closed")
)

// ValidationError is an empty or malformed URL, detected before any request.
type ValidationError struct {
	Input   string
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("validation: %s", e.Message)
}

// JobFailedError is a terminal failed status reported by polling.
type JobFailedError struct {
	JobID   string
	Message string // empty when the server gave no reason
}

func (e *JobFailedError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("job %s failed", e.JobID)
	}
	return fmt.Sprintf("job %s failed: %s", e.JobID, e.Message)
}

// UserMessage returns the text the error section shows for err. fallback is used for
// remote errors without a server message.
func UserMessage(err error, fallback string) string {
	var (
		validation *ValidationError
		remote     *api.RemoteError
		network    *api.NetworkError
		failed     *JobFailedError
	)
	switch {
	case errors.As(err, &validation):
		return validation.Message
	case errors.As(err, &remote):
		return remote.MessageOr(fallback)
	case errors.As(err, &network):
		return fmt.Sprintf(MsgNetworkErrorFmt, network.Reason())
	case errors.As(err, &failed):
		if failed.Message == "" {
			return model.MsgDownloadFailed
		}
		return failed.Message
	case err == nil:
		return fallback
	default:
		return err.Error()
	}
}
