package controller

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/rs/zerolog"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/ytget/yt-web-client/internal/log"
	"github.com/ytget/yt-web-client/internal/model"
)

const tracerName = "github.com/ytget/yt-web-client/internal/controller"

// APIClient is the part of the download server API the controller consumes.
// *api.Client implements it.
type APIClient interface {
	Info(ctx context.Context, videoURL string) (*model.VideoInfo, error)
	StartDownload(ctx context.Context, videoURL string, quality model.Quality) (string, error)
	Status(ctx context.Context, jobID string) (model.JobStatus, error)
	FileURL(token string) string
}

// poller is the handle of the running status poll goroutine
type poller struct {
	jobID  string
	cancel context.CancelFunc
}

// session is the state of one download request. epoch changes whenever a flow is
// restarted, so responses started under an older epoch are ignored.
type session struct {
	epoch uint64
	phase model.Phase

	videoURL   string
	jobID      string
	info       *model.VideoInfo
	status     model.JobStatus
	submitting bool
	fileURL    string
	err        error
	errMessage string

	notice      string
	noticeArmed bool
	stopNotice  func() bool

	poll *poller

	infoBusy        bool
	infoEnabled     bool
	downloadEnabled bool
}

func newSession(epoch uint64) session {
	return session{
		epoch:       epoch,
		phase:       model.PhaseIdle,
		infoEnabled: true,
	}
}

// pristine reports whether s holds nothing a reset would clear
func (s *session) pristine() bool {
	return s.phase == model.PhaseIdle &&
		s.videoURL == "" &&
		s.jobID == "" &&
		s.info == nil &&
		s.poll == nil &&
		s.stopNotice == nil &&
		s.errMessage == "" &&
		!s.infoBusy &&
		s.infoEnabled &&
		!s.downloadEnabled
}

type update struct {
	seq uint64
	p   model.Projection
}

// Controller drives a download request from URL entry to a ready link.
// It is safe for concurrent use.
type Controller struct {
	api             APIClient
	logger          zerolog.Logger
	tracer          trace.Tracer
	pollInterval    time.Duration
	maxPollFailures int
	noticeDelay     time.Duration
	newTicker       TickerFunc
	afterFunc       AfterFunc

	mu     sync.Mutex
	sess   session
	seq    uint64
	closed bool
	wg     sync.WaitGroup

	dispatchMu sync.Mutex
	delivered  uint64
	onUpdate   func(model.Projection)
}

// New creates a controller in the idle state
func New(client APIClient, opts ...Option) *Controller {
	c := &Controller{
		api:          client,
		logger:       log.WithComponent("controller"),
		tracer:       otel.Tracer(tracerName),
		pollInterval: DefaultPollInterval,
		noticeDelay:  DefaultLinkNoticeDelay,
		newTicker:    newTimeTicker,
		afterFunc:    timeAfterFunc,
		sess:         newSession(0),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// SetUpdateCallback sets the function receiving a projection after every state
// change. It is called without the controller lock held, one call at a time, and
// never with a projection older than one already delivered. It must not call back
// into the controller synchronously.
func (c *Controller) SetUpdateCallback(callback func(model.Projection)) {
	c.dispatchMu.Lock()
	defer c.dispatchMu.Unlock()
	c.onUpdate = callback
}

// Snapshot returns a copy of the current session
func (c *Controller) Snapshot() model.Snapshot {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.snapshotLocked()
}

// Projection returns what a front end should currently display
func (c *Controller) Projection() model.Projection {
	return model.Project(c.Snapshot())
}

// Err returns the error behind the current error section, or nil
func (c *Controller) Err() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.sess.err
}

// Polling reports whether a status poller is active
func (c *Controller) Polling() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.sess.poll != nil
}

// FetchInfo validates raw and fetches the video metadata. Any flow in progress,
// including an active poller, is abandoned first.
func (c *Controller) FetchInfo(ctx context.Context, raw string) (err error) {
	ctx, span := c.tracer.Start(ctx, "controller.FetchInfo")
	defer func() {
		flowsTotal.WithLabelValues("info", flowResult(err)).Inc()
		endSpan(span, err)
	}()

	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return ErrClosed
	}
	c.restartLocked()
	epoch := c.sess.epoch

	videoURL, err := ValidateURL(raw)
	if err != nil {
		c.failLocked(err, MsgInfoFailed)
		u := c.commitLocked()
		c.mu.Unlock()
		c.dispatch(u)
		c.logger.Debug().Err(err).Str("input", raw).Msg("rejected url")
		return err
	}

	c.sess.videoURL = videoURL
	c.sess.infoBusy = true
	c.sess.infoEnabled = false
	u := c.commitLocked()
	c.mu.Unlock()
	c.dispatch(u)

	span.SetAttributes(attribute.String("video.url", videoURL))
	logger := c.logger.With().Str("url", videoURL).Uint64("epoch", epoch).Logger()
	logger.Debug().Msg("fetching video info")

	// releases the info control if the request panics
	defer c.releaseInfo(epoch)

	info, err := c.api.Info(ctx, videoURL)

	c.mu.Lock()
	if c.sess.epoch != epoch {
		c.mu.Unlock()
		logger.Debug().Msg("dropping stale info response")
		return ErrSuperseded
	}
	c.sess.infoBusy = false
	c.sess.infoEnabled = true
	if err != nil {
		c.failLocked(err, MsgInfoFailed)
	} else {
		c.sess.info = info
		c.sess.phase = model.PhaseInfo
		c.sess.downloadEnabled = true
	}
	u = c.commitLocked()
	c.mu.Unlock()
	c.dispatch(u)

	if err != nil {
		logger.Warn().Err(err).Msg("video info failed")
		return err
	}
	logger.Info().Str("title", info.Title).Int("duration", info.DurationSeconds).Msg("video info fetched")
	return nil
}

// SubmitJob starts a download job for the fetched video and begins polling its status.
// FetchInfo must have succeeded before; otherwise the request carries an empty url.
func (c *Controller) SubmitJob(ctx context.Context, quality model.Quality) (err error) {
	ctx, span := c.tracer.Start(ctx, "controller.SubmitJob")
	defer func() {
		flowsTotal.WithLabelValues("submit", flowResult(err)).Inc()
		endSpan(span, err)
	}()

	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return ErrClosed
	}
	c.stopPollLocked()
	c.stopNoticeLocked()
	c.sess.epoch++
	epoch := c.sess.epoch
	videoURL := c.sess.videoURL

	c.sess.phase = model.PhaseDownloading
	c.sess.jobID = ""
	c.sess.status = model.JobStatus{}
	c.sess.submitting = true
	c.sess.fileURL = ""
	c.sess.err = nil
	c.sess.errMessage = ""
	c.sess.notice = ""
	c.sess.noticeArmed = false
	c.sess.infoBusy = false
	c.sess.infoEnabled = true
	c.sess.downloadEnabled = false
	u := c.commitLocked()
	c.mu.Unlock()
	c.dispatch(u)

	span.SetAttributes(
		attribute.String("video.url", videoURL),
		attribute.String("video.quality", quality.String()),
	)
	logger := c.logger.With().Str("url", videoURL).Str("quality", quality.String()).Uint64("epoch", epoch).Logger()
	if videoURL == "" {
		logger.Warn().Msg("submitting without fetched video info")
	}

	jobID, err := c.api.StartDownload(ctx, videoURL, quality)

	c.mu.Lock()
	if c.sess.epoch != epoch {
		c.mu.Unlock()
		logger.Debug().Msg("dropping stale submit response")
		return ErrSuperseded
	}
	if err != nil {
		c.failLocked(err, MsgDownloadFailed)
		c.sess.downloadEnabled = true
		u = c.commitLocked()
		c.mu.Unlock()
		c.dispatch(u)
		logger.Warn().Err(err).Msg("submit failed")
		return err
	}

	c.sess.jobID = jobID
	c.startPollLocked(ctx, epoch, jobID)
	u = c.commitLocked()
	c.mu.Unlock()
	c.dispatch(u)

	span.SetAttributes(attribute.String("job.id", jobID))
	logger.Info().Str("job_id", jobID).Msg("download job submitted")
	return nil
}

// Reset cancels polling and any pending notice and returns to the initial state.
// Responses still in flight are dropped when they arrive.
func (c *Controller) Reset() {
	c.mu.Lock()
	if c.sess.pristine() {
		c.mu.Unlock()
		return
	}
	c.restartLocked()
	u := c.commitLocked()
	epoch := c.sess.epoch
	c.mu.Unlock()
	c.dispatch(u)

	c.logger.Debug().Uint64("epoch", epoch).Msg("session reset")
}

// OpenDownloadLink returns the file link in the ready state, or "" otherwise. The
// first call per ready state schedules the one-time link notice. A closed
// controller hands out no link.
func (c *Controller) OpenDownloadLink() string {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.closed || c.sess.phase != model.PhaseReady {
		return ""
	}
	if !c.sess.noticeArmed {
		c.sess.noticeArmed = true
		epoch := c.sess.epoch
		c.sess.stopNotice = c.afterFunc(c.noticeDelay, func() { c.showNotice(epoch) })
	}
	return c.sess.fileURL
}

// Close stops polling and waits for the poll goroutine to exit. Flows started
// afterwards fail with ErrClosed.
func (c *Controller) Close() {
	c.mu.Lock()
	if !c.closed {
		c.closed = true
		c.stopPollLocked()
		c.stopNoticeLocked()
		c.sess.epoch++
	}
	c.mu.Unlock()

	c.wg.Wait()
}

func (c *Controller) showNotice(epoch uint64) {
	c.mu.Lock()
	if c.sess.epoch != epoch || c.sess.phase != model.PhaseReady {
		c.mu.Unlock()
		return
	}
	c.sess.notice = LinkNotice
	c.sess.stopNotice = nil
	u := c.commitLocked()
	c.mu.Unlock()
	c.dispatch(u)
}

func (c *Controller) releaseInfo(epoch uint64) {
	c.mu.Lock()
	if c.sess.epoch != epoch || !c.sess.infoBusy {
		c.mu.Unlock()
		return
	}
	c.sess.infoBusy = false
	c.sess.infoEnabled = true
	u := c.commitLocked()
	c.mu.Unlock()
	c.dispatch(u)
}

// restartLocked abandons everything in progress and starts a fresh session
func (c *Controller) restartLocked() {
	c.stopPollLocked()
	c.stopNoticeLocked()
	c.sess = newSession(c.sess.epoch + 1)
}

// failLocked moves to the error section. The download control is left to the caller.
func (c *Controller) failLocked(err error, fallback string) {
	c.sess.phase = model.PhaseError
	c.sess.err = err
	c.sess.errMessage = UserMessage(err, fallback)
	c.sess.submitting = false
	c.sess.infoBusy = false
	c.sess.infoEnabled = true
}

func (c *Controller) stopPollLocked() {
	if c.sess.poll == nil {
		return
	}
	c.sess.poll.cancel()
	c.sess.poll = nil
}

func (c *Controller) stopNoticeLocked() {
	if c.sess.stopNotice != nil {
		c.sess.stopNotice()
		c.sess.stopNotice = nil
	}
}

func (c *Controller) snapshotLocked() model.Snapshot {
	var info *model.VideoInfo
	if c.sess.info != nil {
		cp := *c.sess.info
		info = &cp
	}
	return model.Snapshot{
		Phase:           c.sess.phase,
		VideoURL:        c.sess.videoURL,
		JobID:           c.sess.jobID,
		Info:            info,
		Status:          c.sess.status,
		Submitting:      c.sess.submitting,
		FileURL:         c.sess.fileURL,
		ErrMessage:      c.sess.errMessage,
		Notice:          c.sess.notice,
		InfoBusy:        c.sess.infoBusy,
		InfoEnabled:     c.sess.infoEnabled,
		DownloadEnabled: c.sess.downloadEnabled,
	}
}

func (c *Controller) commitLocked() update {
	c.seq++
	return update{seq: c.seq, p: model.Project(c.snapshotLocked())}
}

func (c *Controller) dispatch(u update) {
	c.dispatchMu.Lock()
	defer c.dispatchMu.Unlock()

	if u.seq <= c.delivered {
		return
	}
	c.delivered = u.seq
	if c.onUpdate != nil {
		c.onUpdate(u.p)
	}
}

func endSpan(span trace.Span, err error) {
	if err != nil && !errors.Is(err, ErrSuperseded) {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
	}
	span.End()
}
