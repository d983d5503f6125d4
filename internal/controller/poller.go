package controller

import (
	"context"

	"go.opentelemetry.io/otel/attribute"

	"github.com/ytget/yt-web-client/internal/model"
)

func (c *Controller) startPollLocked(ctx context.Context, epoch uint64, jobID string) {
	// The poll outlives the submit call, so it keeps only the request's values.
	pollCtx, cancel := context.WithCancel(context.WithoutCancel(ctx))
	c.sess.poll = &poller{jobID: jobID, cancel: cancel}

	c.wg.Add(1)
	go c.poll(pollCtx, epoch, jobID)
}

// poll asks for the job status once per tick until a terminal status arrives or ctx
// is cancelled. Ticks run one at a time; a tick that outlasts the interval delays the
// next one instead of overlapping it.
func (c *Controller) poll(ctx context.Context, epoch uint64, jobID string) {
	defer c.wg.Done()

	ticker := c.newTicker(c.pollInterval)
	defer ticker.Stop()

	logger := c.logger.With().Str("job_id", jobID).Uint64("epoch", epoch).Logger()
	logger.Debug().Dur("interval", c.pollInterval).Msg("polling started")
	defer func() { logger.Debug().Msg("polling stopped") }()

	failures := 0
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C():
		}

		tickCtx, span := c.tracer.Start(ctx, "controller.poll")
		span.SetAttributes(attribute.String("job.id", jobID))
		st, err := c.api.Status(tickCtx, jobID)
		endSpan(span, err)

		if err != nil {
			if ctx.Err() != nil {
				return
			}
			failures++
			pollTicksTotal.WithLabelValues("transport_error").Inc()
			logger.Warn().Err(err).Int("consecutive_failures", failures).Msg("status poll failed")
			if c.maxPollFailures > 0 && failures >= c.maxPollFailures {
				c.abortPoll(epoch, jobID, err)
				return
			}
			continue
		}
		failures = 0

		if !c.applyStatus(epoch, jobID, st) {
			return
		}
	}
}

// applyStatus records a poll result and reports whether polling should go on
func (c *Controller) applyStatus(epoch uint64, jobID string, st model.JobStatus) bool {
	c.mu.Lock()
	if c.sess.epoch != epoch {
		c.mu.Unlock()
		pollTicksTotal.WithLabelValues("stale").Inc()
		return false
	}
	pollTicksTotal.WithLabelValues("ok").Inc()

	c.sess.submitting = false
	c.sess.status = st

	var jobErr error
	switch st.State {
	case model.JobStateCompleted:
		if st.Token == "" {
			// a link without a token cannot be fetched
			jobErr = &JobFailedError{JobID: jobID}
			break
		}
		c.sess.phase = model.PhaseReady
		c.sess.fileURL = c.api.FileURL(st.Token)
	case model.JobStateFailed:
		jobErr = &JobFailedError{JobID: jobID, Message: st.Error}
	}

	terminal := st.State.IsTerminal()
	if jobErr != nil {
		c.failLocked(jobErr, model.MsgDownloadFailed)
		c.sess.downloadEnabled = true
	}
	if terminal {
		c.finishJobLocked()
	}
	fileURL := c.sess.fileURL
	u := c.commitLocked()
	c.mu.Unlock()
	c.dispatch(u)

	logger := c.logger.With().Str("job_id", jobID).Logger()
	switch {
	case jobErr != nil:
		flowsTotal.WithLabelValues("job", flowResult(jobErr)).Inc()
		logger.Warn().Err(jobErr).Msg("download job failed")
	case terminal:
		flowsTotal.WithLabelValues("job", flowResult(nil)).Inc()
		logger.Info().Str("file_url", fileURL).Msg("download ready")
	default:
		logger.Debug().Str("status", st.State.String()).Float64("progress", st.Progress).Msg("job status")
	}
	return !terminal
}

// abortPoll ends a job whose status could not be read too many times in a row
func (c *Controller) abortPoll(epoch uint64, jobID string, err error) {
	c.mu.Lock()
	if c.sess.epoch != epoch {
		c.mu.Unlock()
		return
	}
	c.failLocked(err, model.MsgDownloadFailed)
	c.sess.downloadEnabled = true
	c.finishJobLocked()
	u := c.commitLocked()
	c.mu.Unlock()
	c.dispatch(u)

	flowsTotal.WithLabelValues("job", flowResult(err)).Inc()
	c.logger.Error().Err(err).Str("job_id", jobID).Int("max_failures", c.maxPollFailures).Msg("giving up on job status")
}

// finishJobLocked leaves the non-terminal job state
func (c *Controller) finishJobLocked() {
	c.sess.jobID = ""
	c.stopPollLocked()
}
