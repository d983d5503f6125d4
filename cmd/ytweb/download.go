package main

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/rs/zerolog"

	"github.com/ytget/yt-web-client/internal/api"
	"github.com/ytget/yt-web-client/internal/controller"
	"github.com/ytget/yt-web-client/internal/model"
	"github.com/ytget/yt-web-client/internal/platform"
)

// downloader runs videos through the job lifecycle and saves the results
type downloader struct {
	client   *api.Client
	opts     []controller.Option
	quality  model.Quality
	outDir   string
	expander *platform.PlaylistExpander
	out      io.Writer
	logger   zerolog.Logger
}

// one takes a single video from URL to a saved file, using a fresh controller so
// only one job is ever polled at a time
func (d *downloader) one(ctx context.Context, videoURL string) (string, error) {
	ctrl := controller.New(d.client, d.opts...)
	defer ctrl.Close()

	finished := make(chan model.Projection, 1)
	lastText := ""
	ctrl.SetUpdateCallback(func(p model.Projection) {
		switch p.Section {
		case model.SectionProgress:
			if p.ProgressText != lastText {
				lastText = p.ProgressText
				fmt.Fprintf(d.out, "  %s\n", p.ProgressText)
			}
		case model.SectionDownloadReady, model.SectionError:
			select {
			case finished <- p:
			default:
			}
		}
	})

	if err := ctrl.FetchInfo(ctx, videoURL); err != nil {
		return "", err
	}
	if info := ctrl.Snapshot().Info; info != nil {
		fmt.Fprintf(d.out, "%s (%s, %s)\n", info.GetDisplayTitle(), info.Uploader, info.GetDurationString())
	}

	if err := ctrl.SubmitJob(ctx, d.quality); err != nil {
		return "", err
	}

	select {
	case <-ctx.Done():
		return "", ctx.Err()
	case p := <-finished:
		if p.Section == model.SectionError {
			if err := ctrl.Err(); err != nil {
				return "", err
			}
			return "", errors.New(p.ErrorMessage)
		}
	}

	return d.save(ctx, ctrl.Snapshot().Status.Token)
}

// save fetches the one-time file and writes it into the output directory
func (d *downloader) save(ctx context.Context, token string) (string, error) {
	if err := platform.CreateDirectoryIfNotExists(d.outDir); err != nil {
		return "", fmt.Errorf("create output directory: %w", err)
	}

	f, err := d.client.FetchFile(ctx, token)
	if err != nil {
		return "", err
	}
	defer f.Body.Close()

	path, n, err := platform.SaveStream(d.outDir, f.Name, f.Body)
	if err != nil {
		return "", err
	}
	d.logger.Info().Str("path", path).Int64("bytes", n).Msg("file saved")
	return path, nil
}

// playlist expands the playlist and downloads its videos one after another. A
// failed video does not stop the batch.
func (d *downloader) playlist(ctx context.Context, playlistURL string) (*model.Batch, error) {
	batch, err := d.expander.Expand(ctx, playlistURL)
	if err != nil {
		return nil, fmt.Errorf("expand playlist: %w", err)
	}
	fmt.Fprintf(d.out, "%s: %d videos\n", batch.Title, len(batch.Entries))

	batch.SetStatus(model.BatchStatusRunning)
	for i, entry := range batch.Entries {
		if ctx.Err() != nil {
			break
		}
		fmt.Fprintf(d.out, "[%d/%d] %s\n", i+1, len(batch.Entries), entry.URL)

		batch.MarkEntry(entry, model.EntryStatusRunning, "")
		path, err := d.one(ctx, entry.URL)
		if err != nil {
			msg := controller.UserMessage(err, model.MsgDownloadFailed)
			batch.MarkEntry(entry, model.EntryStatusError, msg)
			d.logger.Warn().Err(err).Str("url", entry.URL).Msg("playlist entry failed")
			fmt.Fprintf(d.out, "  failed: %s\n", msg)
			continue
		}
		entry.OutputPath = path
		batch.MarkEntry(entry, model.EntryStatusCompleted, "")
		fmt.Fprintf(d.out, "  saved %s\n", path)
	}

	if batch.HasErrors() || len(batch.Pending()) > 0 {
		batch.SetStatus(model.BatchStatusError)
	} else {
		batch.SetStatus(model.BatchStatusCompleted)
	}
	return batch, ctx.Err()
}
