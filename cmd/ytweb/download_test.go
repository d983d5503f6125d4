package main

import (
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ytget/yt-web-client/internal/api"
	"github.com/ytget/yt-web-client/internal/config"
	"github.com/ytget/yt-web-client/internal/controller"
	"github.com/ytget/yt-web-client/internal/model"
	"github.com/ytget/yt-web-client/internal/platform"
	"github.com/ytget/yt-web-client/internal/testutil/fakeapi"
)

const videoURL = "https://www.youtube.com/watch?v=abc"

func newDownloader(t *testing.T, srv *fakeapi.Server) (*downloader, *bytes.Buffer) {
	t.Helper()
	var out bytes.Buffer
	return &downloader{
		client: api.New(srv.URL),
		opts: []controller.Option{
			controller.WithPollInterval(5 * time.Millisecond),
			controller.WithLogger(zerolog.Nop()),
		},
		quality:  model.Quality720p,
		outDir:   t.TempDir(),
		expander: platform.NewPlaylistExpander(),
		out:      &out,
		logger:   zerolog.Nop(),
	}, &out
}

func TestOne_SavesFile(t *testing.T) {
	srv := fakeapi.New(t)
	srv.VideoInfo("Gopher Talk", "GoConf", 125, "")
	srv.JobID("job-1")
	srv.Statuses("job-1",
		fakeapi.Status("processing", 50, "", ""),
		fakeapi.Status("completed", 100, "T", ""),
	)
	srv.AddFile("T", fakeapi.File{Name: "Gopher Talk.mp4", Data: []byte("video bytes")})

	d, out := newDownloader(t, srv)
	path, err := d.one(context.Background(), videoURL)
	require.NoError(t, err)

	assert.Equal(t, filepath.Join(d.outDir, "Gopher Talk.mp4"), path)
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "video bytes", string(data))

	assert.Equal(t, "720p", srv.LastDownload().Quality)
	assert.Equal(t, 1, srv.FileCalls("T"))
	assert.Contains(t, out.String(), "Gopher Talk (GoConf, 2:05)")
	assert.Contains(t, out.String(), "Processing video... 50%")
}

func TestOne_JobFailed(t *testing.T) {
	srv := fakeapi.New(t)
	srv.VideoInfo("Gopher Talk", "GoConf", 125, "")
	srv.JobID("job-1")
	srv.Statuses("job-1", fakeapi.Status("failed", 0, "", "Video unavailable"))

	d, _ := newDownloader(t, srv)
	_, err := d.one(context.Background(), videoURL)

	var jobErr *controller.JobFailedError
	require.ErrorAs(t, err, &jobErr)
	assert.Equal(t, "Video unavailable", controller.UserMessage(err, model.MsgDownloadFailed))

	entries, err := os.ReadDir(d.outDir)
	require.NoError(t, err)
	assert.Empty(t, entries)
}

func TestOne_InvalidURL(t *testing.T) {
	srv := fakeapi.New(t)
	d, _ := newDownloader(t, srv)

	_, err := d.one(context.Background(), "https://vimeo.com/123")

	var valErr *controller.ValidationError
	require.ErrorAs(t, err, &valErr)
	assert.Equal(t, 0, srv.InfoCalls())
}

func TestOne_Cancelled(t *testing.T) {
	srv := fakeapi.New(t)
	srv.VideoInfo("Gopher Talk", "GoConf", 125, "")
	srv.JobID("job-1")
	srv.Statuses("job-1", fakeapi.Status("pending", 0, "", ""))

	d, _ := newDownloader(t, srv)
	ctx, cancel := context.WithTimeout(context.Background(), 100*time.Millisecond)
	defer cancel()

	_, err := d.one(ctx, videoURL)
	assert.ErrorIs(t, err, context.DeadlineExceeded)
}

func TestPlaylist_ContinuesAfterFailure(t *testing.T) {
	srv := fakeapi.New(t)
	srv.VideoInfo("Lesson", "GoConf", 60, "")
	srv.JobID("job-1")
	srv.Statuses("job-1", fakeapi.Status("completed", 100, "T", ""))
	// the link is one-time, so the second video finds it expired
	srv.AddFile("T", fakeapi.File{Name: "lesson.mp4", Data: []byte("one")})

	d, out := newDownloader(t, srv)
	d.expander.SetSource(func(context.Context, string) ([]platform.PlaylistItem, error) {
		return []platform.PlaylistItem{
			{VideoID: "a1", Title: "Lesson 1"},
			{VideoID: "b2", Title: "Lesson 2"},
		}, nil
	})

	batch, err := d.playlist(context.Background(), "https://www.youtube.com/playlist?list=PL1")
	require.NoError(t, err)

	assert.Equal(t, model.BatchStatusError, batch.Status)
	require.Len(t, batch.Completed(), 1)
	require.Len(t, batch.Failed(), 1)
	assert.Equal(t, filepath.Join(d.outDir, "lesson.mp4"), batch.Completed()[0].OutputPath)
	assert.Equal(t, "File not found or link expired", batch.Failed()[0].Error)
	assert.Equal(t, 2, srv.DownloadCalls())
	assert.Contains(t, out.String(), "[2/2] https://www.youtube.com/watch?v=b2")
}

func TestPlaylist_ExpandError(t *testing.T) {
	srv := fakeapi.New(t)
	d, _ := newDownloader(t, srv)
	d.expander.SetSource(func(context.Context, string) ([]platform.PlaylistItem, error) {
		return nil, errors.New("playlist is private")
	})

	_, err := d.playlist(context.Background(), "https://www.youtube.com/playlist?list=PL1")
	assert.ErrorContains(t, err, "playlist is private")
	assert.Equal(t, 0, srv.InfoCalls())
}

func TestRun(t *testing.T) {
	srv := fakeapi.New(t)
	srv.VideoInfo("Gopher Talk", "GoConf", 125, "")
	srv.JobID("job-1")
	srv.Statuses("job-1", fakeapi.Status("completed", 100, "T", ""))
	srv.AddFile("T", fakeapi.File{Name: "talk.mp4", Data: []byte("video bytes")})

	t.Setenv(config.EnvConfigFile, "")
	t.Setenv(config.EnvServerURL, srv.URL)
	t.Setenv(config.EnvPollInterval, "100ms")
	dir := t.TempDir()

	tests := []struct {
		name     string
		args     []string
		expected int
	}{
		{"missing url", nil, exitUsage},
		{"unknown flag", []string{"-nope"}, exitUsage},
		{"bad quality", []string{"-url", videoURL, "-quality", "4k"}, exitUsage},
		{"health", []string{"-check"}, exitOK},
		{"download", []string{"-url", videoURL, "-out", dir, "-quality", "best"}, exitOK},
		{"link already used", []string{"-url", videoURL, "-out", dir, "-quality", "best"}, exitFail},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := run(tt.args); got != tt.expected {
				t.Errorf("run(%v) = %d, expected %d", tt.args, got, tt.expected)
			}
		})
	}

	data, err := os.ReadFile(filepath.Join(dir, "talk.mp4"))
	require.NoError(t, err)
	assert.Equal(t, "video bytes", string(data))
	assert.Equal(t, "best", srv.LastDownload().Quality)
}

func TestRun_Unhealthy(t *testing.T) {
	srv := fakeapi.New(t)
	srv.Health(fakeapi.Reply{Status: 503, Body: map[string]any{"status": "degraded"}})

	t.Setenv(config.EnvConfigFile, "")
	t.Setenv(config.EnvServerURL, srv.URL)

	if got := run([]string{"-check"}); got != exitFail {
		t.Errorf("expected exit %d for unhealthy server, got %d", exitFail, got)
	}
}
