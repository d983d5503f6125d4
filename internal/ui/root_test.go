package ui

import (
	"context"
	"io"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/test"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ytget/yt-web-client/internal/api"
	"github.com/ytget/yt-web-client/internal/config"
	"github.com/ytget/yt-web-client/internal/model"
)

const waitTimeout = 2 * time.Second

type fakeController struct {
	mu        sync.Mutex
	snap      model.Snapshot
	link      string
	fetched   []string
	submitted []model.Quality
	resets    int
	callback  func(model.Projection)
}

func (f *fakeController) FetchInfo(_ context.Context, raw string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.fetched = append(f.fetched, raw)
	return nil
}

func (f *fakeController) SubmitJob(_ context.Context, q model.Quality) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.submitted = append(f.submitted, q)
	return nil
}

func (f *fakeController) Reset() {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.resets++
}

func (f *fakeController) OpenDownloadLink() string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.link
}

func (f *fakeController) Snapshot() model.Snapshot {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.snap
}

func (f *fakeController) Projection() model.Projection {
	return model.Project(f.Snapshot())
}

func (f *fakeController) SetUpdateCallback(cb func(model.Projection)) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.callback = cb
}

func (f *fakeController) calls() ([]string, []model.Quality, int) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]string(nil), f.fetched...), append([]model.Quality(nil), f.submitted...), f.resets
}

type fakeFiles struct {
	mu     sync.Mutex
	tokens []string
	name   string
	data   string
}

func (f *fakeFiles) FetchFile(_ context.Context, token string) (*api.File, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.tokens = append(f.tokens, token)
	return &api.File{Name: f.name, Size: int64(len(f.data)), Body: io.NopCloser(strings.NewReader(f.data))}, nil
}

type testUI struct {
	*RootUI
	ctrl     *fakeController
	files    *fakeFiles
	settings *config.Settings
}

func newTestUI(t *testing.T) *testUI {
	t.Helper()
	app := test.NewApp()
	t.Cleanup(app.Quit)

	w := app.NewWindow("test")
	settings := config.NewSettings(app, config.Default())
	settings.SetDownloadDirectory(t.TempDir())
	settings.SetAutoRevealOnSave(false)

	ctrl := &fakeController{snap: model.Snapshot{Phase: model.PhaseIdle, InfoEnabled: true}}
	files := &fakeFiles{name: "clip.mp4", data: "video bytes"}
	ui := NewRootUI(w, app, ctrl, files, settings, zerolog.Nop())
	t.Cleanup(ui.Close)

	return &testUI{RootUI: ui, ctrl: ctrl, files: files, settings: settings}
}

func visible(objects ...fyne.CanvasObject) []bool {
	out := make([]bool, len(objects))
	for i, o := range objects {
		out[i] = o.Visible()
	}
	return out
}

func TestNewRootUI_InitialState(t *testing.T) {
	ui := newTestUI(t)

	assert.Equal(t, []bool{false, false, false, false},
		visible(ui.videoSection, ui.progressSection, ui.readySection, ui.errorSection))
	assert.False(t, ui.infoBtn.Disabled())
	assert.Equal(t, "Get Video Info", ui.infoBtn.Text)
	assert.NotNil(t, ui.ctrl.callback, "window should subscribe to projections")
	assert.Equal(t, model.DefaultQuality.String(), ui.qualitySelect.Selected)
}

func TestRender_ShowsExactlyOneSection(t *testing.T) {
	tests := []struct {
		section  model.Section
		expected []bool
	}{
		{model.SectionHiddenAll, []bool{false, false, false, false}},
		{model.SectionVideoInfo, []bool{true, false, false, false}},
		{model.SectionProgress, []bool{false, true, false, false}},
		{model.SectionDownloadReady, []bool{false, false, true, false}},
		{model.SectionError, []bool{false, false, false, true}},
	}

	ui := newTestUI(t)
	for _, tt := range tests {
		t.Run(string(tt.section), func(t *testing.T) {
			ui.render(model.Projection{Section: tt.section, Video: &model.VideoCard{Title: "x"}, InfoEnabled: true})
			got := visible(ui.videoSection, ui.progressSection, ui.readySection, ui.errorSection)
			if !assert.ObjectsAreEqual(tt.expected, got) {
				t.Errorf("section %s: expected visibility %v, got %v", tt.section, tt.expected, got)
			}
		})
	}
}

func TestRender_InfoBusy(t *testing.T) {
	ui := newTestUI(t)

	ui.render(model.Projection{Section: model.SectionHiddenAll, InfoBusy: true})
	assert.Equal(t, "Fetching info...", ui.infoBtn.Text)
	assert.True(t, ui.infoBtn.Disabled())
	assert.True(t, ui.infoSpinner.Visible())

	ui.render(model.Projection{Section: model.SectionError, ErrorMessage: "Video unavailable", InfoEnabled: true})
	assert.Equal(t, "Get Video Info", ui.infoBtn.Text)
	assert.False(t, ui.infoBtn.Disabled())
	assert.False(t, ui.infoSpinner.Visible())
	assert.Equal(t, "Video unavailable", ui.errorLabel.Text)
}

func TestRender_VideoInfo(t *testing.T) {
	ui := newTestUI(t)

	ui.render(model.Projection{
		Section:         model.SectionVideoInfo,
		Video:           &model.VideoCard{Title: "Gopher Talk", Uploader: "GoConf", Duration: "2:05"},
		InfoEnabled:     true,
		DownloadEnabled: true,
	})

	assert.Equal(t, "Gopher Talk", ui.titleLabel.Text)
	assert.Equal(t, "GoConf · 2:05", ui.detailsLabel.Text)
	assert.False(t, ui.downloadBtn.Disabled())

	ui.render(model.Projection{Section: model.SectionProgress, Percent: 40, ProgressText: "Processing video... 40%"})
	assert.True(t, ui.downloadBtn.Disabled())
	assert.Equal(t, 40.0, ui.progressBar.Value)
	assert.Equal(t, "Processing video... 40%", ui.progressLabel.Text)
}

func TestRender_ClearsURLOnReset(t *testing.T) {
	ui := newTestUI(t)
	ui.urlEntry.SetText("https://youtu.be/abc")

	// fetching keeps the entry
	ui.render(model.Projection{Section: model.SectionHiddenAll, InfoBusy: true})
	assert.Equal(t, "https://youtu.be/abc", ui.urlEntry.Text)

	ui.render(model.Projection{Section: model.SectionVideoInfo, Video: &model.VideoCard{}, InfoEnabled: true})
	assert.Equal(t, "https://youtu.be/abc", ui.urlEntry.Text)

	ui.render(model.Projection{Section: model.SectionHiddenAll, InfoEnabled: true})
	assert.Empty(t, ui.urlEntry.Text)
}

func TestGetInfo_ForwardsEntryText(t *testing.T) {
	ui := newTestUI(t)
	ui.urlEntry.SetText("https://youtu.be/abc")

	test.Tap(ui.infoBtn)

	require.Eventually(t, func() bool {
		fetched, _, _ := ui.ctrl.calls()
		return len(fetched) == 1
	}, waitTimeout, time.Millisecond)
	fetched, _, _ := ui.ctrl.calls()
	assert.Equal(t, "https://youtu.be/abc", fetched[0])
}

func TestDownload_UsesSelectedQuality(t *testing.T) {
	ui := newTestUI(t)
	ui.render(model.Projection{Section: model.SectionVideoInfo, Video: &model.VideoCard{}, InfoEnabled: true, DownloadEnabled: true})

	ui.qualitySelect.SetSelected("720p")
	test.Tap(ui.downloadBtn)

	require.Eventually(t, func() bool {
		_, submitted, _ := ui.ctrl.calls()
		return len(submitted) == 1
	}, waitTimeout, time.Millisecond)
	_, submitted, _ := ui.ctrl.calls()
	assert.Equal(t, model.Quality720p, submitted[0])
	assert.Equal(t, model.Quality720p, ui.settings.GetQuality(), "choice should be remembered")
}

func TestResetButtons(t *testing.T) {
	ui := newTestUI(t)

	test.Tap(ui.newDownloadBtn)
	test.Tap(ui.retryBtn)

	_, _, resets := ui.ctrl.calls()
	assert.Equal(t, 2, resets)
}

func TestReady_OpenLinkIsOneTime(t *testing.T) {
	ui := newTestUI(t)
	ui.ctrl.link = "http://localhost:8000/api/file/T"
	ui.render(model.Projection{Section: model.SectionDownloadReady, FileURL: ui.ctrl.link, Percent: 100, InfoEnabled: true})

	assert.False(t, ui.openLinkBtn.Disabled())
	test.Tap(ui.openLinkBtn)

	assert.True(t, ui.openLinkBtn.Disabled())
	assert.True(t, ui.saveBtn.Disabled())
	assert.Equal(t, "The download link has been used", ui.savedLabel.Text)

	ui.render(model.Projection{Section: model.SectionDownloadReady, FileURL: ui.ctrl.link, Notice: "Your download should start shortly.", InfoEnabled: true})
	assert.True(t, ui.noticeLabel.Visible())
	assert.True(t, ui.openLinkBtn.Disabled(), "a notice must not re-arm the link")
}

func TestReady_SaveToFolder(t *testing.T) {
	ui := newTestUI(t)
	ui.ctrl.snap = model.Snapshot{Phase: model.PhaseReady, Status: model.JobStatus{State: model.JobStateCompleted, Token: "T"}}
	ui.render(model.Projection{Section: model.SectionDownloadReady, Percent: 100, InfoEnabled: true})

	test.Tap(ui.saveBtn)
	assert.True(t, ui.saveBtn.Disabled())

	target := filepath.Join(ui.settings.GetDownloadDirectory(), "clip.mp4")
	require.Eventually(t, func() bool {
		data, err := os.ReadFile(target)
		return err == nil && string(data) == "video bytes"
	}, waitTimeout, 5*time.Millisecond)

	ui.files.mu.Lock()
	defer ui.files.mu.Unlock()
	assert.Equal(t, []string{"T"}, ui.files.tokens)
}

func TestReady_AutoSave(t *testing.T) {
	ui := newTestUI(t)
	ui.settings.SetAutoSaveOnReady(true)
	ui.ctrl.snap = model.Snapshot{Phase: model.PhaseReady, Status: model.JobStatus{State: model.JobStateCompleted, Token: "T"}}

	ui.render(model.Projection{Section: model.SectionDownloadReady, Percent: 100, InfoEnabled: true})

	target := filepath.Join(ui.settings.GetDownloadDirectory(), "clip.mp4")
	require.Eventually(t, func() bool {
		_, err := os.Stat(target)
		return err == nil
	}, waitTimeout, 5*time.Millisecond)
}

func TestLanguageChange(t *testing.T) {
	ui := newTestUI(t)

	ui.onLanguageChange("ru")

	assert.Equal(t, "ru", ui.settings.GetLanguage())
	assert.Equal(t, "Скачать", ui.downloadBtn.Text)
	assert.Equal(t, "Получить информацию", ui.infoBtn.Text)
}
