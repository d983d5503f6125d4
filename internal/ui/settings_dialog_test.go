package ui

import (
	"testing"

	"fyne.io/fyne/v2/test"

	"github.com/ytget/yt-web-client/internal/config"
	"github.com/ytget/yt-web-client/internal/model"
)

func newTestDialog(t *testing.T) (*SettingsDialog, *config.Settings) {
	t.Helper()
	app := test.NewApp()
	t.Cleanup(app.Quit)

	settings := config.NewSettings(app, config.Default())
	sd := NewSettingsDialog(settings, NewLocalization(), app.NewWindow("settings"), nil)
	sd.loadCurrentSettings()
	return sd, settings
}

func TestSettingsDialog_Apply(t *testing.T) {
	sd, settings := newTestDialog(t)
	dir := t.TempDir()

	sd.serverEntry.SetText("https://yt.example.org")
	sd.downloadDirEntry.SetText(dir)
	sd.qualitySelect.SetSelected("480p")
	sd.autoSaveCheck.SetChecked(true)
	sd.languageSelect.SetSelected("Português")

	if !sd.apply() {
		t.Fatal("expected settings to be accepted")
	}
	if !sd.serverChanged {
		t.Error("expected server change to be reported")
	}
	if got := settings.GetServerURL(); got != "https://yt.example.org" {
		t.Errorf("expected server URL to be stored, got %s", got)
	}
	if got := settings.GetDownloadDirectory(); got != dir {
		t.Errorf("expected download directory %s, got %s", dir, got)
	}
	if got := settings.GetQuality(); got != model.Quality480p {
		t.Errorf("expected quality 480p, got %s", got)
	}
	if !settings.GetAutoSaveOnReady() {
		t.Error("expected auto save to be enabled")
	}
	if got := settings.GetLanguage(); got != "pt" {
		t.Errorf("expected language pt, got %s", got)
	}
}

func TestSettingsDialog_RejectsInvalidServer(t *testing.T) {
	sd, settings := newTestDialog(t)
	before := settings.GetServerURL()

	sd.serverEntry.SetText("not a url")
	if sd.apply() {
		t.Fatal("expected invalid server URL to be rejected")
	}
	if got := settings.GetServerURL(); got != before {
		t.Errorf("server URL should stay %s, got %s", before, got)
	}
}

func TestSettingsDialog_UnchangedServer(t *testing.T) {
	sd, _ := newTestDialog(t)

	if !sd.apply() {
		t.Fatal("expected unchanged settings to be accepted")
	}
	if sd.serverChanged {
		t.Error("unchanged server URL should not be reported")
	}
}
