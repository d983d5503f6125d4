package config

import (
	"fyne.io/fyne/v2"

	"github.com/ytget/yt-web-client/internal/model"
	"github.com/ytget/yt-web-client/internal/platform"
)

// Settings keys for Fyne preferences
const (
	KeyServerURL       = "server_url"
	KeyQuality         = "quality"
	KeyDownloadDir     = "download_directory"
	KeyLanguage        = "app_language"
	KeyAutoSaveReady   = "auto_save_on_ready"
	KeyAutoRevealSaved = "auto_reveal_on_save"
)

// Default values
const (
	DefaultLanguage        = "system"
	DefaultAutoSaveReady   = false
	DefaultAutoRevealSaved = true
)

// Settings keeps desktop preferences. Values missing from storage fall back to the
// loaded Config.
type Settings struct {
	app      fyne.App
	defaults Config
}

// NewSettings creates a new settings manager
func NewSettings(app fyne.App, defaults Config) *Settings {
	return &Settings{app: app, defaults: defaults}
}

// GetServerURL returns the API server origin
func (s *Settings) GetServerURL() string {
	if v := s.app.Preferences().String(KeyServerURL); v != "" {
		return v
	}
	return s.defaults.ServerURL
}

// SetServerURL stores the API server origin. Invalid URLs are rejected.
func (s *Settings) SetServerURL(serverURL string) error {
	probe := s.defaults
	probe.ServerURL = serverURL
	if err := probe.Validate(); err != nil {
		return err
	}
	s.app.Preferences().SetString(KeyServerURL, serverURL)
	return nil
}

// GetQuality returns the selected quality tier
func (s *Settings) GetQuality() model.Quality {
	if q, err := model.ParseQuality(s.app.Preferences().String(KeyQuality)); err == nil {
		return q
	}
	return s.defaults.QualityTier()
}

// SetQuality stores the selected quality tier
func (s *Settings) SetQuality(q model.Quality) {
	s.app.Preferences().SetString(KeyQuality, q.String())
}

// GetQualityOptions returns the selectable quality tiers
func (s *Settings) GetQualityOptions() []model.Quality {
	return model.QualityOptions()
}

// GetDownloadDirectory returns where fetched files are saved
func (s *Settings) GetDownloadDirectory() string {
	if dir := s.app.Preferences().String(KeyDownloadDir); dir != "" {
		return dir
	}
	if s.defaults.DownloadDir != "" {
		return s.defaults.DownloadDir
	}
	// Use system default Downloads directory
	dir, err := platform.GetHomeDownloadsDir()
	if err != nil {
		dir = "/tmp/downloads"
	}
	s.SetDownloadDirectory(dir)
	return dir
}

// SetDownloadDirectory sets the download directory
func (s *Settings) SetDownloadDirectory(dir string) {
	s.app.Preferences().SetString(KeyDownloadDir, dir)
}

// GetLanguage returns the configured language
func (s *Settings) GetLanguage() string {
	lang := s.app.Preferences().String(KeyLanguage)
	if lang == "" {
		s.SetLanguage(DefaultLanguage)
		return DefaultLanguage
	}
	return lang
}

// SetLanguage sets the application language
func (s *Settings) SetLanguage(lang string) {
	s.app.Preferences().SetString(KeyLanguage, lang)
}

// GetLanguageOptions returns available language options
func (s *Settings) GetLanguageOptions() map[string]string {
	return map[string]string{
		"system": "System Default",
		"en":     "English",
		"ru":     "Русский",
		"pt":     "Português",
	}
}

// GetAutoSaveOnReady returns whether a ready file is saved without asking
func (s *Settings) GetAutoSaveOnReady() bool {
	return s.app.Preferences().BoolWithFallback(KeyAutoSaveReady, DefaultAutoSaveReady)
}

// SetAutoSaveOnReady sets whether a ready file is saved without asking
func (s *Settings) SetAutoSaveOnReady(v bool) {
	s.app.Preferences().SetBool(KeyAutoSaveReady, v)
}

// GetAutoRevealOnSave returns whether a saved file is shown in the file manager
func (s *Settings) GetAutoRevealOnSave() bool {
	return s.app.Preferences().BoolWithFallback(KeyAutoRevealSaved, DefaultAutoRevealSaved)
}

// SetAutoRevealOnSave sets whether a saved file is shown in the file manager
func (s *Settings) SetAutoRevealOnSave(v bool) {
	s.app.Preferences().SetBool(KeyAutoRevealSaved, v)
}
