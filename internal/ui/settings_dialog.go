package ui

import (
	"fmt"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/dialog"
	"fyne.io/fyne/v2/widget"

	"github.com/ytget/yt-web-client/internal/config"
	"github.com/ytget/yt-web-client/internal/model"
)

// SettingsDialog represents the settings configuration dialog
type SettingsDialog struct {
	settings     *config.Settings
	localization *Localization
	window       fyne.Window
	dialog       *dialog.ConfirmDialog
	onSaved      func(serverChanged bool)

	// UI components
	serverEntry      *widget.Entry
	downloadDirEntry *widget.Entry
	qualitySelect    *widget.Select
	languageSelect   *widget.Select
	autoSaveCheck    *widget.Check
	autoRevealCheck  *widget.Check

	languageCodes map[string]string // display name -> code
	serverChanged bool
}

// NewSettingsDialog creates a new settings dialog
func NewSettingsDialog(settings *config.Settings, localization *Localization, window fyne.Window, onSaved func(serverChanged bool)) *SettingsDialog {
	sd := &SettingsDialog{
		settings:     settings,
		localization: localization,
		window:       window,
		onSaved:      onSaved,
	}

	sd.createUI()
	return sd
}

// Show displays the settings dialog
func (sd *SettingsDialog) Show() {
	sd.loadCurrentSettings()
	sd.dialog.Show()
}

// createUI creates the settings dialog UI
func (sd *SettingsDialog) createUI() {
	text := sd.localization.GetText

	sd.serverEntry = widget.NewEntry()
	sd.serverEntry.SetPlaceHolder(config.DefaultServerURL)

	sd.downloadDirEntry = widget.NewEntry()
	browseDirBtn := widget.NewButton(text(KeyBrowse), sd.onBrowseDirectory)
	downloadDirRow := container.NewBorder(nil, nil, nil, browseDirBtn, sd.downloadDirEntry)

	qualityOptions := []string{}
	for _, q := range sd.settings.GetQualityOptions() {
		qualityOptions = append(qualityOptions, q.String())
	}
	sd.qualitySelect = widget.NewSelect(qualityOptions, nil)

	sd.languageCodes = make(map[string]string)
	languageOptions := []string{}
	for code, label := range sd.settings.GetLanguageOptions() {
		sd.languageCodes[label] = code
		languageOptions = append(languageOptions, label)
	}
	sd.languageSelect = widget.NewSelect(languageOptions, nil)

	sd.autoSaveCheck = widget.NewCheck(text(KeyAutoSave), nil)
	sd.autoRevealCheck = widget.NewCheck(text(KeyAutoReveal), nil)

	form := container.NewVBox(
		widget.NewLabel(text(KeyServerURL)+":"),
		sd.serverEntry,

		widget.NewLabel(text(KeyDownloadDirectory)+":"),
		downloadDirRow,

		widget.NewLabel(text(KeyQuality)+":"),
		sd.qualitySelect,

		sd.autoSaveCheck,
		sd.autoRevealCheck,

		widget.NewSeparator(),

		widget.NewLabel(text(KeyLanguage)+":"),
		sd.languageSelect,
	)

	sd.dialog = dialog.NewCustomConfirm(
		text(KeySettings),
		text(KeySave),
		text(KeyCancel),
		form,
		sd.onSave,
		sd.window,
	)

	sd.dialog.Resize(fyne.NewSize(500, 460))
}

// loadCurrentSettings loads current settings into the UI
func (sd *SettingsDialog) loadCurrentSettings() {
	sd.serverEntry.SetText(sd.settings.GetServerURL())
	sd.downloadDirEntry.SetText(sd.settings.GetDownloadDirectory())
	sd.qualitySelect.SetSelected(sd.settings.GetQuality().String())
	sd.autoSaveCheck.SetChecked(sd.settings.GetAutoSaveOnReady())
	sd.autoRevealCheck.SetChecked(sd.settings.GetAutoRevealOnSave())

	current := sd.settings.GetLanguage()
	for label, code := range sd.languageCodes {
		if code == current {
			sd.languageSelect.SetSelected(label)
		}
	}
}

// onBrowseDirectory handles directory browsing
func (sd *SettingsDialog) onBrowseDirectory() {
	dialog.ShowFolderOpen(func(uri fyne.ListableURI, err error) {
		if err != nil || uri == nil {
			return
		}
		sd.downloadDirEntry.SetText(uri.Path())
	}, sd.window)
}

// onSave handles saving the settings
func (sd *SettingsDialog) onSave(confirmed bool) {
	if !confirmed {
		return
	}
	if !sd.apply() {
		return
	}
	if sd.onSaved != nil {
		sd.onSaved(sd.serverChanged)
	}
}

// apply stores the edited values and reports whether they were all accepted
func (sd *SettingsDialog) apply() bool {
	sd.serverChanged = false
	if server := sd.serverEntry.Text; server != "" && server != sd.settings.GetServerURL() {
		if err := sd.settings.SetServerURL(server); err != nil {
			dialog.ShowError(fmt.Errorf("%s: %w", sd.localization.GetText(KeyInvalidServerURL), err), sd.window)
			return false
		}
		sd.serverChanged = true
	}

	if dir := sd.downloadDirEntry.Text; dir != "" {
		sd.settings.SetDownloadDirectory(dir)
	}

	if q, err := model.ParseQuality(sd.qualitySelect.Selected); err == nil {
		sd.settings.SetQuality(q)
	}

	sd.settings.SetAutoSaveOnReady(sd.autoSaveCheck.Checked)
	sd.settings.SetAutoRevealOnSave(sd.autoRevealCheck.Checked)

	if code, ok := sd.languageCodes[sd.languageSelect.Selected]; ok {
		sd.settings.SetLanguage(code)
		sd.localization.SetLanguage(code)
	}
	return true
}
