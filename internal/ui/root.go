package ui

import (
	"context"
	"errors"
	"fmt"
	"net/url"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/canvas"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/dialog"
	"fyne.io/fyne/v2/widget"
	"github.com/rs/zerolog"

	"github.com/ytget/yt-web-client/internal/api"
	"github.com/ytget/yt-web-client/internal/config"
	"github.com/ytget/yt-web-client/internal/controller"
	"github.com/ytget/yt-web-client/internal/model"
	"github.com/ytget/yt-web-client/internal/platform"
)

// Controller is the job lifecycle the window drives
type Controller interface {
	FetchInfo(ctx context.Context, raw string) error
	SubmitJob(ctx context.Context, quality model.Quality) error
	Reset()
	OpenDownloadLink() string
	Snapshot() model.Snapshot
	Projection() model.Projection
	SetUpdateCallback(callback func(model.Projection))
}

// FileFetcher opens the one-time file stream behind a ready link
type FileFetcher interface {
	FetchFile(ctx context.Context, token string) (*api.File, error)
}

// RootUI represents the main UI structure. Every field below is touched only on
// the Fyne main goroutine.
type RootUI struct {
	window       fyne.Window
	app          fyne.App
	ctrl         Controller
	files        FileFetcher
	settings     *config.Settings
	localization *Localization
	logger       zerolog.Logger

	ctx    context.Context
	cancel context.CancelFunc

	urlEntry    *widget.Entry
	infoBtn     *widget.Button
	infoSpinner *widget.ProgressBarInfinite

	// Video info section
	videoSection  *fyne.Container
	thumbnail     *canvas.Image
	titleLabel    *widget.Label
	detailsLabel  *widget.Label
	qualityLabel  *widget.Label
	qualitySelect *widget.Select
	downloadBtn   *widget.Button

	// Progress section
	progressSection *fyne.Container
	progressBar     *widget.ProgressBar
	progressLabel   *widget.Label

	// Download ready section
	readySection   *fyne.Container
	readyLabel     *widget.Label
	openLinkBtn    *widget.Button
	saveBtn        *widget.Button
	savedLabel     *widget.Label
	revealBtn      *widget.Button
	openFileBtn    *widget.Button
	noticeLabel    *widget.Label
	newDownloadBtn *widget.Button

	// Error section
	errorSection *fyne.Container
	errorLabel   *widget.Label
	retryBtn     *widget.Button

	last         model.Projection
	thumbnailURL string
	readyGen     int // bumped each time the ready section is entered
	linkUsed     bool
	saving       bool
	savedPath    string
}

// NewRootUI creates and initializes the main UI
func NewRootUI(window fyne.Window, app fyne.App, ctrl Controller, files FileFetcher, settings *config.Settings, logger zerolog.Logger) *RootUI {
	localization := NewLocalization()
	localization.SetLanguage(settings.GetLanguage())

	ctx, cancel := context.WithCancel(context.Background())
	ui := &RootUI{
		window:       window,
		app:          app,
		ctrl:         ctrl,
		files:        files,
		settings:     settings,
		localization: localization,
		logger:       logger,
		ctx:          ctx,
		cancel:       cancel,
	}

	window.SetTitle(localization.GetText(KeyAppTitle))
	ui.setupUI()

	ctrl.SetUpdateCallback(ui.onUpdate)
	ui.render(ctrl.Projection())
	return ui
}

// Close cancels requests started from the window
func (ui *RootUI) Close() {
	ui.cancel()
}

// setupUI creates and arranges all UI components
func (ui *RootUI) setupUI() {
	ui.createMenu()

	ui.urlEntry = widget.NewEntry()
	ui.urlEntry.SetPlaceHolder(ui.localization.GetText(KeyEnterURL))
	ui.urlEntry.OnSubmitted = func(string) {
		ui.onGetInfo()
	}

	ui.infoBtn = widget.NewButton(ui.localization.GetText(KeyGetInfo), ui.onGetInfo)
	ui.infoBtn.Importance = widget.HighImportance
	ui.infoSpinner = widget.NewProgressBarInfinite()
	ui.infoSpinner.Hide()

	settingsBtn := widget.NewButton(IconSettings, ui.onShowSettings)
	settingsBtn.Importance = widget.LowImportance

	left := container.NewHBox(settingsBtn)
	if logo, err := LoadLogoResource(); err == nil {
		logoImage := canvas.NewImageFromResource(logo)
		logoImage.SetMinSize(fyne.NewSize(LogoSize, LogoSize))
		logoImage.FillMode = canvas.ImageFillContain
		left = container.NewHBox(logoImage, settingsBtn)
	}
	topPanel := container.NewVBox(
		container.NewBorder(nil, nil, left, ui.infoBtn, ui.urlEntry),
		ui.infoSpinner,
	)

	ui.videoSection = ui.createVideoSection()
	ui.progressSection = ui.createProgressSection()
	ui.readySection = ui.createReadySection()
	ui.errorSection = ui.createErrorSection()

	content := container.NewBorder(
		topPanel,
		nil, nil, nil,
		container.NewVScroll(container.NewVBox(
			ui.videoSection,
			ui.progressSection,
			ui.readySection,
			ui.errorSection,
		)),
	)
	ui.window.SetContent(content)
}

func (ui *RootUI) createVideoSection() *fyne.Container {
	ui.thumbnail = canvas.NewImageFromResource(nil)
	ui.thumbnail.FillMode = canvas.ImageFillContain
	ui.thumbnail.SetMinSize(fyne.NewSize(ThumbnailWidth, ThumbnailHeight))

	ui.titleLabel = widget.NewLabel("")
	ui.titleLabel.TextStyle = fyne.TextStyle{Bold: true}
	ui.titleLabel.Wrapping = fyne.TextWrapWord
	ui.detailsLabel = widget.NewLabel("")

	options := make([]string, 0, len(ui.settings.GetQualityOptions()))
	for _, q := range ui.settings.GetQualityOptions() {
		options = append(options, q.String())
	}
	ui.qualitySelect = widget.NewSelect(options, nil)
	ui.qualitySelect.SetSelected(ui.settings.GetQuality().String())
	ui.qualityLabel = widget.NewLabel(ui.localization.GetText(KeyQuality))

	ui.downloadBtn = widget.NewButton(ui.localization.GetText(KeyDownload), ui.onDownload)
	ui.downloadBtn.Importance = widget.HighImportance

	details := container.NewVBox(
		ui.titleLabel,
		ui.detailsLabel,
		container.NewHBox(ui.qualityLabel, ui.qualitySelect, ui.downloadBtn),
	)
	return container.NewBorder(nil, nil, ui.thumbnail, nil, details)
}

func (ui *RootUI) createProgressSection() *fyne.Container {
	ui.progressBar = widget.NewProgressBar()
	ui.progressBar.Max = 100
	ui.progressBar.TextFormatter = func() string {
		return fmt.Sprintf(ProgressLabelFormat, int(ui.progressBar.Value))
	}
	ui.progressLabel = widget.NewLabel("")
	return container.NewVBox(ui.progressBar, ui.progressLabel)
}

func (ui *RootUI) createReadySection() *fyne.Container {
	ui.readyLabel = widget.NewLabel(ui.localization.GetText(KeyDownloadReady))
	ui.readyLabel.TextStyle = fyne.TextStyle{Bold: true}

	ui.openLinkBtn = widget.NewButton(ui.localization.GetText(KeyOpenLink), ui.onOpenLink)
	ui.openLinkBtn.Importance = widget.HighImportance
	ui.saveBtn = widget.NewButton(IconFolder+" "+ui.localization.GetText(KeySaveToFolder), ui.onSave)

	ui.savedLabel = widget.NewLabel("")
	ui.savedLabel.Wrapping = fyne.TextWrapBreak
	ui.revealBtn = widget.NewButton(ui.localization.GetText(KeyReveal), ui.onReveal)
	ui.openFileBtn = widget.NewButton(ui.localization.GetText(KeyOpenFile), ui.onOpenFile)
	ui.revealBtn.Hide()
	ui.openFileBtn.Hide()

	ui.noticeLabel = widget.NewLabel("")
	ui.noticeLabel.Wrapping = fyne.TextWrapWord
	ui.noticeLabel.Hide()

	ui.newDownloadBtn = widget.NewButton(ui.localization.GetText(KeyNewDownload), ui.onReset)

	return container.NewVBox(
		ui.readyLabel,
		container.NewHBox(ui.openLinkBtn, ui.saveBtn),
		ui.noticeLabel,
		ui.savedLabel,
		container.NewHBox(ui.revealBtn, ui.openFileBtn),
		ui.newDownloadBtn,
	)
}

func (ui *RootUI) createErrorSection() *fyne.Container {
	ui.errorLabel = widget.NewLabel("")
	ui.errorLabel.Wrapping = fyne.TextWrapWord
	ui.errorLabel.Importance = widget.DangerImportance
	ui.retryBtn = widget.NewButton(ui.localization.GetText(KeyRetry), ui.onReset)

	return container.NewVBox(
		container.NewHBox(widget.NewLabel(IconError), ui.errorLabel),
		ui.retryBtn,
	)
}

// createMenu creates the application menu
func (ui *RootUI) createMenu() {
	settingsItem := fyne.NewMenuItem(ui.localization.GetText(KeySettings), ui.onShowSettings)

	languageMenu := fyne.NewMenu(ui.localization.GetText(KeyLanguage))
	for code, name := range ui.localization.GetAvailableLanguages() {
		langItem := fyne.NewMenuItem(name, func() {
			ui.onLanguageChange(code)
		})
		if ui.localization.GetCurrentLanguage() == code {
			langItem.Checked = true
		}
		languageMenu.Items = append(languageMenu.Items, langItem)
	}

	ui.window.SetMainMenu(fyne.NewMainMenu(
		fyne.NewMenu(ui.localization.GetText(KeyFile), settingsItem),
		languageMenu,
	))
}

// onLanguageChange handles language change
func (ui *RootUI) onLanguageChange(langCode string) {
	ui.localization.SetLanguage(langCode)
	ui.settings.SetLanguage(langCode)
	ui.refreshUITexts()

	// Recreate menu to update checkmarks
	ui.createMenu()
}

// refreshUITexts updates all UI texts with current language
func (ui *RootUI) refreshUITexts() {
	ui.window.SetTitle(ui.localization.GetText(KeyAppTitle))

	ui.urlEntry.SetPlaceHolder(ui.localization.GetText(KeyEnterURL))
	ui.qualityLabel.SetText(ui.localization.GetText(KeyQuality))
	ui.downloadBtn.SetText(ui.localization.GetText(KeyDownload))
	ui.readyLabel.SetText(ui.localization.GetText(KeyDownloadReady))
	ui.openLinkBtn.SetText(ui.localization.GetText(KeyOpenLink))
	ui.revealBtn.SetText(ui.localization.GetText(KeyReveal))
	ui.openFileBtn.SetText(ui.localization.GetText(KeyOpenFile))
	ui.newDownloadBtn.SetText(ui.localization.GetText(KeyNewDownload))
	ui.retryBtn.SetText(ui.localization.GetText(KeyRetry))
	ui.render(ui.last)
}

// onGetInfo validates the entered URL and fetches its details
func (ui *RootUI) onGetInfo() {
	raw := ui.urlEntry.Text
	go func() {
		ui.logFlow("info", ui.ctrl.FetchInfo(ui.ctx, raw))
	}()
}

// onDownload submits the job with the selected quality
func (ui *RootUI) onDownload() {
	quality, err := model.ParseQuality(ui.qualitySelect.Selected)
	if err != nil {
		quality = ui.settings.GetQuality()
	}
	ui.settings.SetQuality(quality)

	go func() {
		ui.logFlow("download", ui.ctrl.SubmitJob(ui.ctx, quality))
	}()
}

// onReset returns to the empty form
func (ui *RootUI) onReset() {
	ui.ctrl.Reset()
}

// logFlow records flow errors; the controller already projected them
func (ui *RootUI) logFlow(flow string, err error) {
	switch {
	case err == nil:
	case errors.Is(err, controller.ErrSuperseded), errors.Is(err, context.Canceled):
		ui.logger.Debug().Err(err).Str("flow", flow).Msg("flow abandoned")
	default:
		ui.logger.Info().Err(err).Str("flow", flow).Msg("flow failed")
	}
}

// onUpdate receives projections from the controller goroutines
func (ui *RootUI) onUpdate(p model.Projection) {
	fyne.Do(func() {
		ui.render(p)
	})
}

// render shows exactly the section the projection asks for
func (ui *RootUI) render(p model.Projection) {
	prev := ui.last
	ui.last = p

	if p.InfoBusy {
		ui.infoBtn.SetText(ui.localization.GetText(KeyFetchingInfo))
		ui.infoSpinner.Show()
	} else {
		ui.infoBtn.SetText(ui.localization.GetText(KeyGetInfo))
		ui.infoSpinner.Hide()
	}
	setEnabled(ui.infoBtn, p.InfoEnabled && !p.InfoBusy)
	setEnabled(ui.downloadBtn, p.DownloadEnabled)

	if p.Section == model.SectionHiddenAll && !p.InfoBusy && (prev.Section != model.SectionHiddenAll || prev.InfoBusy) {
		ui.urlEntry.SetText("")
	}

	setVisible(ui.videoSection, p.Section == model.SectionVideoInfo)
	setVisible(ui.progressSection, p.Section == model.SectionProgress)
	setVisible(ui.readySection, p.Section == model.SectionDownloadReady)
	setVisible(ui.errorSection, p.Section == model.SectionError)

	switch p.Section {
	case model.SectionVideoInfo:
		ui.renderVideo(p.Video)
	case model.SectionProgress:
		ui.progressBar.SetValue(float64(p.Percent))
		ui.progressLabel.SetText(p.ProgressText)
	case model.SectionDownloadReady:
		ui.progressBar.SetValue(float64(p.Percent))
		if prev.Section != model.SectionDownloadReady {
			ui.enterReady()
		}
		ui.noticeLabel.SetText(p.Notice)
		setVisible(ui.noticeLabel, p.Notice != "")
		ui.renderReadyButtons()
	case model.SectionError:
		ui.errorLabel.SetText(p.ErrorMessage)
	}
}

func (ui *RootUI) renderVideo(v *model.VideoCard) {
	if v == nil {
		return
	}
	ui.titleLabel.SetText(v.Title)
	details := v.Duration
	if v.Uploader != "" {
		details = v.Uploader + MiddleDotSeparator + v.Duration
	}
	ui.detailsLabel.SetText(details)
	ui.loadThumbnail(v.ThumbnailURL)
}

// loadThumbnail fetches the preview image off the main goroutine
func (ui *RootUI) loadThumbnail(thumbURL string) {
	if thumbURL == ui.thumbnailURL {
		return
	}
	ui.thumbnailURL = thumbURL
	ui.thumbnail.Resource = nil
	ui.thumbnail.Refresh()
	if thumbURL == "" {
		return
	}

	go func() {
		res, err := fyne.LoadResourceFromURLString(thumbURL)
		if err != nil {
			ui.logger.Debug().Err(err).Str("url", thumbURL).Msg("thumbnail not loaded")
			return
		}
		fyne.Do(func() {
			if ui.thumbnailURL != thumbURL {
				return
			}
			ui.thumbnail.Resource = res
			ui.thumbnail.Refresh()
		})
	}()
}

// enterReady resets per-link state and starts the automatic save when enabled
func (ui *RootUI) enterReady() {
	ui.readyGen++
	ui.linkUsed = false
	ui.saving = false
	ui.savedPath = ""
	ui.savedLabel.SetText("")
	ui.revealBtn.Hide()
	ui.openFileBtn.Hide()

	if ui.settings.GetAutoSaveOnReady() {
		ui.onSave()
	}
}

func (ui *RootUI) renderReadyButtons() {
	ui.saveBtn.SetText(IconFolder + " " + ui.localization.GetText(KeySaveToFolder))
	if ui.saving {
		ui.saveBtn.SetText(ui.localization.GetText(KeySaving))
	}
	setEnabled(ui.openLinkBtn, !ui.linkUsed)
	setEnabled(ui.saveBtn, !ui.linkUsed)
	if ui.linkUsed && ui.savedPath == "" && !ui.saving && ui.savedLabel.Text == "" {
		ui.savedLabel.SetText(ui.localization.GetText(KeyLinkUsed))
	}
}

// onOpenLink hands the one-time link to the browser
func (ui *RootUI) onOpenLink() {
	link := ui.ctrl.OpenDownloadLink()
	if link == "" {
		return
	}
	u, err := url.Parse(link)
	if err == nil {
		err = ui.app.OpenURL(u)
	}
	if err != nil {
		ui.logger.Warn().Err(err).Str("url", link).Msg("cannot open download link")
		dialog.ShowError(fmt.Errorf("%s: %w", ui.localization.GetText(KeyErrorOpeningLink), err), ui.window)
		return
	}
	ui.linkUsed = true
	ui.renderReadyButtons()
}

// onSave streams the file into the download directory
func (ui *RootUI) onSave() {
	if ui.linkUsed || ui.saving {
		return
	}
	token := ui.ctrl.Snapshot().Status.Token
	if token == "" {
		return
	}
	ui.linkUsed = true
	ui.saving = true
	ui.renderReadyButtons()

	gen := ui.readyGen
	dir := ui.settings.GetDownloadDirectory()
	go func() {
		path, err := ui.saveFile(ui.ctx, token, dir)
		fyne.Do(func() {
			ui.onSaved(gen, path, err)
		})
	}()
}

func (ui *RootUI) saveFile(ctx context.Context, token, dir string) (string, error) {
	if err := platform.CreateDirectoryIfNotExists(dir); err != nil {
		return "", fmt.Errorf("create download directory: %w", err)
	}
	f, err := ui.files.FetchFile(ctx, token)
	if err != nil {
		return "", err
	}
	defer f.Body.Close()

	path, n, err := platform.SaveStream(dir, f.Name, f.Body)
	if err != nil {
		return "", err
	}
	ui.logger.Info().Str("path", path).Int64("bytes", n).Msg("file saved")
	return path, nil
}

func (ui *RootUI) onSaved(gen int, path string, err error) {
	if gen != ui.readyGen {
		return
	}
	ui.saving = false
	if err != nil {
		ui.logger.Warn().Err(err).Msg("save failed")
		ui.savedLabel.SetText(ui.localization.GetText(KeyErrorSavingFile) + ": " + controller.UserMessage(err, err.Error()))
		ui.renderReadyButtons()
		return
	}

	ui.savedPath = path
	ui.savedLabel.SetText(ui.localization.GetText(KeySavedTo) + ": " + path)
	ui.revealBtn.Show()
	ui.openFileBtn.Show()
	ui.renderReadyButtons()

	if ui.settings.GetAutoRevealOnSave() {
		ui.onReveal()
	}
}

// onReveal handles revealing the saved file in the system file manager
func (ui *RootUI) onReveal() {
	if ui.savedPath == "" {
		return
	}
	if err := platform.OpenFileInManager(ui.savedPath); err != nil {
		ui.logger.Warn().Err(err).Str("path", ui.savedPath).Msg("reveal failed")
		dialog.ShowError(fmt.Errorf("%s: %w", ui.localization.GetText(KeyErrorOpeningFile), err), ui.window)
	}
}

// onOpenFile opens the saved file with the default application
func (ui *RootUI) onOpenFile() {
	if ui.savedPath == "" {
		return
	}
	if err := platform.OpenFileWithDefaultApp(ui.savedPath); err != nil {
		ui.logger.Warn().Err(err).Str("path", ui.savedPath).Msg("open failed")
		dialog.ShowError(fmt.Errorf("%s: %w", ui.localization.GetText(KeyErrorOpeningFile), err), ui.window)
	}
}

// onShowSettings shows the settings dialog
func (ui *RootUI) onShowSettings() {
	NewSettingsDialog(ui.settings, ui.localization, ui.window, func(serverChanged bool) {
		ui.qualitySelect.SetSelected(ui.settings.GetQuality().String())
		msg := ui.localization.GetText(KeySettingsSaved)
		if serverChanged {
			msg += "\n" + ui.localization.GetText(KeyServerURLRestart)
		}
		dialog.ShowInformation(ui.localization.GetText(KeySettings), msg, ui.window)
	}).Show()
}

func setEnabled(w fyne.Disableable, enabled bool) {
	if enabled {
		w.Enable()
	} else {
		w.Disable()
	}
}

func setVisible(o fyne.CanvasObject, visible bool) {
	if visible {
		o.Show()
	} else {
		o.Hide()
	}
}
