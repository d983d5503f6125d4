package ui

// Localization manages UI text translations
type Localization struct {
	currentLanguage string
	texts           map[string]map[string]string
}

// Text keys for localization
const (
	KeyAppTitle          = "app_title"
	KeyGetInfo           = "get_info"
	KeyFetchingInfo      = "fetching_info"
	KeyQuality           = "quality"
	KeyDownload          = "download"
	KeyNewDownload       = "new_download"
	KeyRetry             = "retry"
	KeyDownloadReady     = "download_ready"
	KeyOpenLink          = "open_link"
	KeySaveToFolder      = "save_to_folder"
	KeySaving            = "saving"
	KeySavedTo           = "saved_to"
	KeyReveal            = "reveal"
	KeyOpenFile          = "open_file"
	KeyLinkUsed          = "link_used"
	KeySettings          = "settings"
	KeyFile              = "file"
	KeyLanguage          = "language"
	KeyServerURL         = "server_url"
	KeyDownloadDirectory = "download_directory"
	KeyAutoSave          = "auto_save"
	KeyAutoReveal        = "auto_reveal"
	KeySave              = "save"
	KeyCancel            = "cancel"
	KeyBrowse            = "browse"
	KeyEnterURL          = "enter_url"
	KeySettingsSaved     = "settings_saved"
	KeyServerURLRestart  = "server_url_restart"
	KeyInvalidServerURL  = "invalid_server_url"
	KeyErrorOpeningFile  = "error_opening_file"
	KeyErrorSavingFile   = "error_saving_file"
	KeyErrorOpeningLink  = "error_opening_link"
)

// NewLocalization creates a new localization manager
func NewLocalization() *Localization {
	l := &Localization{
		currentLanguage: "en",
		texts:           make(map[string]map[string]string),
	}

	l.initializeTexts()
	return l
}

// SetLanguage sets the current language
func (l *Localization) SetLanguage(lang string) {
	if lang == "system" {
		// Use system locale - simplified to English for now
		lang = "en"
	}

	if _, exists := l.texts[lang]; exists {
		l.currentLanguage = lang
	}
}

// GetText returns localized text for the given key
func (l *Localization) GetText(key string) string {
	if texts, exists := l.texts[l.currentLanguage]; exists {
		if text, found := texts[key]; found {
			return text
		}
	}

	// Fallback to English
	if texts, exists := l.texts["en"]; exists {
		if text, found := texts[key]; found {
			return text
		}
	}

	// Final fallback - return key itself
	return key
}

// GetCurrentLanguage returns the current language code
func (l *Localization) GetCurrentLanguage() string {
	return l.currentLanguage
}

// GetAvailableLanguages returns map of available languages with their display names
func (l *Localization) GetAvailableLanguages() map[string]string {
	return map[string]string{
		"en": "English",
		"ru": "Русский",
		"pt": "Português",
	}
}

// initializeTexts initializes all text translations. Messages produced by the
// controller and the server are shown as received.
func (l *Localization) initializeTexts() {
	// English texts
	l.texts["en"] = map[string]string{
		KeyAppTitle:          "YT Web Client",
		KeyGetInfo:           "Get Video Info",
		KeyFetchingInfo:      "Fetching info...",
		KeyQuality:           "Quality",
		KeyDownload:          "Download",
		KeyNewDownload:       "New Download",
		KeyRetry:             "Try Again",
		KeyDownloadReady:     "Your download is ready",
		KeyOpenLink:          "Open Link",
		KeySaveToFolder:      "Save to Folder",
		KeySaving:            "Saving...",
		KeySavedTo:           "Saved to",
		KeyReveal:            "Show in Folder",
		KeyOpenFile:          "Open File",
		KeyLinkUsed:          "The download link has been used",
		KeySettings:          "Settings",
		KeyFile:              "File",
		KeyLanguage:          "Language",
		KeyServerURL:         "Server URL",
		KeyDownloadDirectory: "Download Directory",
		KeyAutoSave:          "Save automatically when ready",
		KeyAutoReveal:        "Show saved file in folder",
		KeySave:              "Save",
		KeyCancel:            "Cancel",
		KeyBrowse:            "Browse",
		KeyEnterURL:          "Enter YouTube URL (https://youtube.com/watch?v=...)",
		KeySettingsSaved:     "Settings saved successfully!",
		KeyServerURLRestart:  "The new server URL is used after restart",
		KeyInvalidServerURL:  "Invalid server URL",
		KeyErrorOpeningFile:  "Error opening file",
		KeyErrorSavingFile:   "Error saving file",
		KeyErrorOpeningLink:  "Error opening link",
	}

	// Russian texts
	l.texts["ru"] = map[string]string{
		KeyAppTitle:          "YT Веб-клиент",
		KeyGetInfo:           "Получить информацию",
		KeyFetchingInfo:      "Загрузка информации...",
		KeyQuality:           "Качество",
		KeyDownload:          "Скачать",
		KeyNewDownload:       "Новая загрузка",
		KeyRetry:             "Повторить",
		KeyDownloadReady:     "Файл готов к загрузке",
		KeyOpenLink:          "Открыть ссылку",
		KeySaveToFolder:      "Сохранить в папку",
		KeySaving:            "Сохранение...",
		KeySavedTo:           "Сохранено в",
		KeyReveal:            "Показать в папке",
		KeyOpenFile:          "Открыть файл",
		KeyLinkUsed:          "Ссылка на загрузку уже использована",
		KeySettings:          "Настройки",
		KeyFile:              "Файл",
		KeyLanguage:          "Язык",
		KeyServerURL:         "Адрес сервера",
		KeyDownloadDirectory: "Папка загрузки",
		KeyAutoSave:          "Сохранять автоматически",
		KeyAutoReveal:        "Показывать сохранённый файл",
		KeySave:              "Сохранить",
		KeyCancel:            "Отмена",
		KeyBrowse:            "Обзор",
		KeyEnterURL:          "Введите URL YouTube (https://youtube.com/watch?v=...)",
		KeySettingsSaved:     "Настройки успешно сохранены!",
		KeyServerURLRestart:  "Новый адрес сервера будет использован после перезапуска",
		KeyInvalidServerURL:  "Неверный адрес сервера",
		KeyErrorOpeningFile:  "Ошибка открытия файла",
		KeyErrorSavingFile:   "Ошибка сохранения файла",
		KeyErrorOpeningLink:  "Ошибка открытия ссылки",
	}

	// Portuguese texts
	l.texts["pt"] = map[string]string{
		KeyAppTitle:          "YT Web Client",
		KeyGetInfo:           "Obter Informações",
		KeyFetchingInfo:      "Obtendo informações...",
		KeyQuality:           "Qualidade",
		KeyDownload:          "Baixar",
		KeyNewDownload:       "Novo Download",
		KeyRetry:             "Tentar Novamente",
		KeyDownloadReady:     "Seu download está pronto",
		KeyOpenLink:          "Abrir Link",
		KeySaveToFolder:      "Salvar na Pasta",
		KeySaving:            "Salvando...",
		KeySavedTo:           "Salvo em",
		KeyReveal:            "Mostrar na Pasta",
		KeyOpenFile:          "Abrir Arquivo",
		KeyLinkUsed:          "O link de download já foi usado",
		KeySettings:          "Configurações",
		KeyFile:              "Arquivo",
		KeyLanguage:          "Idioma",
		KeyServerURL:         "URL do Servidor",
		KeyDownloadDirectory: "Diretório de Download",
		KeyAutoSave:          "Salvar automaticamente",
		KeyAutoReveal:        "Mostrar arquivo salvo na pasta",
		KeySave:              "Salvar",
		KeyCancel:            "Cancelar",
		KeyBrowse:            "Navegar",
		KeyEnterURL:          "Digite URL do YouTube (https://youtube.com/watch?v=...)",
		KeySettingsSaved:     "Configurações salvas com sucesso!",
		KeyServerURLRestart:  "A nova URL do servidor será usada após reiniciar",
		KeyInvalidServerURL:  "URL do servidor inválida",
		KeyErrorOpeningFile:  "Erro ao abrir arquivo",
		KeyErrorSavingFile:   "Erro ao salvar arquivo",
		KeyErrorOpeningLink:  "Erro ao abrir link",
	}
}
