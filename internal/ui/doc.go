package ui

// Package ui contains the Fyne-based desktop window. It forwards user actions to the
// job lifecycle controller and renders the projections the controller publishes:
// video details, download progress, the ready link and errors. The one-time file
// link can be opened in the browser or saved into the download directory. All UI
// strings are localized via Localization.
