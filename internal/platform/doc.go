// Package platform contains OS integration and external tooling glue: the downloads
// directory, atomic saving of fetched files, opening or revealing saved files, and
// playlist expansion through yt-dlp.
package platform
