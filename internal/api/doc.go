// Package api is the HTTP client for the download server: video info, job submit,
// job status, one-time file fetch and health. Failures are reported as
// *NetworkError (transport or undecodable body) or *RemoteError (explicit failure
// from the server).
package api
