// Command ytweb downloads YouTube videos through the web download server without a
// window. It validates the URL, fetches the video details, submits the job, follows
// its progress and saves the one-time file. With -playlist every video of a
// playlist is processed in turn.
package main
