// Package log configures the zerolog logger shared by every package and hands out
// component-scoped child loggers.
package log
