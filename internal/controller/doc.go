// Package controller drives one download request through its lifecycle:
// URL validation, video info fetch, job submission, status polling and reset.
//
// A Controller owns its session state. Every mutation produces a model.Projection
// that is handed to the update callback, so front ends only render projections and
// never read session fields directly. Responses that arrive after a reset or after a
// newer flow started are dropped.
package controller
