package model

// Package model defines domain data structures shared by the controller, the API
// client and the front ends: video metadata, job status, quality tiers, and the
// projection that tells a front end which section to show.
