package model

import "testing"

func TestFormatDuration(t *testing.T) {
	tests := []struct {
		seconds  int
		expected string
	}{
		{-1, "0:00"},
		{0, "0:00"},
		{5, "0:05"},
		{59, "0:59"},
		{60, "1:00"},
		{125, "2:05"},
		{3725, "62:05"},
	}

	for _, test := range tests {
		result := FormatDuration(test.seconds)
		if result != test.expected {
			t.Errorf("FormatDuration(%d) = %s, expected %s", test.seconds, result, test.expected)
		}
	}
}

func TestVideoInfo_GetDurationString(t *testing.T) {
	info := &VideoInfo{DurationSeconds: 125}
	if got := info.GetDurationString(); got != "2:05" {
		t.Errorf("GetDurationString() = %s, expected 2:05", got)
	}
}

func TestVideoInfo_GetDisplayTitle(t *testing.T) {
	tests := []struct {
		title    string
		uploader string
		expected string
	}{
		{"Video Title", "Someone", "Video Title"},
		{"Line\nbreak\ttitle", "Someone", "Line break title"},
		{"", "Someone", "Someone"},
		{"  \n", "Someone", "Someone"},
	}

	for _, test := range tests {
		info := &VideoInfo{Title: test.title, Uploader: test.uploader}
		result := info.GetDisplayTitle()
		if result != test.expected {
			t.Errorf("GetDisplayTitle() with title=%q, uploader=%q = %q, expected %q",
				test.title, test.uploader, result, test.expected)
		}
	}
}
