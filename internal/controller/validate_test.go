package controller

import (
	"errors"
	"testing"
)

func TestValidateURL(t *testing.T) {
	tests := []struct {
		input    string
		expected string
		message  string
	}{
		{"https://www.youtube.com/watch?v=abc", "https://www.youtube.com/watch?v=abc", ""},
		{"  https://youtu.be/abc\n", "https://youtu.be/abc", ""},
		{"youtube.com", "youtube.com", ""},
		{"https://m.youtube.com/shorts/xyz", "https://m.youtube.com/shorts/xyz", ""},
		// substring match only: hosts elsewhere in the text pass, odd casing does not
		{"https://example.com/?ref=youtube.com", "https://example.com/?ref=youtube.com", ""},
		{"https://YOUTUBE.COM/watch?v=abc", "", MsgInvalidURL},
		{"", "", MsgEmptyURL},
		{" \t ", "", MsgEmptyURL},
		{"https://vimeo.com/1", "", MsgInvalidURL},
	}

	for _, test := range tests {
		got, err := ValidateURL(test.input)
		if test.message == "" {
			if err != nil {
				t.Errorf("ValidateURL(%q) unexpected error: %v", test.input, err)
			}
			if got != test.expected {
				t.Errorf("ValidateURL(%q) = %q, expected %q", test.input, got, test.expected)
			}
			continue
		}

		var validation *ValidationError
		if !errors.As(err, &validation) {
			t.Errorf("ValidateURL(%q) expected ValidationError, got %v", test.input, err)
			continue
		}
		if validation.Message != test.message {
			t.Errorf("ValidateURL(%q) message = %q, expected %q", test.input, validation.Message, test.message)
		}
	}
}
