package controller

import "strings"

// Hosts accepted by ValidateURL. Matching is a plain substring test.
var acceptedHosts = []string{"youtube.com", "youtu.be"}

// ValidateURL trims raw and checks that it names a supported video host. It does not
// parse the URL: anything containing an accepted host passes.
func ValidateURL(raw string) (string, error) {
	u := strings.TrimSpace(raw)
	if u == "" {
		return "", &ValidationError{Input: raw, Message: MsgEmptyURL}
	}
	for _, host := range acceptedHosts {
		if strings.Contains(u, host) {
			return u, nil
		}
	}
	return "", &ValidationError{Input: raw, Message: MsgInvalidURL}
}
