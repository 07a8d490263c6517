package resendclient

import (
	"errors"
	"testing"
)

func TestIsPermanentError(t *testing.T) {
	cases := map[string]bool{
		"422 validation_error: invalid from": true,
		"401 unauthorized":                   true,
		"429 rate limit exceeded":            false,
		"500 internal server error":          false,
		"dial tcp: connection refused":       false,
	}
	for msg, want := range cases {
		if got := isPermanentError(errors.New(msg)); got != want {
			t.Errorf("isPermanentError(%q) = %v, want %v", msg, got, want)
		}
	}
}
