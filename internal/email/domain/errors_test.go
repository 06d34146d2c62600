package domain

import (
	"errors"
	"fmt"
	"testing"

	"google.golang.org/api/googleapi"
)

func TestClassify(t *testing.T) {
	tests := []struct {
		name string
		err  error
		kind ErrorKind
	}{
		{"http 401", &googleapi.Error{Code: 401, Message: "Invalid Credentials"}, KindAuth},
		{"http 403 quota", &googleapi.Error{Code: 403, Message: "quotaExceeded"}, KindPermission},
		{"http 403 auth marker", &googleapi.Error{Code: 403, Message: "invalid_grant"}, KindAuth},
		{"http 404", &googleapi.Error{Code: 404, Message: "Not Found"}, KindNotFound},
		{"http 429", &googleapi.Error{Code: 429, Message: "Too Many Requests"}, KindRateLimit},
		{"refresh grant rejection", errors.New(`oauth2: "invalid_grant" "Token has been expired or revoked."`), KindAuth},
		{"plain failure", errors.New("connection reset"), KindInternal},
		{"wrapped api error", fmt.Errorf("call failed: %w", &googleapi.Error{Code: 401}), KindAuth},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Classify("test", tt.err)
			if got.Kind != tt.kind {
				t.Errorf("Classify kind = %s, want %s", got.Kind, tt.kind)
			}
		})
	}
}

func TestClassifyPreservesExistingClassification(t *testing.T) {
	orig := NewSyncError(KindAuth, "refresh rejected", errors.New("invalid_grant"))
	wrapped := fmt.Errorf("sync: %w", orig)

	got := Classify("other message", wrapped)
	if got != orig {
		t.Error("expected the original classified error to pass through")
	}
}

func TestIsAuthError(t *testing.T) {
	if !IsAuthError(NewSyncError(KindAuth, "x", nil)) {
		t.Error("auth error not detected")
	}
	if IsAuthError(NewSyncError(KindRateLimit, "x", nil)) {
		t.Error("rate limit misread as auth")
	}
	if IsAuthError(errors.New("plain")) {
		t.Error("plain error misread as auth")
	}
}
