package domain

import (
	"errors"
	"fmt"
	"net/http"
	"strings"

	"google.golang.org/api/googleapi"
)

// ErrorKind classifies failures at the mail-provider and identity-provider
// boundaries. The orchestrator aborts on auth failures and absorbs the rest
// per item.
type ErrorKind int

const (
	KindInternal ErrorKind = iota
	KindAuth
	KindPermission
	KindNotFound
	KindRateLimit
	KindValidation
)

func (k ErrorKind) String() string {
	switch k {
	case KindAuth:
		return "authentication"
	case KindPermission:
		return "permission"
	case KindNotFound:
		return "not_found"
	case KindRateLimit:
		return "rate_limit"
	case KindValidation:
		return "validation"
	default:
		return "internal"
	}
}

// SyncError wraps a vendor error with its classification. The user-facing
// message never carries the vendor detail; that stays in Unwrap for logs.
type SyncError struct {
	Kind ErrorKind
	Msg  string
	Err  error
}

func (e *SyncError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Kind, e.Msg, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Msg)
}

func (e *SyncError) Unwrap() error { return e.Err }

// NewSyncError builds a classified error.
func NewSyncError(kind ErrorKind, msg string, err error) *SyncError {
	return &SyncError{Kind: kind, Msg: msg, Err: err}
}

// KindOf returns the classification of err, or KindInternal when it carries
// none.
func KindOf(err error) ErrorKind {
	var se *SyncError
	if errors.As(err, &se) {
		return se.Kind
	}
	return KindInternal
}

// IsAuthError reports whether err means the credential is expired, invalid,
// or revoked and the user must re-authenticate.
func IsAuthError(err error) bool {
	return KindOf(err) == KindAuth
}

// Classify maps a Gmail/OAuth call failure onto the taxonomy. HTTP status
// drives the bulk of it; refresh-grant rejections arrive as plain errors
// with well-known markers instead.
func Classify(msg string, err error) *SyncError {
	var se *SyncError
	if errors.As(err, &se) {
		return se
	}

	var apiErr *googleapi.Error
	if errors.As(err, &apiErr) {
		switch apiErr.Code {
		case http.StatusUnauthorized:
			return NewSyncError(KindAuth, msg, err)
		case http.StatusForbidden:
			if hasAuthMarker(apiErr.Message) {
				return NewSyncError(KindAuth, msg, err)
			}
			return NewSyncError(KindPermission, msg, err)
		case http.StatusNotFound:
			return NewSyncError(KindNotFound, msg, err)
		case http.StatusTooManyRequests:
			return NewSyncError(KindRateLimit, msg, err)
		}
	}

	if err != nil && hasAuthMarker(err.Error()) {
		return NewSyncError(KindAuth, msg, err)
	}
	return NewSyncError(KindInternal, msg, err)
}

func hasAuthMarker(s string) bool {
	s = strings.ToLower(s)
	markers := []string{
		"invalid_grant",
		"invalid_client",
		"unauthorized_client",
		"invalid credentials",
		"token has been expired or revoked",
		"invalid_token",
	}
	for _, m := range markers {
		if strings.Contains(s, m) {
			return true
		}
	}
	return false
}
