package usecase

import (
	"context"
)

const (
	StatusSuccess = "success"
	StatusError   = "error"
)

// SyncResult is what a sync attempt reports back to its caller. Status is
// always one of StatusSuccess or StatusError; Count is the number of
// messages stored on success.
type SyncResult struct {
	Status  string `json:"status"`
	Message string `json:"message"`
	Count   int    `json:"email_count"`
}

type EmailUsecase interface {
	// SyncUser runs one full fetch-and-replace cycle for the user. When
	// accessToken is non-empty it is used as-is, bypassing the stored
	// credential and the refresh path. max bounds how many messages are
	// fetched.
	SyncUser(ctx context.Context, userID, accessToken string, max int64) *SyncResult
}
