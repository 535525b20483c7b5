// Package loginhistory records one row per login attempt with the client
// metadata captured at the edge. The log is append-only; nothing in the auth
// flow ever reads it back.
package loginhistory

import (
	"context"
	"time"
)

type Attempt struct {
	ID            int64     `json:"login_id"`
	UserID        int64     `json:"user_id"`
	Timestamp     time.Time `json:"login_timestamp"`
	IPAddress     string    `json:"ip_address,omitempty"`
	UserAgent     string    `json:"user_agent,omitempty"`
	Device        string    `json:"device,omitempty"`
	Location      string    `json:"location,omitempty"`
	IsSuccess     bool      `json:"is_success"`
	FailureReason string    `json:"failure_reason,omitempty"`
}

type Repo interface {
	Append(ctx context.Context, attempt *Attempt) error
	ListByUser(ctx context.Context, userID int64) ([]*Attempt, error)
}
