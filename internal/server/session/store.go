// Package session holds the server-side session state: one authenticated
// user snapshot per session plus one-shot flash messages consumed by the
// next rendered page.
package session

import (
	"context"
	"time"
)

// FlashKind distinguishes success notices from error notices.
type FlashKind string

const (
	FlashSuccess FlashKind = "success"
	FlashError   FlashKind = "error"
)

// Flash is a one-shot notification. It is stored until popped once and then
// discarded.
type Flash struct {
	Kind    FlashKind `json:"kind"`
	Message string    `json:"message"`
}

// User is the denormalized snapshot of the authenticated account captured at
// login. It is a copy, not a reference: later changes to the users table are
// not reflected here.
type User struct {
	ID    int64  `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
	City  string `json:"city"`
	State string `json:"state"`
}

// Store is the session backend. Get returns common.ErrorNotFound for an
// unknown or expired session id.
type Store interface {
	Get(ctx context.Context, sessionID string) (*User, error)
	Set(ctx context.Context, sessionID string, user *User, ttl time.Duration) error
	Destroy(ctx context.Context, sessionID string) error

	// SetFlash appends a one-shot message to the session.
	SetFlash(ctx context.Context, sessionID string, flash Flash) error

	// PopFlashes returns all pending flashes and clears them.
	PopFlashes(ctx context.Context, sessionID string) ([]Flash, error)
}
