// Package source defines the boundary to external message platforms.
package source

import (
	"context"
	"errors"
	"fmt"

	"github.com/nhle/brandwatch/internal/model"
)

// AuthError indicates that authentication has failed or expired for a
// source.
type AuthError struct {
	SourceType model.SourceType
	Message    string
}

func (e *AuthError) Error() string {
	return fmt.Sprintf("auth error (%s): %s", e.SourceType, e.Message)
}

// IsAuthError reports whether err (or any error in its chain) is an AuthError.
func IsAuthError(err error) bool {
	var authErr *AuthError
	return errors.As(err, &authErr)
}

// TransientError marks a recoverable I/O failure (download, network).
// Callers degrade these to absence rather than propagating them.
type TransientError struct {
	Op  string
	Err error
}

func (e *TransientError) Error() string {
	return fmt.Sprintf("transient %s error: %v", e.Op, e.Err)
}

func (e *TransientError) Unwrap() error {
	return e.Err
}

// IsTransient reports whether err (or any error in its chain) is a
// TransientError.
func IsTransient(err error) bool {
	var te *TransientError
	return errors.As(err, &te)
}

// Source defines the contract every message-platform integration must
// implement. A source owns its session and connection lifecycle; the
// pipeline only consumes the event stream and the download capability.
type Source interface {
	// Type returns the source type identifier.
	Type() model.SourceType

	// ListGroups returns the dialogs available for monitoring.
	ListGroups(ctx context.Context) ([]model.Group, error)

	// Events subscribes to new messages in the given groups. The channel
	// is closed when ctx is canceled or the source shuts down.
	Events(ctx context.Context, groupIDs []int64) (<-chan model.InboundEvent, error)

	// DownloadMedia resolves a media reference produced by this source
	// into raw bytes.
	DownloadMedia(ctx context.Context, ref model.MediaRef) ([]byte, error)

	Close() error
}
