package app

import (
	"context"

	"insurance-dashboard/internal/presentation"
)

// ApplicationService is the single interface all adapters (web, verify tool) call.
// It decouples presentation hosting from transport. Implementations contain no
// HTTP or rendering logic.
type ApplicationService interface {
	// StartSession creates a dashboard session and applies the dashboard's DisplayConfig
	// to it before anything else can touch it.
	StartSession(ctx context.Context) (*SessionResult, error)

	// EndSession removes a session. Ending an unknown session returns ErrSessionNotFound.
	EndSession(ctx context.Context, sessionID string) error

	// SessionState returns the current host state of a live session.
	SessionState(ctx context.Context, sessionID string) (*SessionResult, error)

	// EmitElement records a UI-emitting call on the session.
	EmitElement(ctx context.Context, req EmitElementRequest) (*SessionResult, error)

	// ConfigurePresentation applies a DisplayConfig to the session. A configuration
	// order violation is fatal: the session is ended before the error is returned.
	ConfigurePresentation(ctx context.Context, req ConfigureRequest) (*SessionResult, error)

	// DisplayConfigSchema returns the JSON Schema describing DisplayConfig.
	DisplayConfigSchema() ([]byte, error)

	// ActiveSessions returns the number of registered sessions.
	ActiveSessions() int
}

// SessionResult is returned by session operations.
type SessionResult struct {
	State presentation.HostState
}

// EmitElementRequest is the input for EmitElement.
type EmitElementRequest struct {
	SessionID string
	Element   presentation.Element
}

// ConfigureRequest is the input for ConfigurePresentation.
type ConfigureRequest struct {
	SessionID string
	Config    presentation.DisplayConfig
}
