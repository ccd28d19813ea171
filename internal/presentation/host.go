package presentation

import (
	"sync"
	"time"
)

// PresentationHost is anything that can have a DisplayConfig applied to it once,
// before it renders.
type PresentationHost interface {
	ConfigurePresentation(cfg DisplayConfig) error
}

// HostState is a point-in-time snapshot of a Session.
type HostState struct {
	SessionID  string        `json:"session_id"`
	Config     DisplayConfig `json:"config"`
	Configured bool          `json:"configured"`
	Elements   []Element     `json:"elements"`
}

// Session is the presentation state of one user's dashboard session. Its methods
// are safe for concurrent use; calls are serialized so the session behaves as a
// single logical execution context.
type Session struct {
	id        string
	createdAt time.Time

	mu         sync.Mutex
	config     DisplayConfig
	configured bool
	elements   []Element
	lastSeen   time.Time
}

var _ PresentationHost = (*Session)(nil)

// NewSession returns an unconfigured session reporting DefaultDisplayConfig.
func NewSession(id string, now time.Time) *Session {
	return &Session{
		id:        id,
		createdAt: now,
		config:    DefaultDisplayConfig,
		lastSeen:  now,
	}
}

func (s *Session) ID() string { return s.id }

func (s *Session) CreatedAt() time.Time { return s.createdAt }

// LastSeen returns the time of the most recent Touch.
func (s *Session) LastSeen() time.Time {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lastSeen
}

// Touch records activity on the session.
func (s *Session) Touch(now time.Time) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if now.After(s.lastSeen) {
		s.lastSeen = now
	}
}

// ConfigurePresentation applies cfg. It fails with *ConfigurationOrderError if the
// session is already configured or has emitted any element; in that case, and on a
// validation failure, the session state is left untouched.
func (s *Session) ConfigurePresentation(cfg DisplayConfig) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.configured {
		return &ConfigurationOrderError{Reason: AlreadyConfigured}
	}
	if len(s.elements) > 0 {
		return &ConfigurationOrderError{Reason: RenderingStarted}
	}
	if err := cfg.Validate(); err != nil {
		return err
	}
	s.config = cfg
	s.configured = true
	return nil
}

// Emit appends a rendered element. After the first Emit the session can no longer
// be configured.
func (s *Session) Emit(e Element) error {
	if err := e.Validate(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.elements = append(s.elements, e)
	return nil
}

// Config returns the applied DisplayConfig, or DefaultDisplayConfig.
func (s *Session) Config() DisplayConfig {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.config
}

// State returns a copy of the session's presentation state.
func (s *Session) State() HostState {
	s.mu.Lock()
	defer s.mu.Unlock()
	elements := make([]Element, len(s.elements))
	copy(elements, s.elements)
	return HostState{
		SessionID:  s.id,
		Config:     s.config,
		Configured: s.configured,
		Elements:   elements,
	}
}

// Bootstrap applies InsuranceSalesDashboard to host. It must be the first call made
// on a fresh host.
func Bootstrap(host PresentationHost) error {
	return host.ConfigurePresentation(InsuranceSalesDashboard)
}
