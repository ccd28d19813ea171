package app

import (
	"context"
	"encoding/json"

	"insurance-dashboard/internal/presentation"
	"insurance-dashboard/internal/session"

	"github.com/invopop/jsonschema"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
)

// ErrSessionNotFound is returned for unknown, ended, or expired sessions.
var ErrSessionNotFound = session.ErrSessionNotFound

// ConfigureObserver receives the outcome of every ConfigurePresentation call.
type ConfigureObserver interface {
	ConfigureResult(result string)
}

type appService struct {
	sessions *session.Registry
	observer ConfigureObserver
	log      logrus.FieldLogger
}

// NewAppService constructs an appService that satisfies ApplicationService.
func NewAppService(sessions *session.Registry, observer ConfigureObserver, log logrus.FieldLogger) ApplicationService {
	return &appService{
		sessions: sessions,
		observer: observer,
		log:      log,
	}
}

func (s *appService) StartSession(ctx context.Context) (*SessionResult, error) {
	sess, err := s.sessions.Create(ctx)
	if err != nil {
		var bootErr *session.BootstrapError
		if errors.As(err, &bootErr) {
			s.observer.ConfigureResult(configureOutcome(bootErr.Err))
		}
		return nil, err
	}
	s.observer.ConfigureResult("ok")
	s.log.WithField("session_id", sess.ID()).Info("session started")
	return &SessionResult{State: sess.State()}, nil
}

func (s *appService) EndSession(ctx context.Context, sessionID string) error {
	if err := s.sessions.End(sessionID, session.ReasonEnded); err != nil {
		return err
	}
	s.log.WithField("session_id", sessionID).Info("session ended")
	return nil
}

func (s *appService) SessionState(ctx context.Context, sessionID string) (*SessionResult, error) {
	sess, err := s.sessions.Get(sessionID)
	if err != nil {
		return nil, err
	}
	return &SessionResult{State: sess.State()}, nil
}

func (s *appService) EmitElement(ctx context.Context, req EmitElementRequest) (*SessionResult, error) {
	sess, err := s.sessions.Get(req.SessionID)
	if err != nil {
		return nil, err
	}
	if err := sess.Emit(req.Element); err != nil {
		return nil, err
	}
	return &SessionResult{State: sess.State()}, nil
}

func (s *appService) ConfigurePresentation(ctx context.Context, req ConfigureRequest) (*SessionResult, error) {
	sess, err := s.sessions.Get(req.SessionID)
	if err != nil {
		return nil, err
	}

	err = sess.ConfigurePresentation(req.Config)
	s.observer.ConfigureResult(configureOutcome(err))
	if err == nil {
		return &SessionResult{State: sess.State()}, nil
	}

	if presentation.IsConfigurationOrder(err) {
		s.log.WithFields(logrus.Fields{
			"session_id": req.SessionID,
			"error":      err,
		}).Error("configuration order violation, ending session")
		if endErr := s.sessions.End(req.SessionID, session.ReasonOrderViolation); endErr != nil {
			s.log.WithError(endErr).Warn("end session after order violation")
		}
	}
	return nil, err
}

func (s *appService) DisplayConfigSchema() ([]byte, error) {
	reflector := jsonschema.Reflector{
		AllowAdditionalProperties: false,
		DoNotReference:            true,
	}
	schema := reflector.Reflect(presentation.DisplayConfig{})
	schema.Title = "DisplayConfig"
	b, err := json.Marshal(schema)
	if err != nil {
		return nil, errors.Wrap(err, "marshal display config schema")
	}
	return b, nil
}

func (s *appService) ActiveSessions() int {
	return s.sessions.Len()
}

// configureOutcome maps a ConfigurePresentation error to a metrics label.
func configureOutcome(err error) string {
	switch {
	case err == nil:
		return "ok"
	case presentation.IsConfigurationOrder(err):
		return "order_violation"
	case errors.Is(err, presentation.ErrInvalidConfig):
		return "invalid"
	}
	return "error"
}
