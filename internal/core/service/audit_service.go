package service

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/viriyakhulung/kosalla-new/internal/core/domain"
	"github.com/viriyakhulung/kosalla-new/internal/core/ports"
)

type auditService struct {
	repo ports.AuditRepository
	log  zerolog.Logger
	now  func() time.Time
}

// NewAuditService returns an AuditService. With a nil repo events are only
// logged.
func NewAuditService(repo ports.AuditRepository, log zerolog.Logger) ports.AuditService {
	return &auditService{repo: repo, log: log, now: time.Now}
}

func (s *auditService) Process(ctx context.Context, event domain.AccessEvent) error {
	if event.ID == "" {
		event.ID = uuid.NewString()
	}
	if event.At.IsZero() {
		event.At = s.now().UTC()
	}

	s.log.Info().
		Str("event_id", event.ID).
		Str("kind", string(event.Kind)).
		Str("email", event.Email).
		Str("path", event.Path).
		Strs("roles", event.Roles).
		Str("remote_ip", event.RemoteIP).
		Msg("access event")

	if s.repo == nil {
		return nil
	}
	if err := s.repo.Insert(ctx, &event); err != nil {
		return fmt.Errorf("audit: insert %s: %w", event.Kind, err)
	}
	return nil
}
