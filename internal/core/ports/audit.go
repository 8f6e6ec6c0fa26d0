package ports

import (
	"context"

	"github.com/viriyakhulung/kosalla-new/internal/core/domain"
)

// AuditRepository persists access events.
type AuditRepository interface {
	Insert(ctx context.Context, event *domain.AccessEvent) error
}

// AuditService stamps and stores a single access event.
type AuditService interface {
	Process(ctx context.Context, event domain.AccessEvent) error
}

// AuditRecorder hands an event off for asynchronous processing. Record must
// never block the request that produced the event.
type AuditRecorder interface {
	Record(event domain.AccessEvent)
}
