package ports

import (
	"context"

	"github.com/taskhub/task-tracker/internal/core/domain"
)

// AuditRepository persists audit entries to the audit_events collection.
type AuditRepository interface {
	Insert(ctx context.Context, entry *domain.AuditEntry) error
}

// AuditRecorder accepts audit entries for asynchronous persistence. Recording
// never blocks the request path; entries may be dropped under backpressure.
type AuditRecorder interface {
	Record(entry domain.AuditEntry)
}
