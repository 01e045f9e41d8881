package keymint

import (
	"context"

	internalaudit "github.com/keymint/keymint/internal/audit"
)

// Audit event types emitted by the manager.
const (
	AuditEventGenerate = "token.generate"
	AuditEventValidate = "token.validate"
	AuditEventRefresh  = "token.refresh"
	AuditEventRevoke   = "token.revoke"
)

type auditDispatcher = internalaudit.Dispatcher

func newAuditDispatcher(cfg AuditConfig, sink AuditSink) *auditDispatcher {
	return internalaudit.NewDispatcher(internalaudit.Config{
		Enabled:    cfg.Enabled,
		BufferSize: cfg.BufferSize,
		DropIfFull: cfg.DropIfFull,
	}, sink)
}

func (m *Manager) auditEmit(ctx context.Context, event AuditEvent) {
	if m == nil || m.audit == nil {
		return
	}
	event.IP = clientIPFromContext(ctx)
	m.audit.Emit(ctx, event)
}

func errString(err error) string {
	if err == nil {
		return ""
	}
	return err.Error()
}
