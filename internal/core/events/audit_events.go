package events

import (
	"context"
	"log/slog"
	"time"

	"github.com/google/uuid"
)

// Employee lifecycle event types. Because employee histories are
// cascade-removed with their record, the audit subscriber's structured log
// output is the trace that survives a delete.
const (
	EmployeeCreated        = "employee.created"
	EmployeeIDProofUpdated = "employee.id_proof_updated"
	EmployeeDeleted        = "employee.deleted"
)

func NewEmployeeCreatedEvent(employeeID, loginID string) Event {
	return BaseEvent{
		ID:        uuid.New().String(),
		Type:      EmployeeCreated,
		Timestamp: time.Now(),
		Data: map[string]interface{}{
			"employee_id": employeeID,
			"login_id":    loginID,
		},
	}
}

func NewEmployeeIDProofUpdatedEvent(employeeID, fileName string) Event {
	return BaseEvent{
		ID:        uuid.New().String(),
		Type:      EmployeeIDProofUpdated,
		Timestamp: time.Now(),
		Data: map[string]interface{}{
			"employee_id": employeeID,
			"file_name":   fileName,
		},
	}
}

func NewEmployeeDeletedEvent(employeeID string) Event {
	return BaseEvent{
		ID:        uuid.New().String(),
		Type:      EmployeeDeleted,
		Timestamp: time.Now(),
		Data: map[string]interface{}{
			"employee_id": employeeID,
		},
	}
}

// RegisterAuditLogger wires a subscriber that writes one structured audit
// record per lifecycle event.
func RegisterAuditLogger(bus *EventBus, logger *slog.Logger) {
	handler := func(_ context.Context, event Event) error {
		logger.Info("audit",
			"event_id", event.EventID(),
			"event_type", event.EventType(),
			"occurred_at", event.OccurredAt(),
			"payload", event.Payload())
		return nil
	}

	bus.Subscribe(EmployeeCreated, handler)
	bus.Subscribe(EmployeeIDProofUpdated, handler)
	bus.Subscribe(EmployeeDeleted, handler)
}
