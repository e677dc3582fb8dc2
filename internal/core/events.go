package core

import "time"

const (
	EventCreated EventType = "created"
	EventUpdated EventType = "updated"
	EventDeleted EventType = "deleted"

	EntityTransaction Entity = "transaction"
	EntityCategory    Entity = "category"
)

type (
	EventType string
	Entity    string

	// LedgerEvent announces a successful write to the ledger.
	LedgerEvent struct {
		Type      EventType `json:"type"`
		Entity    Entity    `json:"entity"`
		ID        int64     `json:"id"`
		Timestamp time.Time `json:"timestamp"`
	}

	// AuditEntry is a ledger event as persisted by the event worker.
	AuditEntry struct {
		ID         int64     `json:"id"`
		EventType  string    `json:"event_type"`
		Entity     Entity    `json:"entity"`
		EntityID   int64     `json:"entity_id"`
		OccurredAt time.Time `json:"occurred_at"`
		RecordedAt time.Time `json:"recorded_at"`
	}
)

func NewLedgerEvent(typ EventType, entity Entity, id int64) LedgerEvent {
	return LedgerEvent{
		Type:      typ,
		Entity:    entity,
		ID:        id,
		Timestamp: time.Now().UTC(),
	}
}

// Name returns the dotted event name, e.g. "transaction.created".
func (e LedgerEvent) Name() string {
	return string(e.Entity) + "." + string(e.Type)
}
