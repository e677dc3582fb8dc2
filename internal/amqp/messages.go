package amqp

import (
	"encoding/json"
	"fmt"
	"time"

	"urmoney/internal/core"
)

// LedgerEventMessage is the wire form of a ledger event. It carries only the
// entity id; consumers read the current row from the database.
type LedgerEventMessage struct {
	Type      core.EventType `json:"type"`
	Entity    core.Entity    `json:"entity"`
	ID        int64          `json:"id"`
	Timestamp time.Time      `json:"timestamp"`
}

func NewLedgerEventMessage(ev core.LedgerEvent) *LedgerEventMessage {
	ts := ev.Timestamp
	if ts.IsZero() {
		ts = time.Now().UTC()
	}
	return &LedgerEventMessage{
		Type:      ev.Type,
		Entity:    ev.Entity,
		ID:        ev.ID,
		Timestamp: ts,
	}
}

// ToJSON converts the message to JSON bytes
func (m *LedgerEventMessage) ToJSON() ([]byte, error) {
	return json.Marshal(m)
}

func (m *LedgerEventMessage) Event() core.LedgerEvent {
	return core.LedgerEvent{
		Type:      m.Type,
		Entity:    m.Entity,
		ID:        m.ID,
		Timestamp: m.Timestamp,
	}
}

// LedgerEventMessageFromJSON decodes and sanity-checks a message body.
func LedgerEventMessageFromJSON(data []byte) (*LedgerEventMessage, error) {
	var msg LedgerEventMessage
	if err := json.Unmarshal(data, &msg); err != nil {
		return nil, err
	}
	switch msg.Entity {
	case core.EntityTransaction, core.EntityCategory:
	default:
		return nil, fmt.Errorf("unknown entity %q", msg.Entity)
	}
	switch msg.Type {
	case core.EventCreated, core.EventUpdated, core.EventDeleted:
	default:
		return nil, fmt.Errorf("unknown event type %q", msg.Type)
	}
	if msg.ID <= 0 {
		return nil, fmt.Errorf("invalid id %d", msg.ID)
	}
	return &msg, nil
}
