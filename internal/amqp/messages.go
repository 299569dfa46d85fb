package amqp

import (
	"encoding/json"
	"time"
)

// SnapshotChangedMessage announces that a new snapshot revision was persisted.
// It carries no data; consumers read the current state from storage.
type SnapshotChangedMessage struct {
	Revision  uint64    `json:"revision"`
	Reason    string    `json:"reason"`
	Timestamp time.Time `json:"timestamp"`
}

func NewSnapshotChangedMessage(revision uint64, reason string) *SnapshotChangedMessage {
	return &SnapshotChangedMessage{
		Revision:  revision,
		Reason:    reason,
		Timestamp: time.Now(),
	}
}

func (m *SnapshotChangedMessage) ToJSON() ([]byte, error) {
	return json.Marshal(m)
}

func SnapshotChangedMessageFromJSON(data []byte) (*SnapshotChangedMessage, error) {
	var msg SnapshotChangedMessage
	if err := json.Unmarshal(data, &msg); err != nil {
		return nil, err
	}
	return &msg, nil
}
