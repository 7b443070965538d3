package notify

import (
	"context"
	"encoding/json"
	"time"

	"github.com/google/uuid"
)

const EventSnapshotUpdated = "snapshot.updated"

// Event 每次成功写入快照后对外广播
type Event struct {
	ID         string    `json:"id"`
	Type       string    `json:"type"`
	OccurredAt time.Time `json:"occurredAt"`
	TotalCount int       `json:"totalCount"`
	Rounds     int       `json:"rounds"`
	Partial    bool      `json:"partial"`
	Period     string    `json:"period,omitempty"`
}

func NewSnapshotEvent(total, rounds int, partial bool, period string, now time.Time) Event {
	return Event{
		ID:         uuid.NewString(),
		Type:       EventSnapshotUpdated,
		OccurredAt: now,
		TotalCount: total,
		Rounds:     rounds,
		Partial:    partial,
		Period:     period,
	}
}

type Publisher interface {
	Publish(ctx context.Context, ev Event) error
	Close() error
}

// Nop 未配置消息通道时使用
type Nop struct{}

func (Nop) Publish(context.Context, Event) error { return nil }
func (Nop) Close() error                         { return nil }

func encode(ev Event) ([]byte, error) {
	return json.Marshal(ev)
}
