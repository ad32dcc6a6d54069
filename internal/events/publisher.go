package events

import (
	"encoding/json"
	"time"

	"github.com/nats-io/nats.go"
	"github.com/rs/zerolog"
)

// Subjects emitted for derived-record updates.
const (
	SubjectProgressUpdated = "progress.updated"
	SubjectGradeUpdated    = "grade.updated"
)

// ProgressUpdated announces a recomputed course progress value.
type ProgressUpdated struct {
	UserID          uint      `json:"user_id"`
	CourseID        uint      `json:"course_id"`
	ProgressPercent float64   `json:"progress_percent"`
	OccurredAt      time.Time `json:"occurred_at"`
}

// GradeUpdated announces a recomputed student grade total.
type GradeUpdated struct {
	UserID     uint      `json:"user_id"`
	CourseID   uint      `json:"course_id"`
	TotalScore *float64  `json:"total_score"`
	OccurredAt time.Time `json:"occurred_at"`
}

// Publisher emits derived-record update events to NATS. A Publisher built
// without a connection is a no-op, so callers never need nil checks.
type Publisher struct {
	conn    *nats.Conn
	prefix  string
	logger  zerolog.Logger
	enabled bool
}

// NewPublisher constructs an event publisher. conn may be nil to disable
// publishing entirely.
func NewPublisher(conn *nats.Conn, prefix string, logger zerolog.Logger) *Publisher {
	return &Publisher{
		conn:    conn,
		prefix:  prefix,
		logger:  logger.With().Str("component", "event_publisher").Logger(),
		enabled: conn != nil,
	}
}

// PublishProgressUpdated emits a progress.updated event. Publish failures are
// logged and swallowed; derived records are already persisted at this point.
func (p *Publisher) PublishProgressUpdated(event ProgressUpdated) {
	p.publish(SubjectProgressUpdated, event)
}

// PublishGradeUpdated emits a grade.updated event.
func (p *Publisher) PublishGradeUpdated(event GradeUpdated) {
	p.publish(SubjectGradeUpdated, event)
}

func (p *Publisher) publish(subject string, payload interface{}) {
	if p == nil || !p.enabled {
		return
	}

	data, err := json.Marshal(payload)
	if err != nil {
		p.logger.Warn().Err(err).Str("subject", subject).Msg("failed to encode event payload")
		return
	}

	full := subject
	if p.prefix != "" {
		full = p.prefix + "." + subject
	}

	if err := p.conn.Publish(full, data); err != nil {
		p.logger.Warn().Err(err).Str("subject", full).Msg("failed to publish event")
	}
}
