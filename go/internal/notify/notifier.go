package notify

import (
	"context"
	"sync"
	"time"

	"github.com/GonzaloH5/league-bot/go/internal/models"
	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
)

// Kind names the state change a notification reports
type Kind string

const (
	KindOfferCreated      Kind = "offer.created"
	KindClausePaid        Kind = "offer.clause_paid"
	KindOfferAccepted     Kind = "offer.accepted"
	KindOfferRejected     Kind = "offer.rejected"
	KindOfferCancelled    Kind = "offer.cancelled"
	KindContractExpired   Kind = "season.contract_expired"
	KindFriendlyRequested Kind = "friendly.requested"
	KindFriendlyAccepted  Kind = "friendly.accepted"
	KindFriendlyRejected  Kind = "friendly.rejected"
	KindFriendlyCancelled Kind = "friendly.cancelled"
)

// Notification is a delivery request handed to the notification collaborator
type Notification struct {
	ID         uuid.UUID         `json:"id"`
	TenantID   models.TenantID   `json:"tenant_id"`
	Kind       Kind              `json:"kind"`
	Recipients []models.ActorID  `json:"recipients"`
	Message    string            `json:"message"`
	Data       map[string]string `json:"data,omitempty"`
	CreatedAt  time.Time         `json:"created_at"`
}

// Notifier delivers notifications to external actors
type Notifier interface {
	Notify(ctx context.Context, n Notification) error
}

// Send hands n to notifier after a committed state change.
// Delivery is best effort: failures are logged and never returned.
func Send(ctx context.Context, notifier Notifier, n Notification) {
	if notifier == nil || len(n.Recipients) == 0 {
		return
	}
	if n.ID == uuid.Nil {
		n.ID = uuid.New()
	}
	if n.CreatedAt.IsZero() {
		n.CreatedAt = time.Now().UTC()
	}
	if err := notifier.Notify(ctx, n); err != nil {
		log.Warn().
			Err(err).
			Str("tenant_id", string(n.TenantID)).
			Str("kind", string(n.Kind)).
			Str("notification_id", n.ID.String()).
			Msg("failed to deliver notification")
	}
}

// LogNotifier only logs notifications
type LogNotifier struct{}

// NewLogNotifier creates a notifier that writes notifications to the log
func NewLogNotifier() *LogNotifier {
	return &LogNotifier{}
}

func (LogNotifier) Notify(_ context.Context, n Notification) error {
	log.Info().
		Str("tenant_id", string(n.TenantID)).
		Str("kind", string(n.Kind)).
		Int("recipients", len(n.Recipients)).
		Str("message", n.Message).
		Msg("notification")
	return nil
}

// Recorder keeps every notification in memory
type Recorder struct {
	mu   sync.Mutex
	sent []Notification
	Err  error // returned from Notify when set
}

func (r *Recorder) Notify(_ context.Context, n Notification) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.sent = append(r.sent, n)
	return r.Err
}

// Sent returns a copy of the recorded notifications
func (r *Recorder) Sent() []Notification {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]Notification(nil), r.sent...)
}

// OfKind returns the recorded notifications of kind k
func (r *Recorder) OfKind(k Kind) []Notification {
	var out []Notification
	for _, n := range r.Sent() {
		if n.Kind == k {
			out = append(out, n)
		}
	}
	return out
}
