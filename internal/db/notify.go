package db

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"github.com/lib/pq"

	"drspecialist/internal/logger"
)

// UrgentNotice is the NOTIFY payload sent for an urgent recommendation.
type UrgentNotice struct {
	InquiryID      string    `json:"inquiry_id"`
	SpecialistName string    `json:"specialist_name"`
	Category       string    `json:"category"`
	CreatedAt      time.Time `json:"created_at"`
}

// Notifier publishes urgent inquiries on a PostgreSQL LISTEN/NOTIFY channel.
type Notifier struct {
	DB      *sql.DB
	Channel string
}

// NewNotifier constructs a Notifier for channel.
func NewNotifier(db *sql.DB, channel string) *Notifier {
	return &Notifier{DB: db, Channel: channel}
}

// Notify sends payload on the channel.  NOTIFY does not take bind
// parameters, so pg_notify is used instead.
func (n *Notifier) Notify(ctx context.Context, payload string) error {
	_, err := n.DB.ExecContext(ctx, `SELECT pg_notify($1, $2)`, n.Channel, payload)
	return err
}

// Listen subscribes to channel on a dedicated connection and delivers
// decoded notices until ctx is done.  The returned channel is closed on
// exit.
func Listen(ctx context.Context, url, channel string, log logger.Logger) (<-chan UrgentNotice, error) {
	listener := pq.NewListener(url, time.Second, time.Minute, func(ev pq.ListenerEventType, err error) {
		if err != nil {
			log.Warn("listener event", map[string]interface{}{"event": int(ev), "error": err.Error()})
		}
	})
	if err := listener.Listen(channel); err != nil {
		_ = listener.Close()
		return nil, fmt.Errorf("listen %s: %w", channel, err)
	}

	out := make(chan UrgentNotice)
	go func() {
		defer func() {
			_ = listener.Close()
			close(out)
		}()
		for {
			select {
			case <-ctx.Done():
				return
			case n, ok := <-listener.Notify:
				if !ok {
					return
				}
				// A nil notification follows a reconnect.
				if n == nil {
					continue
				}
				var notice UrgentNotice
				if err := json.Unmarshal([]byte(n.Extra), &notice); err != nil {
					log.Warn("ignoring malformed notice", map[string]interface{}{"payload": n.Extra})
					continue
				}
				select {
				case out <- notice:
				case <-ctx.Done():
					return
				}
			case <-time.After(90 * time.Second):
				go func() { _ = listener.Ping() }()
			}
		}
	}()
	return out, nil
}
