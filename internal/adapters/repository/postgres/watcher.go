package postgres

import (
	"context"
	"sync"
	"time"

	"github.com/lib/pq"

	"github.com/astroarts/contest/internal/core/ports"
)

const (
	channelPrompts     = "prompts_changed"
	channelSubmissions = "submissions_changed"
	channelRegistry    = "registry_changed"
	channelGuestVotes  = "guest_votes_changed"
)

// listen opens a LISTEN connection on the given notification channel and
// forwards payloads. Payload delivery conflates per notification burst; the
// consumer re-reads current state anyway.
func listen(ctx context.Context, connStr, channel string) (<-chan string, ports.CancelFunc, error) {
	listener := pq.NewListener(connStr, time.Second, time.Minute, nil)
	if err := listener.Listen(channel); err != nil {
		listener.Close()
		return nil, nil, err
	}

	payloads := make(chan string, 16)
	done := make(chan struct{})
	var once sync.Once
	cancel := func() {
		once.Do(func() {
			close(done)
			listener.Close()
		})
	}

	go func() {
		defer close(payloads)
		for {
			select {
			case <-done:
				return
			case <-ctx.Done():
				cancel()
				return
			case notification, ok := <-listener.Notify:
				if !ok {
					return
				}
				// A nil notification signals a reconnect; state may have
				// changed while disconnected.
				payload := ""
				if notification != nil {
					payload = notification.Extra
				}
				select {
				case payloads <- payload:
				default:
				}
			case <-time.After(90 * time.Second):
				go listener.Ping()
			}
		}
	}()

	return payloads, cancel, nil
}
