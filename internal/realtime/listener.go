// internal/realtime/listener.go
package realtime

import (
	"context"
	"encoding/json"
	"sync"
	"time"

	"github.com/lib/pq"
	"github.com/sirupsen/logrus"

	"github.com/hudzstore/backend/internal/database"
	"github.com/hudzstore/backend/internal/models"
)

const (
	minReconnectInterval = 10 * time.Second
	maxReconnectInterval = time.Minute
	pingInterval         = 90 * time.Second
)

// Listener consumes the LISTEN/NOTIFY change feed installed by the
// migrations and fans decoded ChangeEvents out to subscribers. Connection
// trouble is recorded as a non-fatal error state; subscribers keep their
// channels and their last known-good data.
type Listener struct {
	pql *pq.Listener

	mu          sync.RWMutex
	subscribers map[chan models.ChangeEvent]struct{}
	lastErr     error

	closeOnce sync.Once
	done      chan struct{}
}

func NewListener(dsn string) *Listener {
	l := &Listener{
		subscribers: make(map[chan models.ChangeEvent]struct{}),
		done:        make(chan struct{}),
	}

	l.pql = pq.NewListener(dsn, minReconnectInterval, maxReconnectInterval,
		func(event pq.ListenerEventType, err error) {
			switch event {
			case pq.ListenerEventConnected, pq.ListenerEventReconnected:
				l.setErr(nil)
				logrus.Info("Realtime listener connected")
			case pq.ListenerEventDisconnected, pq.ListenerEventConnectionAttemptFailed:
				l.setErr(err)
				logrus.WithError(err).Warn("Realtime listener connection trouble")
			}
		})

	return l
}

// Start begins listening and dispatching. It returns once the LISTEN is
// issued; dispatch runs until ctx is cancelled or Close is called.
func (l *Listener) Start(ctx context.Context) error {
	if err := l.pql.Listen(database.NotifyChannel); err != nil {
		return err
	}

	go l.run(ctx)
	return nil
}

func (l *Listener) run(ctx context.Context) {
	ticker := time.NewTicker(pingInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-l.done:
			return
		case notification := <-l.pql.Notify:
			// pq delivers a nil notification after a reconnect; state may
			// have been missed, so subscribers should refetch.
			if notification == nil {
				continue
			}
			l.dispatch([]byte(notification.Extra))
		case <-ticker.C:
			if err := l.pql.Ping(); err != nil {
				l.setErr(err)
			}
		}
	}
}

func (l *Listener) dispatch(payload []byte) {
	var event models.ChangeEvent
	if err := json.Unmarshal(payload, &event); err != nil {
		logrus.WithError(err).Warn("Dropping undecodable change notification")
		return
	}

	l.mu.RLock()
	defer l.mu.RUnlock()
	for ch := range l.subscribers {
		select {
		case ch <- event:
		default:
			// Subscriber is not keeping up; it retains its last
			// known-good state and can Refetch.
			logrus.Warn("Realtime subscriber channel full, dropping event")
		}
	}
}

// Subscribe returns a channel of change events plus a cancel function that
// detaches it. The cancel function always runs to completion regardless of
// listener state.
func (l *Listener) Subscribe() (<-chan models.ChangeEvent, func()) {
	ch := make(chan models.ChangeEvent, 64)

	l.mu.Lock()
	l.subscribers[ch] = struct{}{}
	l.mu.Unlock()

	var once sync.Once
	cancel := func() {
		once.Do(func() {
			l.mu.Lock()
			delete(l.subscribers, ch)
			l.mu.Unlock()
			close(ch)
		})
	}
	return ch, cancel
}

// Err reports the last connection-level error, or nil when the channel is
// healthy.
func (l *Listener) Err() error {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.lastErr
}

func (l *Listener) setErr(err error) {
	l.mu.Lock()
	l.lastErr = err
	l.mu.Unlock()
}

func (l *Listener) Close() error {
	var err error
	l.closeOnce.Do(func() {
		close(l.done)
		err = l.pql.Close()
	})
	return err
}
