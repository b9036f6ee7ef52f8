package worker

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/garyjia/payroll-console/internal/application/port"
	"github.com/garyjia/payroll-console/internal/domain/entity"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

const (
	defaultPollInterval = 30 * time.Second
	defaultPollTimeout  = 10 * time.Second
)

// NotificationSource lists the finance notifications currently derived from
// approved records
type NotificationSource interface {
	Approved(ctx context.Context) ([]entity.Notification, error)
}

// PollerConfig configures the NotificationPoller
type PollerConfig struct {
	ChatID   string
	Interval time.Duration
	// Cookie authenticates the poller against the payroll backend
	Cookie string
}

// NotificationPoller posts each new finance notification to a chat once.
// The first poll only records what already exists.
type NotificationPoller struct {
	source    NotificationSource
	messenger port.ChatMessenger
	chatID    string
	cookie    string
	interval  time.Duration
	logger    *zap.Logger

	seenMu sync.Mutex
	seen   map[string]struct{}
	primed bool

	mu        sync.Mutex
	isRunning bool
	cancel    context.CancelFunc
	done      chan struct{}
}

// NewNotificationPoller creates a new notification poller
func NewNotificationPoller(cfg PollerConfig, source NotificationSource, messenger port.ChatMessenger, logger *zap.Logger) *NotificationPoller {
	interval := cfg.Interval
	if interval <= 0 {
		interval = defaultPollInterval
	}
	return &NotificationPoller{
		source:    source,
		messenger: messenger,
		chatID:    cfg.ChatID,
		cookie:    cfg.Cookie,
		interval:  interval,
		logger:    logger,
		seen:      make(map[string]struct{}),
	}
}

// Name returns the worker name for identification
func (p *NotificationPoller) Name() string {
	return "NotificationPoller"
}

// Start starts the polling loop
func (p *NotificationPoller) Start(ctx context.Context) error {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.isRunning {
		return fmt.Errorf("notification poller is already running")
	}

	ctx, p.cancel = context.WithCancel(ctx)
	p.done = make(chan struct{})
	p.isRunning = true

	p.logger.Info("NotificationPoller started",
		zap.Duration("poll_interval", p.interval),
		zap.String("chat_id", p.chatID))

	go p.pollLoop(ctx, p.done)
	return nil
}

// Stop cancels the loop and waits for the poll in progress
func (p *NotificationPoller) Stop() error {
	p.mu.Lock()
	if !p.isRunning {
		p.mu.Unlock()
		return nil
	}
	p.isRunning = false
	cancel, done := p.cancel, p.done
	p.mu.Unlock()

	cancel()
	<-done

	p.logger.Info("NotificationPoller stopped")
	return nil
}

func (p *NotificationPoller) pollLoop(ctx context.Context, done chan struct{}) {
	defer close(done)

	ticker := time.NewTicker(p.interval)
	defer ticker.Stop()

	p.poll(ctx)

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			p.poll(ctx)
		}
	}
}

// poll fetches the current notifications and sends the unseen ones. It
// returns how many were sent.
func (p *NotificationPoller) poll(ctx context.Context) int {
	ctx, cancel := context.WithTimeout(ctx, defaultPollTimeout)
	defer cancel()

	requestID := uuid.NewString()
	ctx = port.WithSession(ctx, port.Session{Cookie: p.cookie, RequestID: requestID})

	notifications, err := p.source.Approved(ctx)
	if err != nil {
		p.logger.Warn("Failed to poll finance notifications",
			zap.String("request_id", requestID),
			zap.Error(err))
		return 0
	}

	fresh := p.diff(notifications)

	sent := 0
	for _, n := range fresh {
		if err := p.messenger.SendText(ctx, p.chatID, FormatNotification(n)); err != nil {
			p.logger.Error("Failed to send notification",
				zap.String("notification_id", n.ID),
				zap.Error(err))
			p.forget(n.ID)
			continue
		}
		sent++
	}

	if sent > 0 {
		p.logger.Info("Finance notifications sent",
			zap.Int("sent", sent),
			zap.Int("total", len(notifications)))
	}
	return sent
}

// diff records notifications as seen and returns those not seen before.
// Ids that disappeared from the feed are dropped from the seen-set.
func (p *NotificationPoller) diff(notifications []entity.Notification) []entity.Notification {
	p.seenMu.Lock()
	defer p.seenMu.Unlock()

	current := make(map[string]struct{}, len(notifications))
	var fresh []entity.Notification
	for _, n := range notifications {
		current[n.ID] = struct{}{}
		if _, ok := p.seen[n.ID]; !ok && p.primed {
			fresh = append(fresh, n)
		}
	}
	p.seen = current

	if !p.primed {
		p.primed = true
		p.logger.Info("Notification baseline recorded", zap.Int("existing", len(current)))
	}
	return fresh
}

// forget lets a notification whose delivery failed be retried next poll
func (p *NotificationPoller) forget(id string) {
	p.seenMu.Lock()
	defer p.seenMu.Unlock()
	delete(p.seen, id)
}

// FormatNotification renders the chat text for a finance notification
func FormatNotification(n entity.Notification) string {
	var b strings.Builder
	b.WriteString(n.Title)
	if n.Description != "" {
		b.WriteString("\n")
		b.WriteString(n.Description)
	}
	if n.EmployeeDisplay != "" {
		fmt.Fprintf(&b, "\nEmployee: %s", n.EmployeeDisplay)
	}
	fmt.Fprintf(&b, "\nAmount: $%.2f", n.Amount)
	fmt.Fprintf(&b, "\nRefund type: %s, record: %s", n.RefundType(), n.RecordID)
	return b.String()
}
