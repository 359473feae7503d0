package messaging

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	chimiddleware "github.com/go-chi/chi/v5/middleware"
	amqp "github.com/rabbitmq/amqp091-go"
	"go.opentelemetry.io/otel"

	"github.com/firstrankcoders/credential-service/internal/observability"
	"github.com/firstrankcoders/credential-service/internal/service"
)

const (
	DefaultExchange = "auth.events"

	RoutingKeyEmailVerification = "email.verification"
	RoutingKeyPasswordReset     = "email.password_reset"

	defaultPublishTimeout = 2 * time.Second
)

var ErrPublisherClosed = errors.New("amqp publisher closed")

// EmailEvent is the message body consumed by the mail worker.
type EmailEvent struct {
	Type      string    `json:"type"`
	UserID    string    `json:"userId"`
	Email     string    `json:"email"`
	Token     string    `json:"token"`
	Link      string    `json:"link,omitempty"`
	ExpiresAt time.Time `json:"expiresAt"`
	RequestID string    `json:"requestId,omitempty"`
}

type session interface {
	Publish(ctx context.Context, exchange, routingKey string, msg amqp.Publishing) error
	IsClosed() bool
	Close() error
}

type dialFunc func(url, exchange string) (session, error)

// Publisher sends email notifications to a durable topic exchange with
// publisher confirms. A broken channel is redialled on the next publish.
type Publisher struct {
	url      string
	exchange string
	timeout  time.Duration
	logger   *slog.Logger
	dial     dialFunc
	now      func() time.Time

	mu     sync.Mutex
	sess   session
	closed bool
}

var (
	_ service.EmailVerificationNotifier = (*Publisher)(nil)
	_ service.PasswordResetNotifier     = (*Publisher)(nil)
)

func NewPublisher(url, exchange string, logger *slog.Logger) (*Publisher, error) {
	p := newPublisher(url, exchange, logger, dialAMQP)
	p.mu.Lock()
	defer p.mu.Unlock()
	if err := p.ensureSession(); err != nil {
		return nil, err
	}
	return p, nil
}

func newPublisher(url, exchange string, logger *slog.Logger, dial dialFunc) *Publisher {
	if exchange == "" {
		exchange = DefaultExchange
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Publisher{
		url:      url,
		exchange: exchange,
		timeout:  defaultPublishTimeout,
		logger:   logger,
		dial:     dial,
		now:      time.Now,
	}
}

func (p *Publisher) SendEmailVerification(ctx context.Context, n service.VerificationNotification) error {
	return p.publishJSON(ctx, RoutingKeyEmailVerification, EmailEvent{
		Type:      RoutingKeyEmailVerification,
		UserID:    n.UserID,
		Email:     n.Email,
		Token:     n.Token,
		Link:      n.VerificationURL,
		ExpiresAt: n.ExpiresAt.UTC(),
		RequestID: chimiddleware.GetReqID(ctx),
	})
}

func (p *Publisher) SendPasswordReset(ctx context.Context, n service.PasswordResetNotification) error {
	return p.publishJSON(ctx, RoutingKeyPasswordReset, EmailEvent{
		Type:      RoutingKeyPasswordReset,
		UserID:    n.UserID,
		Email:     n.Email,
		Token:     n.Token,
		Link:      n.ResetURL,
		ExpiresAt: n.ExpiresAt.UTC(),
		RequestID: chimiddleware.GetReqID(ctx),
	})
}

// Ping reports whether a live channel to the broker exists, dialling one if needed.
func (p *Publisher) Ping(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.ensureSession()
}

func (p *Publisher) Close() error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.closed = true
	if p.sess == nil {
		return nil
	}
	err := p.sess.Close()
	p.sess = nil
	return err
}

func (p *Publisher) publishJSON(ctx context.Context, routingKey string, event EmailEvent) error {
	body, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("marshal %s event: %w", routingKey, err)
	}
	ctx, span := observability.StartProducerSpan(ctx, "amqp.publish "+routingKey)
	defer span.End()
	msg := p.publishing(ctx, body)

	if _, ok := ctx.Deadline(); !ok {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, p.timeout)
		defer cancel()
	}

	p.mu.Lock()
	defer p.mu.Unlock()
	if err := p.ensureSession(); err != nil {
		span.RecordError(err)
		return err
	}
	if err := p.sess.Publish(ctx, p.exchange, routingKey, msg); err != nil {
		span.RecordError(err)
		_ = p.sess.Close()
		p.sess = nil
		return fmt.Errorf("publish %s: %w", routingKey, err)
	}
	p.logger.DebugContext(ctx, "notification published", "exchange", p.exchange, "routing_key", routingKey, "user_id", event.UserID)
	return nil
}

func (p *Publisher) publishing(ctx context.Context, body []byte) amqp.Publishing {
	headers := amqp.Table{}
	if reqID := chimiddleware.GetReqID(ctx); reqID != "" {
		headers["X-Request-ID"] = reqID
	}
	otel.GetTextMapPropagator().Inject(ctx, tableCarrier(headers))
	return amqp.Publishing{
		ContentType:  "application/json",
		DeliveryMode: amqp.Persistent,
		Timestamp:    p.now().UTC(),
		Headers:      headers,
		Body:         body,
	}
}

// ensureSession must be called with p.mu held.
func (p *Publisher) ensureSession() error {
	if p.closed {
		return ErrPublisherClosed
	}
	if p.sess != nil && !p.sess.IsClosed() {
		return nil
	}
	redial := p.sess != nil
	sess, err := p.dial(p.url, p.exchange)
	if err != nil {
		p.sess = nil
		return err
	}
	if redial {
		observability.RecordNotificationEvent(context.Background(), "amqp", "reconnect")
		p.logger.Info("amqp session re-established", "exchange", p.exchange)
	}
	p.sess = sess
	return nil
}

// tableCarrier adapts amqp headers to an OTel text map carrier.
type tableCarrier amqp.Table

func (c tableCarrier) Get(key string) string {
	v, _ := c[key].(string)
	return v
}

func (c tableCarrier) Set(key, value string) { c[key] = value }

func (c tableCarrier) Keys() []string {
	keys := make([]string, 0, len(c))
	for k := range c {
		keys = append(keys, k)
	}
	return keys
}
