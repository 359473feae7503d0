package observability

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/firstrankcoders/credential-service/internal/config"

	"go.opentelemetry.io/contrib/bridges/otelslog"
	otlploggrpc "go.opentelemetry.io/otel/exporters/otlp/otlplog/otlploggrpc"
	sdklog "go.opentelemetry.io/otel/sdk/log"
	"go.opentelemetry.io/otel/trace"
)

const redacted = "[REDACTED]"

// sensitiveKeys never reach a log sink with their value intact.
var sensitiveKeys = map[string]struct{}{
	"password":      {},
	"old_password":  {},
	"new_password":  {},
	"password_hash": {},
	"token":         {},
	"access_token":  {},
	"refresh_token": {},
	"authorization": {},
}

// fanoutHandler writes every record to each enabled sink.
type fanoutHandler struct {
	sinks []slog.Handler
}

func (h *fanoutHandler) Enabled(ctx context.Context, level slog.Level) bool {
	for _, s := range h.sinks {
		if s.Enabled(ctx, level) {
			return true
		}
	}
	return false
}

func (h *fanoutHandler) Handle(ctx context.Context, r slog.Record) error {
	var errs []error
	for _, s := range h.sinks {
		if !s.Enabled(ctx, r.Level) {
			continue
		}
		if err := s.Handle(ctx, r.Clone()); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

func (h *fanoutHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	return h.derive(func(s slog.Handler) slog.Handler { return s.WithAttrs(attrs) })
}

func (h *fanoutHandler) WithGroup(name string) slog.Handler {
	return h.derive(func(s slog.Handler) slog.Handler { return s.WithGroup(name) })
}

func (h *fanoutHandler) derive(fn func(slog.Handler) slog.Handler) slog.Handler {
	next := make([]slog.Handler, len(h.sinks))
	for i, s := range h.sinks {
		next[i] = fn(s)
	}
	return &fanoutHandler{sinks: next}
}

// spanContextHandler stamps trace_id and span_id when the context carries a valid span.
type spanContextHandler struct {
	next slog.Handler
}

func (h *spanContextHandler) Enabled(ctx context.Context, level slog.Level) bool {
	return h.next.Enabled(ctx, level)
}

func (h *spanContextHandler) Handle(ctx context.Context, r slog.Record) error {
	if sc := trace.SpanContextFromContext(ctx); sc.IsValid() {
		r.AddAttrs(
			slog.String("trace_id", sc.TraceID().String()),
			slog.String("span_id", sc.SpanID().String()),
		)
	}
	return h.next.Handle(ctx, r)
}

func (h *spanContextHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	return &spanContextHandler{next: h.next.WithAttrs(attrs)}
}

func (h *spanContextHandler) WithGroup(name string) slog.Handler {
	return &spanContextHandler{next: h.next.WithGroup(name)}
}

func redactSensitive(_ []string, a slog.Attr) slog.Attr {
	if _, ok := sensitiveKeys[strings.ToLower(a.Key)]; ok {
		return slog.String(a.Key, redacted)
	}
	return a
}

func newJSONHandler(w io.Writer, level string) slog.Handler {
	return slog.NewJSONHandler(w, &slog.HandlerOptions{
		Level:       parseLogLevel(level),
		ReplaceAttr: redactSensitive,
	})
}

// NewBootstrapLogger is used while the telemetry runtime is still starting.
func NewBootstrapLogger(cfg *config.Config) *slog.Logger {
	return slog.New(newJSONHandler(os.Stdout, cfg.OTELLogLevel)).With("service", cfg.OTELServiceName)
}

// InitLogger builds the process logger and installs it as the slog default.
// With OTel logs enabled every record is also handed to the OTLP bridge.
func InitLogger(cfg *config.Config, lp *sdklog.LoggerProvider) *slog.Logger {
	handler := newJSONHandler(os.Stdout, cfg.OTELLogLevel)
	if cfg.OTELLogsEnabled && lp != nil {
		bridge := otelslog.NewHandler(cfg.OTELServiceName, otelslog.WithLoggerProvider(lp))
		handler = &fanoutHandler{sinks: []slog.Handler{handler, bridge}}
	}
	l := slog.New(&spanContextHandler{next: handler}).With("service", cfg.OTELServiceName, "env", cfg.Env)
	slog.SetDefault(l)
	return l
}

// WarnInsecureDefaults logs one warning per insecure fallback still in effect.
func WarnInsecureDefaults(cfg *config.Config, logger *slog.Logger) {
	if cfg.UsesDefaultJWTSecrets() {
		logger.Warn("jwt signing secrets fall back to built-in defaults; set JWT_ACCESS_SECRET and JWT_REFRESH_SECRET",
			"env", cfg.Env)
	}
	if cfg.NotificationsAMQPEnabled && strings.Contains(cfg.NotificationsAMQPURL, "guest:guest@") {
		logger.Warn("amqp notifications use the broker's guest account", "env", cfg.Env)
	}
}

func InitLogs(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*sdklog.LoggerProvider, error) {
	if !cfg.OTELLogsEnabled {
		logger.Info("otel logs disabled")
		return nil, nil
	}

	opts := []otlploggrpc.Option{otlploggrpc.WithEndpoint(cfg.OTELExporterOTLPEndpoint)}
	if cfg.OTELExporterOTLPInsecure {
		opts = append(opts, otlploggrpc.WithInsecure())
	}
	exporter, err := otlploggrpc.New(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("create otlp log exporter: %w", err)
	}
	res, err := serviceResource(ctx, cfg)
	if err != nil {
		return nil, err
	}

	lp := sdklog.NewLoggerProvider(
		sdklog.WithResource(res),
		sdklog.WithProcessor(sdklog.NewBatchProcessor(exporter)),
	)
	logger.Info("otel logs initialized", "endpoint", cfg.OTELExporterOTLPEndpoint)
	return lp, nil
}

func parseLogLevel(v string) slog.Level {
	var level slog.Level
	if err := level.UnmarshalText([]byte(strings.TrimSpace(v))); err != nil {
		if strings.EqualFold(strings.TrimSpace(v), "warning") {
			return slog.LevelWarn
		}
		return slog.LevelInfo
	}
	return level
}
