package observability

import (
	"context"
	"errors"
	"log/slog"
	"net"
	"strings"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

var redisInstrumentationOnce sync.Once

// InstrumentRedisClient installs the command metrics hook on client. Only the first call per process has an effect.
func InstrumentRedisClient(client redis.UniversalClient, logger *slog.Logger) {
	if client == nil {
		return
	}
	if logger == nil {
		logger = slog.Default()
	}

	redisInstrumentationOnce.Do(func() {
		hook, err := newRedisMetricsHook(otel.Meter(meterName))
		if err != nil {
			logger.Warn("redis observability instrumentation disabled", "error", err)
			return
		}
		client.AddHook(hook)
		logger.Info("redis observability instrumentation enabled")
	})
}

type redisMetricsHook struct {
	cmdTotal   metric.Int64Counter
	cmdErrors  metric.Int64Counter
	cmdLatency metric.Float64Histogram
	keyspace   metric.Int64Counter
}

func newRedisMetricsHook(meter metric.Meter) (*redisMetricsHook, error) {
	var (
		h   redisMetricsHook
		err error
	)
	if h.cmdTotal, err = meter.Int64Counter("redis.command.total",
		metric.WithDescription("Redis commands executed, by command, status and keyspace")); err != nil {
		return nil, err
	}
	if h.cmdErrors, err = meter.Int64Counter("redis.command.errors",
		metric.WithDescription("Redis command failures other than a cache miss")); err != nil {
		return nil, err
	}
	if h.cmdLatency, err = meter.Float64Histogram("redis.command.duration",
		metric.WithUnit("s"), metric.WithDescription("Redis round trip latency")); err != nil {
		return nil, err
	}
	if h.keyspace, err = meter.Int64Counter("redis.keyspace.lookups",
		metric.WithDescription("Cache reads by keyspace and hit or miss")); err != nil {
		return nil, err
	}
	return &h, nil
}

func (h *redisMetricsHook) DialHook(next redis.DialHook) redis.DialHook {
	return next
}

func (h *redisMetricsHook) ProcessHook(next redis.ProcessHook) redis.ProcessHook {
	return func(ctx context.Context, cmd redis.Cmder) error {
		start := time.Now()
		err := next(ctx, cmd)
		h.observe(ctx, cmd, err)
		h.cmdLatency.Record(ctx, time.Since(start).Seconds(), metric.WithAttributes(
			attribute.String("command", strings.ToLower(cmd.Name())),
			attribute.String("status", redisCommandStatus(err)),
		))
		return err
	}
}

func (h *redisMetricsHook) ProcessPipelineHook(next redis.ProcessPipelineHook) redis.ProcessPipelineHook {
	return func(ctx context.Context, cmds []redis.Cmder) error {
		start := time.Now()
		err := next(ctx, cmds)
		h.cmdLatency.Record(ctx, time.Since(start).Seconds(), metric.WithAttributes(
			attribute.String("command", "pipeline"),
			attribute.String("status", redisCommandStatus(err)),
		))
		for _, cmd := range cmds {
			h.observe(ctx, cmd, cmd.Err())
		}
		return err
	}
}

func (h *redisMetricsHook) observe(ctx context.Context, cmd redis.Cmder, err error) {
	command := strings.ToLower(cmd.Name())
	space := keyspaceOf(cmd)
	status := redisCommandStatus(err)
	h.cmdTotal.Add(ctx, 1, metric.WithAttributes(
		attribute.String("command", command),
		attribute.String("status", status),
		attribute.String("keyspace", space),
	))
	if status == "error" {
		h.cmdErrors.Add(ctx, 1, metric.WithAttributes(
			attribute.String("command", command),
			attribute.String("error_type", classifyRedisError(err)),
		))
		return
	}
	if command == "get" {
		outcome := "hit"
		if status == "miss" {
			outcome = "miss"
		}
		h.keyspace.Add(ctx, 1, metric.WithAttributes(
			attribute.String("keyspace", space),
			attribute.String("outcome", outcome),
		))
	}
}

// keyspaceOf labels a command by the segment after the service prefix of its
// first key, e.g. "credential_service:profile_cache:..." is "profile_cache".
func keyspaceOf(cmd redis.Cmder) string {
	args := cmd.Args()
	if len(args) < 2 {
		return "none"
	}
	key, ok := args[1].(string)
	if !ok {
		return "none"
	}
	parts := strings.SplitN(key, ":", 3)
	if len(parts) < 2 {
		return "other"
	}
	return parts[1]
}

func redisCommandStatus(err error) string {
	switch {
	case err == nil:
		return "success"
	case errors.Is(err, redis.Nil):
		return "miss"
	default:
		return "error"
	}
}

func classifyRedisError(err error) string {
	var netErr net.Error
	switch {
	case errors.Is(err, context.DeadlineExceeded), errors.As(err, &netErr) && netErr.Timeout():
		return "timeout"
	case errors.Is(err, redis.ErrClosed), errors.As(err, &netErr):
		return "connection"
	default:
		return "other"
	}
}
