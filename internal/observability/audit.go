package observability

import (
	"errors"
	"log/slog"
	"net"
	"net/http"
	"strings"
	"time"

	"go.opentelemetry.io/otel/trace"
)

const auditEventVersion = 1

type AuditInput struct {
	EventName   string
	ActorUserID string
	TargetType  string
	TargetID    string
	Action      string
	Outcome     string
	Reason      string
}

type AuditEvent struct {
	EventName    string `json:"event_name"`
	EventVersion int    `json:"event_version"`
	ActorUserID  string `json:"actor_user_id"`
	ActorIP      string `json:"actor_ip"`
	TargetType   string `json:"target_type"`
	TargetID     string `json:"target_id"`
	Action       string `json:"action"`
	Outcome      string `json:"outcome"`
	Reason       string `json:"reason"`
	RequestID    string `json:"request_id"`
	TraceID      string `json:"trace_id,omitempty"`
	SpanID       string `json:"span_id,omitempty"`
	TS           string `json:"ts"`
}

func BuildAuditEvent(r *http.Request, in AuditInput) AuditEvent {
	ev := AuditEvent{
		EventName:    in.EventName,
		EventVersion: auditEventVersion,
		ActorUserID:  defaultString(in.ActorUserID, "anonymous"),
		ActorIP:      clientIP(r),
		TargetType:   in.TargetType,
		TargetID:     defaultString(in.TargetID, "unknown"),
		Action:       in.Action,
		Outcome:      in.Outcome,
		Reason:       defaultString(in.Reason, "none"),
		RequestID:    r.Header.Get("X-Request-Id"),
		TS:           time.Now().UTC().Format(time.RFC3339),
	}
	if sc := trace.SpanContextFromContext(r.Context()); sc.IsValid() {
		ev.TraceID = sc.TraceID().String()
		ev.SpanID = sc.SpanID().String()
	}
	return ev
}

func (e AuditEvent) Validate() error {
	var missing []string
	for name, v := range map[string]string{
		"event_name":  e.EventName,
		"actor_ip":    e.ActorIP,
		"target_type": e.TargetType,
		"action":      e.Action,
		"outcome":     e.Outcome,
		"ts":          e.TS,
	} {
		if strings.TrimSpace(v) == "" {
			missing = append(missing, name)
		}
	}
	if e.EventVersion <= 0 {
		missing = append(missing, "event_version")
	}
	if len(missing) > 0 {
		return errors.New("audit event missing fields: " + strings.Join(missing, ", "))
	}
	return nil
}

// EmitAudit logs a structured audit record. Invalid events are still logged, flagged at warn level.
func EmitAudit(r *http.Request, in AuditInput) {
	ev := BuildAuditEvent(r, in)
	attrs := []any{
		"event_name", ev.EventName,
		"event_version", ev.EventVersion,
		"actor_user_id", ev.ActorUserID,
		"actor_ip", ev.ActorIP,
		"target_type", ev.TargetType,
		"target_id", ev.TargetID,
		"action", ev.Action,
		"outcome", ev.Outcome,
		"reason", ev.Reason,
		"request_id", ev.RequestID,
		"method", r.Method,
		"path", r.URL.Path,
	}
	if err := ev.Validate(); err != nil {
		slog.WarnContext(r.Context(), "audit", append(attrs, "audit_error", err.Error())...)
		return
	}
	slog.InfoContext(r.Context(), "audit", attrs...)
}

func clientIP(r *http.Request) string {
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}

func defaultString(v, def string) string {
	if strings.TrimSpace(v) == "" {
		return def
	}
	return v
}
