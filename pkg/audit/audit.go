package audit

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"strings"
	"sync"
	"time"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// EventType represents the type of audited action
type EventType string

const (
	EventAccessDenied         EventType = "access_denied"
	EventRateLimitTriggered   EventType = "rate_limit_triggered"
	EventUserRegistered       EventType = "user_registered"
	EventPostingStateChanged  EventType = "posting_state_changed"
	EventPostingDeleted       EventType = "posting_deleted"
	EventApplicationCreated   EventType = "application_created"
	EventApplicationStatusSet EventType = "application_status_changed"
	EventRequirementRemoved   EventType = "requirement_removed"
)

// Event is a single audit record.
type Event struct {
	Timestamp time.Time
	Event     EventType
	ActorID   string
	ActorRole string
	Resource  string
	// ResourceID is the primary key of the affected row, if any.
	ResourceID int64
	IP         string
	RequestID  string
	Details    map[string]interface{}
}

// Logger writes audit events through zap.
type Logger struct {
	zapLogger   *zap.Logger
	serviceName string
	environment string
}

var (
	mu            sync.RWMutex
	defaultLogger *Logger
)

// Init builds the production zap logger and installs it as the default.
func Init(serviceName, environment string) *Logger {
	config := zap.NewProductionConfig()
	config.EncoderConfig.TimeKey = "timestamp"
	config.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
	config.EncoderConfig.MessageKey = "message"
	config.OutputPaths = []string{"stdout"}
	config.ErrorOutputPaths = []string{"stderr"}

	zl, err := config.Build(zap.AddCaller(), zap.AddStacktrace(zapcore.ErrorLevel))
	if err != nil {
		zl, _ = zap.NewProduction()
	}

	l := New(zl, serviceName, environment)
	SetDefault(l)
	return l
}

// New wraps an existing zap logger.
func New(zl *zap.Logger, serviceName, environment string) *Logger {
	return &Logger{zapLogger: zl, serviceName: serviceName, environment: environment}
}

func SetDefault(l *Logger) {
	mu.Lock()
	defaultLogger = l
	mu.Unlock()
}

// Default returns the installed logger, or a no-op logger before Init.
func Default() *Logger {
	mu.RLock()
	l := defaultLogger
	mu.RUnlock()
	if l == nil {
		return New(zap.NewNop(), "", "")
	}
	return l
}

// Record logs an event through the default logger.
func Record(ctx context.Context, e Event) {
	Default().Log(ctx, e)
}

func (l *Logger) Log(_ context.Context, e Event) {
	if e.Timestamp.IsZero() {
		e.Timestamp = time.Now().UTC()
	}

	level := zapcore.InfoLevel
	switch e.Event {
	case EventAccessDenied, EventRateLimitTriggered:
		level = zapcore.WarnLevel
	}

	fields := []zap.Field{
		zap.String("service", l.serviceName),
		zap.String("env", l.environment),
		zap.String("event", string(e.Event)),
		zap.Time("at", e.Timestamp),
	}
	if e.ActorID != "" {
		fields = append(fields, zap.String("actor", HashValue(e.ActorID)))
	}
	if e.ActorRole != "" {
		fields = append(fields, zap.String("actor_role", e.ActorRole))
	}
	if e.Resource != "" {
		fields = append(fields, zap.String("resource", e.Resource))
	}
	if e.ResourceID != 0 {
		fields = append(fields, zap.Int64("resource_id", e.ResourceID))
	}
	if e.IP != "" {
		fields = append(fields, zap.String("ip", e.IP))
	}
	if e.RequestID != "" {
		fields = append(fields, zap.String("request_id", e.RequestID))
	}
	if len(e.Details) > 0 {
		fields = append(fields, zap.Any("details", e.Details))
	}

	l.zapLogger.Log(level, string(e.Event), fields...)
}

// Sync flushes any buffered log entries
func (l *Logger) Sync() error {
	return l.zapLogger.Sync()
}

// MaskEmail masks an email for logging (e.g., "j***@example.com")
func MaskEmail(email string) string {
	at := strings.IndexByte(email, '@')
	if len(email) < 3 || at < 0 {
		return "***"
	}
	if at <= 1 {
		return "***" + email[at:]
	}
	return string(email[0]) + "***" + email[at:]
}

// HashValue returns a short SHA256 digest so identifiers stay correlatable
// without being logged in clear.
func HashValue(value string) string {
	hash := sha256.Sum256([]byte(value))
	return hex.EncodeToString(hash[:8])
}
