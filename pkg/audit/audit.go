package audit

import (
	"context"
	"time"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Action names a write recorded in the audit trail
type Action string

const (
	ActionApplicationCreated   Action = "application_created"
	ActionApplicationStatus    Action = "application_status_changed"
	ActionApplicationInterview Action = "application_interview_scheduled"
	ActionApplicationWithdrawn Action = "application_withdrawn"
	ActionApplicationDeleted   Action = "application_deleted"
	ActionJobCreated           Action = "job_created"
	ActionJobUpdated           Action = "job_updated"
	ActionJobDeleted           Action = "job_deleted"
	ActionJobsSynced           Action = "external_jobs_synced"
	ActionProfileCreated       Action = "profile_created"
	ActionProfileUpdated       Action = "profile_updated"
	ActionRoleAssigned         Action = "role_assigned"
	ActionInstitutionAdded     Action = "institution_registered"
)

// Entry is one audited write
type Entry struct {
	Action     Action
	ActorID    string
	Resource   string // "application", "job", ...
	ResourceID interface{}
	Details    map[string]interface{}
}

// ContextFunc extracts request-scoped values (actor, request id) from a context.
type ContextFunc func(ctx context.Context) (actorID, requestID string)

// Logger writes audit entries as structured JSON
type Logger struct {
	zapLogger   *zap.Logger
	serviceName string
	environment string
	fromContext ContextFunc
}

// New builds a production zap logger writing audit entries to stdout
func New(serviceName, environment string, fromContext ContextFunc) *Logger {
	config := zap.NewProductionConfig()
	config.EncoderConfig.TimeKey = "timestamp"
	config.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
	config.EncoderConfig.MessageKey = "message"
	config.OutputPaths = []string{"stdout"}
	config.ErrorOutputPaths = []string{"stderr"}

	zl, err := config.Build(zap.AddCaller())
	if err != nil {
		zl, _ = zap.NewProduction()
	}
	return &Logger{
		zapLogger:   zl,
		serviceName: serviceName,
		environment: environment,
		fromContext: fromContext,
	}
}

// NewWithZap wraps an existing zap logger, mainly for tests
func NewWithZap(zl *zap.Logger, fromContext ContextFunc) *Logger {
	return &Logger{zapLogger: zl, serviceName: "test", environment: "test", fromContext: fromContext}
}

// NewNop returns a logger that discards everything
func NewNop() *Logger {
	return &Logger{zapLogger: zap.NewNop()}
}

// Record writes an entry. Missing actor ids are filled from the context.
func (l *Logger) Record(ctx context.Context, entry Entry) {
	if l == nil || l.zapLogger == nil {
		return
	}

	var requestID string
	if l.fromContext != nil {
		actorID, reqID := l.fromContext(ctx)
		if entry.ActorID == "" {
			entry.ActorID = actorID
		}
		requestID = reqID
	}

	fields := []zap.Field{
		zap.String("service", l.serviceName),
		zap.String("env", l.environment),
		zap.String("action", string(entry.Action)),
		zap.String("resource", entry.Resource),
		zap.Any("resource_id", entry.ResourceID),
		zap.Time("at", time.Now().UTC()),
	}
	if entry.ActorID != "" {
		fields = append(fields, zap.String("actor_id", entry.ActorID))
	}
	if requestID != "" {
		fields = append(fields, zap.String("request_id", requestID))
	}
	if len(entry.Details) > 0 {
		fields = append(fields, zap.Any("details", entry.Details))
	}

	l.zapLogger.Info("audit", fields...)
}

// Sync flushes buffered entries
func (l *Logger) Sync() error {
	if l == nil || l.zapLogger == nil {
		return nil
	}
	return l.zapLogger.Sync()
}
