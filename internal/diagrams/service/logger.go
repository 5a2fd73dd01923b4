package service

import (
	"context"
	"log"

	"github.com/GrahamCHill/diagram-studio/internal/bootstrap"
)

// Logger provides request-scoped logging for the diagram service.
type Logger struct {
	requestID string
}

// NewLogger creates a logger carrying the request ID from context when
// the middleware set one.
func NewLogger(ctx context.Context) *Logger {
	requestID := "unknown"
	if rid := bootstrap.GetRequestID(ctx); rid != "" {
		requestID = rid
	}
	return &Logger{requestID: requestID}
}

// LogError logs an error with context.
func (l *Logger) LogError(operation string, err error) {
	log.Printf("[error] request_id=%s operation=%s error=%v", l.requestID, operation, err)
}

// LogInfof logs a formatted info message with context.
func (l *Logger) LogInfof(operation string, format string, args ...interface{}) {
	log.Printf("[info] request_id=%s operation=%s "+format, append([]interface{}{l.requestID, operation}, args...)...)
}

// LogWarnf logs a formatted warning with context.
func (l *Logger) LogWarnf(operation string, format string, args ...interface{}) {
	log.Printf("[warn] request_id=%s operation=%s "+format, append([]interface{}{l.requestID, operation}, args...)...)
}
