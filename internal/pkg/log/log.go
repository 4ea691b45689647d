package log

import (
	"context"
	"fmt"
	"sync/atomic"

	"github.com/davecgh/go-spew/spew"
	"github.com/fatih/color"
)

type contextKey string

const contextKeyRequestID contextKey = "request_id"

var debugEnabled atomic.Bool

// SetDebug toggles output of Debug and DebugWithContext.
func SetDebug(enabled bool) {
	debugEnabled.Store(enabled)
}

// DebugEnabled reports whether debug output is on.
func DebugEnabled() bool {
	return debugEnabled.Load()
}

// WithRequestID adds request ID to context for logging
func WithRequestID(ctx context.Context, requestID string) context.Context {
	return context.WithValue(ctx, contextKeyRequestID, requestID)
}

// RequestID retrieves request ID from context
func RequestID(ctx context.Context) string {
	if ctx == nil {
		return ""
	}
	if id, ok := ctx.Value(contextKeyRequestID).(string); ok {
		return id
	}
	return ""
}

// formatLog formats log message with optional request ID
func formatLog(requestID string, format string, a ...interface{}) string {
	msg := fmt.Sprintf(format, a...)
	if requestID != "" {
		return fmt.Sprintf("[req_id=%s] %s", requestID, msg)
	}
	return msg
}

func emit(prefix string, attrs []color.Attribute, msg string) {
	tag := color.New(attrs...).SprintFunc()
	fmt.Printf("%s %s\n", tag(prefix), msg)
}

// Debug logs diagnostics when debug output is enabled
func Debug(format string, a ...interface{}) {
	if !DebugEnabled() {
		return
	}
	emit("[DEBUG]", []color.Attribute{color.FgCyan}, fmt.Sprintf(format, a...))
}

// DebugWithContext logs diagnostics with the request ID when debug output is enabled
func DebugWithContext(ctx context.Context, format string, a ...interface{}) {
	if !DebugEnabled() {
		return
	}
	emit("[DEBUG]", []color.Attribute{color.FgCyan}, formatLog(RequestID(ctx), format, a...))
}

// Info log information
func Info(format string, a ...interface{}) {
	emit("[INFO] ", []color.Attribute{color.FgWhite, color.BgGreen}, fmt.Sprintf(format, a...))
}

// InfoWithContext logs information with context (includes request ID if available)
func InfoWithContext(ctx context.Context, format string, a ...interface{}) {
	emit("[INFO] ", []color.Attribute{color.FgWhite, color.BgGreen}, formatLog(RequestID(ctx), format, a...))
}

// Warn log warning
func Warn(format string, a ...interface{}) {
	emit("[WARN] ", []color.Attribute{color.FgWhite, color.BgYellow}, fmt.Sprintf(format, a...))
}

// WarnWithContext logs warning with context (includes request ID if available)
func WarnWithContext(ctx context.Context, format string, a ...interface{}) {
	emit("[WARN] ", []color.Attribute{color.FgWhite, color.BgYellow}, formatLog(RequestID(ctx), format, a...))
}

// Error log error
func Error(format string, a ...interface{}) {
	emit("[Error]", []color.Attribute{color.FgRed}, fmt.Sprintf(format, a...))
}

// ErrorWithContext logs error with context (includes request ID if available)
func ErrorWithContext(ctx context.Context, format string, a ...interface{}) {
	emit("[Error]", []color.Attribute{color.FgRed}, formatLog(RequestID(ctx), format, a...))
}

// DebugStruct dumps values when debug output is enabled
func DebugStruct(a ...interface{}) {
	if !DebugEnabled() {
		return
	}
	fmt.Print(spew.Sdump(a...))
}
