package logger

import (
	"context"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
)

// Logger wraps slog.Logger with additional functionality
type Logger struct {
	*slog.Logger
}

// New creates a new logger instance
func New() *Logger {
	// Get log level from environment
	level := getLogLevel(os.Getenv("LOG_LEVEL"))

	opts := &slog.HandlerOptions{
		Level:     level,
		AddSource: level == slog.LevelDebug,
	}

	// Text handler for development, JSON for production
	var handler slog.Handler
	if gin.Mode() == gin.DebugMode {
		handler = slog.NewTextHandler(os.Stdout, opts)
	} else {
		handler = slog.NewJSONHandler(os.Stdout, opts)
	}

	return &Logger{
		Logger: slog.New(handler),
	}
}

var defaultLogger *Logger

// GetDefault returns the shared logger instance, creating it on first use
func GetDefault() *Logger {
	if defaultLogger == nil {
		defaultLogger = New()
	}
	return defaultLogger
}

// getLogLevel converts string to slog.Level
func getLogLevel(levelStr string) slog.Level {
	switch strings.ToLower(levelStr) {
	case "debug":
		return slog.LevelDebug
	case "info":
		return slog.LevelInfo
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// WithRequestID adds request ID to logger context
func (l *Logger) WithRequestID(requestID string) *Logger {
	return &Logger{
		Logger: l.Logger.With(slog.String("request_id", requestID)),
	}
}

// WithError adds error to logger context
func (l *Logger) WithError(err error) *Logger {
	return &Logger{
		Logger: l.Logger.With(slog.String("error", err.Error())),
	}
}

// WithFields adds multiple fields to logger context
func (l *Logger) WithFields(fields map[string]interface{}) *Logger {
	args := make([]interface{}, 0, len(fields)*2)
	for k, v := range fields {
		args = append(args, slog.Any(k, v))
	}
	return &Logger{
		Logger: l.Logger.With(args...),
	}
}

// HTTP logging methods

// LogHTTPRequest logs an HTTP request
func (l *Logger) LogHTTPRequest(c *gin.Context, duration time.Duration) {
	l.Logger.InfoContext(c.Request.Context(),
		"HTTP Request",
		slog.String("method", c.Request.Method),
		slog.String("path", c.Request.URL.Path),
		slog.Int("status", c.Writer.Status()),
		slog.Duration("duration", duration),
		slog.String("ip", c.ClientIP()),
	)
}

// Business logic logging methods

// LogBookingCreated logs a committed booking
func (l *Logger) LogBookingCreated(ctx context.Context, bookingID string, concertID uint, date time.Time, seats int) {
	l.Logger.InfoContext(ctx,
		"Booking Created",
		slog.String("booking_id", bookingID),
		slog.Uint64("concert_id", uint64(concertID)),
		slog.Time("date", date),
		slog.Int("seats", seats),
	)
}

// LogBookingCancelled logs a cancelled booking
func (l *Logger) LogBookingCancelled(ctx context.Context, bookingID string, seats int) {
	l.Logger.InfoContext(ctx,
		"Booking Cancelled",
		slog.String("booking_id", bookingID),
		slog.Int("seats", seats),
	)
}

// LogNotificationDelivered logs a threshold notification handed to a subscriber
func (l *Logger) LogNotificationDelivered(ctx context.Context, concertID uint, date time.Time, freeSeats int) {
	l.Logger.InfoContext(ctx,
		"Subscriber Notified",
		slog.Uint64("concert_id", uint64(concertID)),
		slog.Time("date", date),
		slog.Int("free_seats", freeSeats),
	)
}

// LogNotificationFailed logs a per-subscriber delivery failure; never fatal
func (l *Logger) LogNotificationFailed(ctx context.Context, concertID uint, date time.Time, reason string) {
	l.Logger.WarnContext(ctx,
		"Subscriber Delivery Failed",
		slog.Uint64("concert_id", uint64(concertID)),
		slog.Time("date", date),
		slog.String("reason", reason),
	)
}
