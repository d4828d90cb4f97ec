package middleware

import "github.com/rs/zerolog"

// ZerologLogger adapts a zerolog.Logger to the Logger interface.
type ZerologLogger struct {
	log zerolog.Logger
}

// NewZerologLogger wraps a zerolog logger for use with the middleware
// and peer logging hooks.
func NewZerologLogger(log zerolog.Logger) *ZerologLogger {
	return &ZerologLogger{log: log}
}

func (z *ZerologLogger) Info(msg string, fields ...Field) {
	z.emit(z.log.Info(), msg, fields)
}

func (z *ZerologLogger) Error(msg string, fields ...Field) {
	z.emit(z.log.Error(), msg, fields)
}

func (z *ZerologLogger) Debug(msg string, fields ...Field) {
	z.emit(z.log.Debug(), msg, fields)
}

func (z *ZerologLogger) Warn(msg string, fields ...Field) {
	z.emit(z.log.Warn(), msg, fields)
}

func (z *ZerologLogger) emit(ev *zerolog.Event, msg string, fields []Field) {
	for _, f := range fields {
		ev = ev.Interface(f.Key, f.Value)
	}
	ev.Msg(msg)
}
