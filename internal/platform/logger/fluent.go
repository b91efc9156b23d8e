package logger

import (
	"errors"
	"strings"
	"time"

	"github.com/fluent/fluent-logger-golang/fluent"
)

// FluentLogger envía cada entrada a Fluent Bit. El tag es "<prefix>.<level>".
type FluentLogger struct {
	client poster
	level  Level
	prefix string
	base   map[string]any
}

type poster interface {
	Post(tag string, message any) error
}

type FluentOptions struct {
	Host   string
	Port   int
	Level  Level
	App    string
	Prefix string
}

// NewFluent abre el cliente en modo async: no falla si Fluent Bit aún no está arriba.
func NewFluent(opts FluentOptions) (*FluentLogger, func() error, error) {
	host := strings.TrimSpace(opts.Host)
	if host == "" {
		return nil, nil, errors.New("fluent host required")
	}
	port := opts.Port
	if port <= 0 {
		port = 24224
	}

	client, err := fluent.New(fluent.Config{
		FluentHost: host,
		FluentPort: port,
		Async:      true,
	})
	if err != nil {
		return nil, nil, err
	}

	fl := newFluentLogger(client, opts)
	return fl, client.Close, nil
}

func newFluentLogger(client poster, opts FluentOptions) *FluentLogger {
	prefix := strings.TrimSpace(opts.Prefix)
	if prefix == "" {
		prefix = "dogsearch"
	}
	base := map[string]any{}
	if app := strings.TrimSpace(opts.App); app != "" {
		base["app"] = app
	}
	return &FluentLogger{
		client: client,
		level:  opts.Level,
		prefix: prefix,
		base:   base,
	}
}

func (f *FluentLogger) With(fields map[string]any) Logger {
	if len(fields) == 0 {
		return f
	}
	return &FluentLogger{
		client: f.client,
		level:  f.level,
		prefix: f.prefix,
		base:   merge(f.base, fields),
	}
}

func (f *FluentLogger) Debug(msg string, fields map[string]any) { f.post(Debug, msg, fields) }
func (f *FluentLogger) Info(msg string, fields map[string]any)  { f.post(Info, msg, fields) }
func (f *FluentLogger) Warn(msg string, fields map[string]any)  { f.post(Warn, msg, fields) }
func (f *FluentLogger) Error(msg string, fields map[string]any) { f.post(Error, msg, fields) }

func (f *FluentLogger) post(lvl Level, msg string, fields map[string]any) {
	if lvl < f.level {
		return
	}
	data := merge(f.base, fields)
	data["level"] = lvl.String()
	data["message"] = msg
	data["timestamp"] = time.Now().UTC().Format(time.RFC3339Nano)

	// El logging nunca debe tumbar el request.
	_ = f.client.Post(f.prefix+"."+lvl.String(), data)
}

// Multi reparte cada entrada a todos los loggers.
type Multi []Logger

func NewMulti(loggers ...Logger) Logger {
	out := make(Multi, 0, len(loggers))
	for _, l := range loggers {
		if l != nil {
			out = append(out, l)
		}
	}
	if len(out) == 1 {
		return out[0]
	}
	return out
}

func (m Multi) With(fields map[string]any) Logger {
	out := make(Multi, 0, len(m))
	for _, l := range m {
		out = append(out, l.With(fields))
	}
	return out
}

func (m Multi) Debug(msg string, fields map[string]any) {
	for _, l := range m {
		l.Debug(msg, fields)
	}
}

func (m Multi) Info(msg string, fields map[string]any) {
	for _, l := range m {
		l.Info(msg, fields)
	}
}

func (m Multi) Warn(msg string, fields map[string]any) {
	for _, l := range m {
		l.Warn(msg, fields)
	}
}

func (m Multi) Error(msg string, fields map[string]any) {
	for _, l := range m {
		l.Error(msg, fields)
	}
}

func merge(a, b map[string]any) map[string]any {
	out := make(map[string]any, len(a)+len(b))
	for k, v := range a {
		out[k] = v
	}
	for k, v := range b {
		if strings.TrimSpace(k) == "" {
			continue
		}
		if err, ok := v.(error); ok {
			v = err.Error()
		}
		out[k] = v
	}
	return out
}
