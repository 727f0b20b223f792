package logging

import (
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"sync"
	"time"
)

type Level int

const (
	Debug Level = iota
	Info
	Warn
	Error
)

var levelNames = [...]string{Debug: "debug", Info: "info", Warn: "warn", Error: "error"}

func (l Level) String() string {
	if l < Debug || l > Error {
		return "info"
	}
	return levelNames[l]
}

func ParseLevel(raw string) Level {
	name := strings.ToLower(strings.TrimSpace(raw))
	if name == "warning" {
		return Warn
	}
	for level, candidate := range levelNames {
		if candidate == name {
			return Level(level)
		}
	}
	return Info
}

type Field struct {
	Key   string
	Value any
}

func F(key string, value any) Field {
	return Field{Key: key, Value: value}
}

func Err(err error) Field {
	return Field{Key: "error", Value: err}
}

// Logger writes one logfmt line per call: ts, level and msg first, then the
// fields in the order given.
type Logger interface {
	Debug(msg string, fields ...Field)
	Info(msg string, fields ...Field)
	Warn(msg string, fields ...Field)
	Error(msg string, fields ...Field)
}

type lineLogger struct {
	mu    sync.Mutex
	out   io.Writer
	level Level
	now   func() time.Time
}

func New(out io.Writer, level Level) Logger {
	if out == nil {
		out = os.Stderr
	}
	return &lineLogger{out: out, level: level, now: time.Now}
}

// Nop discards everything.
func Nop() Logger {
	return New(io.Discard, Error+1)
}

// OpenFile appends to path, creating parent directories. The caller closes the
// returned closer once logging is done.
func OpenFile(path string, level Level) (Logger, io.Closer, error) {
	path = strings.TrimSpace(path)
	if path == "" {
		return nil, nil, errors.New("log path is required")
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o700); err != nil {
		return nil, nil, err
	}
	file, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o600)
	if err != nil {
		return nil, nil, err
	}
	return New(file, level), file, nil
}

func (l *lineLogger) Debug(msg string, fields ...Field) { l.write(Debug, msg, fields) }
func (l *lineLogger) Info(msg string, fields ...Field)  { l.write(Info, msg, fields) }
func (l *lineLogger) Warn(msg string, fields ...Field)  { l.write(Warn, msg, fields) }
func (l *lineLogger) Error(msg string, fields ...Field) { l.write(Error, msg, fields) }

func (l *lineLogger) write(level Level, msg string, fields []Field) {
	if l == nil || level < l.level {
		return
	}
	buf := make([]byte, 0, 128)
	buf = appendPair(buf, "ts", l.now().UTC().Format(time.RFC3339Nano))
	buf = appendPair(buf, "level", level.String())
	buf = appendPair(buf, "msg", msg)
	for _, field := range fields {
		buf = appendPair(buf, field.Key, field.Value)
	}
	buf[len(buf)-1] = '\n'

	l.mu.Lock()
	defer l.mu.Unlock()
	_, _ = l.out.Write(buf)
}

// appendPair appends key=value and a trailing space.
func appendPair(buf []byte, key string, value any) []byte {
	buf = append(buf, key...)
	buf = append(buf, '=')
	switch v := value.(type) {
	case nil:
		buf = append(buf, "null"...)
	case bool:
		buf = strconv.AppendBool(buf, v)
	case int:
		buf = strconv.AppendInt(buf, int64(v), 10)
	case int64:
		buf = strconv.AppendInt(buf, v, 10)
	case time.Time:
		buf = append(buf, v.UTC().Format(time.RFC3339Nano)...)
	case error:
		buf = appendText(buf, v.Error())
	case fmt.Stringer:
		buf = appendText(buf, v.String())
	case string:
		buf = appendText(buf, v)
	default:
		buf = appendText(buf, fmt.Sprint(v))
	}
	return append(buf, ' ')
}

func appendText(buf []byte, s string) []byte {
	if s == "" || strings.ContainsAny(s, " \t\r\n\"=") {
		return strconv.AppendQuote(buf, s)
	}
	return append(buf, s...)
}

// NewRequestID returns 16 hex chars, falling back to a clock value when the
// random source fails.
func NewRequestID() string {
	var raw [8]byte
	if _, err := rand.Read(raw[:]); err != nil {
		return strconv.FormatInt(time.Now().UnixNano(), 36)
	}
	return hex.EncodeToString(raw[:])
}
