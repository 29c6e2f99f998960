package logging

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"
	"time"
)

// Format represents the log output format
type Format string

const (
	FormatJSON Format = "json"
	FormatText Format = "text"
)

// ParseFormat parses a format name; empty means text
func ParseFormat(s string) (Format, error) {
	switch Format(strings.ToLower(s)) {
	case FormatText, "":
		return FormatText, nil
	case FormatJSON:
		return FormatJSON, nil
	default:
		return FormatText, fmt.Errorf("invalid log format: %s (must be text or json)", s)
	}
}

// Config configures a StreamLogger
type Config struct {
	// Path is the log file path; when empty, entries go to Writer
	Path string
	// Writer receives entries when Path is empty (os.Stderr when nil)
	Writer io.Writer
	Format Format
	Level  Level
	// MaxSize is the file size in bytes that triggers rotation (0 = never)
	MaxSize int64
	// MaxBackups is the number of rotated files kept
	MaxBackups int
}

// sink is shared by a logger and every logger derived with WithFields
type sink struct {
	mu   sync.Mutex
	cfg  Config
	file *os.File
	w    io.Writer
	size int64
}

// StreamLogger writes text or JSON lines to a file or a stream
type StreamLogger struct {
	sink   *sink
	fields Fields
}

// New creates a StreamLogger. A file path is created (with parent
// directories) and opened for append.
func New(cfg Config) (*StreamLogger, error) {
	s := &sink{cfg: cfg}

	if cfg.Path == "" {
		s.w = cfg.Writer
		if s.w == nil {
			s.w = os.Stderr
		}
		return &StreamLogger{sink: s}, nil
	}

	if err := os.MkdirAll(filepath.Dir(cfg.Path), 0755); err != nil {
		return nil, fmt.Errorf("failed to create log directory: %w", err)
	}
	if err := s.open(); err != nil {
		return nil, err
	}
	return &StreamLogger{sink: s}, nil
}

func (s *sink) open() error {
	file, err := os.OpenFile(s.cfg.Path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
	if err != nil {
		return fmt.Errorf("failed to open log file: %w", err)
	}
	info, err := file.Stat()
	if err != nil {
		file.Close()
		return fmt.Errorf("failed to stat log file: %w", err)
	}
	s.file = file
	s.w = file
	s.size = info.Size()
	return nil
}

func (l *StreamLogger) Debug(ctx context.Context, msg string, fields Fields) {
	l.log(DebugLevel, msg, nil, fields)
}

func (l *StreamLogger) Info(ctx context.Context, msg string, fields Fields) {
	l.log(InfoLevel, msg, nil, fields)
}

func (l *StreamLogger) Warn(ctx context.Context, msg string, fields Fields) {
	l.log(WarnLevel, msg, nil, fields)
}

func (l *StreamLogger) Error(ctx context.Context, msg string, err error, fields Fields) {
	l.log(ErrorLevel, msg, err, fields)
}

// WithFields returns a logger sharing the same output
func (l *StreamLogger) WithFields(fields Fields) Logger {
	return &StreamLogger{sink: l.sink, fields: merge(l.fields, fields)}
}

// Close closes the log file. Stream output is left open.
func (l *StreamLogger) Close() error {
	s := l.sink
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.file == nil {
		return nil
	}
	err := s.file.Close()
	s.file = nil
	s.w = io.Discard
	return err
}

func (l *StreamLogger) log(level Level, msg string, err error, fields Fields) {
	s := l.sink
	if level < s.cfg.Level {
		return
	}

	all := merge(l.fields, fields)
	now := time.Now().UTC()

	var line []byte
	if s.cfg.Format == FormatJSON {
		line = formatJSON(now, level, msg, err, all)
	} else {
		line = formatText(now, level, msg, err, all)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.file != nil && s.cfg.MaxSize > 0 && s.size+int64(len(line)) > s.cfg.MaxSize && s.size > 0 {
		s.rotate()
	}
	n, _ := s.w.Write(line)
	s.size += int64(n)
}

func formatJSON(ts time.Time, level Level, msg string, err error, fields Fields) []byte {
	entry := make(map[string]interface{}, len(fields)+4)
	for k, v := range fields {
		entry[k] = v
	}
	entry["timestamp"] = ts.Format(time.RFC3339)
	entry["level"] = level.String()
	entry["message"] = msg
	if err != nil {
		entry["error"] = err.Error()
	}

	data, jsonErr := json.Marshal(entry)
	if jsonErr != nil {
		data, _ = json.Marshal(map[string]string{
			"timestamp": ts.Format(time.RFC3339),
			"level":     level.String(),
			"message":   msg,
			"log_error": jsonErr.Error(),
		})
	}
	return append(data, '\n')
}

func formatText(ts time.Time, level Level, msg string, err error, fields Fields) []byte {
	var b strings.Builder
	fmt.Fprintf(&b, "%s [%s] %s", ts.Format("2006-01-02T15:04:05.000Z"), level, msg)
	if err != nil {
		fmt.Fprintf(&b, " error=%q", err.Error())
	}

	keys := make([]string, 0, len(fields))
	for k := range fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		fmt.Fprintf(&b, " %s=%v", k, fields[k])
	}
	b.WriteByte('\n')
	return []byte(b.String())
}

// rotate shifts path.N to path.N+1, moves the live file to path.1 and
// reopens. Caller holds s.mu.
func (s *sink) rotate() {
	s.file.Close()
	s.file = nil

	path := s.cfg.Path
	if s.cfg.MaxBackups > 0 {
		os.Remove(fmt.Sprintf("%s.%d", path, s.cfg.MaxBackups))
		for i := s.cfg.MaxBackups - 1; i >= 1; i-- {
			os.Rename(fmt.Sprintf("%s.%d", path, i), fmt.Sprintf("%s.%d", path, i+1))
		}
		os.Rename(path, path+".1")
	} else {
		os.Remove(path)
	}

	if err := s.open(); err != nil {
		s.w = io.Discard
		s.size = 0
	}
}

var _ Logger = (*StreamLogger)(nil)
var _ Logger = (*NullLogger)(nil)
