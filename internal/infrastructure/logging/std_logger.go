package logging

import (
	"encoding/json"
	"fmt"
	"io"
	"log"
	"os"
	"sort"
	"strings"
	"sync"
	"time"

	applogging "github.com/andrescamacho/minehaul-go/internal/application/logging"
	"github.com/andrescamacho/minehaul-go/internal/domain/shared"
	"github.com/andrescamacho/minehaul-go/internal/infrastructure/config"
)

var levelRank = map[string]int{
	applogging.LevelDebug: 0,
	applogging.LevelInfo:  1,
	applogging.LevelWarn:  2,
	applogging.LevelError: 3,
}

// StdLogger writes handler log entries through the standard library logger.
// Repeated identical messages inside the dedup window are dropped so a paced
// playback cannot flood the output.
type StdLogger struct {
	out      *log.Logger
	minLevel int
	json     bool
	clock    shared.Clock

	dedupMu     sync.Mutex
	dedupCache  map[string]time.Time
	dedupWindow time.Duration
}

// NewStdLogger creates a logger writing to w
func NewStdLogger(w io.Writer, level, format string, clock shared.Clock) *StdLogger {
	if clock == nil {
		clock = shared.NewRealClock()
	}
	rank, ok := levelRank[normalizeLevel(level)]
	if !ok {
		rank = levelRank[applogging.LevelInfo]
	}
	return &StdLogger{
		out:        log.New(w, "", 0),
		minLevel:   rank,
		json:       format == "json",
		clock:      clock,
		dedupCache: make(map[string]time.Time),
	}
}

// WithDedupWindow drops identical level+message pairs logged within window
func (l *StdLogger) WithDedupWindow(window time.Duration) *StdLogger {
	l.dedupWindow = window
	return l
}

// NewFromConfig builds the logger described by the logging section.
// The returned closer releases the log file, if any.
func NewFromConfig(cfg config.LoggingConfig) (*StdLogger, io.Closer, error) {
	var (
		w      io.Writer
		closer io.Closer = io.NopCloser(nil)
	)
	switch cfg.Output {
	case "stdout":
		w = os.Stdout
	case "file":
		f, err := os.OpenFile(cfg.FilePath, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0644)
		if err != nil {
			return nil, nil, fmt.Errorf("failed to open log file: %w", err)
		}
		w, closer = f, f
	default:
		w = os.Stderr
	}
	return NewStdLogger(w, cfg.Level, cfg.Format, nil), closer, nil
}

// Log implements the application Logger
func (l *StdLogger) Log(level, message string, metadata map[string]interface{}) {
	level = normalizeLevel(level)
	if rank, ok := levelRank[level]; ok && rank < l.minLevel {
		return
	}

	now := l.clock.Now()
	if l.duplicate(level+"|"+message, now) {
		return
	}

	if l.json {
		entry := make(map[string]interface{}, len(metadata)+3)
		for k, v := range metadata {
			entry[k] = v
		}
		entry["time"] = now.UTC().Format(time.RFC3339Nano)
		entry["level"] = level
		entry["msg"] = message
		data, err := json.Marshal(entry)
		if err != nil {
			l.out.Printf(`{"level":"ERROR","msg":"unencodable log entry","error":%q}`, err.Error())
			return
		}
		l.out.Println(string(data))
		return
	}

	var b strings.Builder
	fmt.Fprintf(&b, "%s %-7s %s", now.Format("15:04:05.000"), level, message)
	keys := make([]string, 0, len(metadata))
	for k := range metadata {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		fmt.Fprintf(&b, " %s=%v", k, metadata[k])
	}
	l.out.Println(b.String())
}

func (l *StdLogger) duplicate(key string, now time.Time) bool {
	if l.dedupWindow <= 0 {
		return false
	}
	l.dedupMu.Lock()
	defer l.dedupMu.Unlock()

	if last, ok := l.dedupCache[key]; ok && now.Sub(last) < l.dedupWindow {
		return true
	}
	l.dedupCache[key] = now
	return false
}

func normalizeLevel(level string) string {
	switch strings.ToUpper(level) {
	case "DEBUG":
		return applogging.LevelDebug
	case "WARN", "WARNING":
		return applogging.LevelWarn
	case "ERROR":
		return applogging.LevelError
	case "INFO":
		return applogging.LevelInfo
	default:
		return strings.ToUpper(level)
	}
}
