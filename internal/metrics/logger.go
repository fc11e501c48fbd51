// Package metrics provides JSONL event logging for analytics: one
// append-only log of index_run and search events under the repository's
// state directory.
package metrics

import (
	"encoding/json"
	"os"
	"sync"
	"time"
)

// Logger writes metrics events to a JSONL file.
type Logger struct {
	file *os.File
	mu   sync.Mutex
}

// NewLogger opens (creating if absent) the JSONL log at path for appending.
func NewLogger(path string) (*Logger, error) {
	file, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
	if err != nil {
		return nil, err
	}

	return &Logger{file: file}, nil
}

// Close closes the log file.
func (l *Logger) Close() error {
	return l.file.Close()
}

func (l *Logger) log(event string, data map[string]interface{}) {
	l.mu.Lock()
	defer l.mu.Unlock()

	e := map[string]interface{}{
		"ts":    time.Now().UTC().Format(time.RFC3339),
		"event": event,
	}
	for k, v := range data {
		e[k] = v
	}

	line, _ := json.Marshal(e)
	l.file.Write(line)
	l.file.Write([]byte("\n"))
}

// LogIndexRun logs one completed Index run's stats.
func (l *Logger) LogIndexRun(filesScanned, filesIndexed, filesSkipped, filesUnchanged, chunksCreated int, duration time.Duration) {
	l.log("index_run", map[string]interface{}{
		"files_scanned":   filesScanned,
		"files_indexed":   filesIndexed,
		"files_skipped":   filesSkipped,
		"files_unchanged": filesUnchanged,
		"chunks_created":  chunksCreated,
		"duration_ms":     duration.Milliseconds(),
	})
}

// LogSearch logs a search query event.
func (l *Logger) LogSearch(query string, results int, latencyMs int64, cacheHit bool) {
	l.log("search", map[string]interface{}{
		"query":      query,
		"results":    results,
		"latency_ms": latencyMs,
		"cache_hit":  cacheHit,
	})
}

// LogError logs an error event.
func (l *Logger) LogError(operation, message string) {
	l.log("error", map[string]interface{}{
		"operation": operation,
		"message":   message,
	})
}
