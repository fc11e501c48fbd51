package metrics

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMetricsLogger(t *testing.T) {
	tmpDir := t.TempDir()
	logPath := filepath.Join(tmpDir, "metrics.jsonl")

	logger, err := NewLogger(logPath)
	require.NoError(t, err)
	defer logger.Close()

	logger.LogIndexRun(12, 3, 1, 8, 20, 150*time.Millisecond)
	logger.LogSearch("auth timeout", 5, 120, false)
	logger.LogError("search", "connection timeout")

	data, err := os.ReadFile(logPath)
	require.NoError(t, err)

	content := string(data)

	assert.Contains(t, content, `"event":"index_run"`)
	assert.Contains(t, content, `"files_indexed":3`)
	assert.Contains(t, content, `"chunks_created":20`)

	assert.Contains(t, content, `"event":"search"`)
	assert.Contains(t, content, `"query":"auth timeout"`)
	assert.Contains(t, content, `"cache_hit":false`)

	assert.Contains(t, content, `"event":"error"`)
	assert.Contains(t, content, `"operation":"search"`)

	lines := strings.Split(strings.TrimSpace(content), "\n")
	assert.Len(t, lines, 3)
}

func TestMetricsLoggerConcurrent(t *testing.T) {
	tmpDir := t.TempDir()
	logPath := filepath.Join(tmpDir, "metrics.jsonl")

	logger, err := NewLogger(logPath)
	require.NoError(t, err)
	defer logger.Close()

	done := make(chan bool, 10)
	for i := 0; i < 10; i++ {
		go func(n int) {
			logger.LogSearch("query", n, int64(n*10), false)
			done <- true
		}(i)
	}

	for i := 0; i < 10; i++ {
		<-done
	}

	data, err := os.ReadFile(logPath)
	require.NoError(t, err)

	lines := strings.Split(strings.TrimSpace(string(data)), "\n")
	assert.Len(t, lines, 10)
}
