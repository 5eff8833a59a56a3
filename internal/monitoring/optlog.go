// Package monitoring - optlog.go writes the optimization decision log.
//
// DESIGN: One JSON object per line, append-only. The line starts from
// the marshalled strategy metadata and gets request context spliced in
// with sjson, so the engine's own field names stay untouched.
package monitoring

import (
	"encoding/json"
	"fmt"
	"os"
	"sync"
	"time"

	"github.com/tidwall/sjson"

	"github.com/sajtmaskin/prompt-gateway/internal/engine"
)

const previewMaxChars = 120

// DecisionLogger appends one JSONL record per optimization decision.
type DecisionLogger struct {
	mu   sync.Mutex
	file *os.File
}

// NewDecisionLogger opens (or creates) the decision log at path.
func NewDecisionLogger(path string) (*DecisionLogger, error) {
	f, err := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0600)
	if err != nil {
		return nil, fmt.Errorf("failed to open decision log '%s': %w", path, err)
	}
	return &DecisionLogger{file: f}, nil
}

// Log writes one decision record. Errors are returned, not fatal; the
// caller decides whether a lost audit line matters.
func (dl *DecisionLogger) Log(requestID, message string, meta engine.StrategyMeta) error {
	line, err := json.Marshal(meta)
	if err != nil {
		return fmt.Errorf("failed to marshal decision: %w", err)
	}

	line, _ = sjson.SetBytes(line, "requestId", requestID)
	line, _ = sjson.SetBytes(line, "ts", time.Now().UTC().Format(time.RFC3339))
	line, _ = sjson.SetBytes(line, "messagePreview", previewOf(message))

	dl.mu.Lock()
	defer dl.mu.Unlock()
	if _, err := dl.file.Write(append(line, '\n')); err != nil {
		return fmt.Errorf("failed to append decision: %w", err)
	}
	return nil
}

func previewOf(message string) string {
	runes := []rune(message)
	if len(runes) <= previewMaxChars {
		return message
	}
	return string(runes[:previewMaxChars])
}

// Close flushes and closes the underlying file.
func (dl *DecisionLogger) Close() error {
	dl.mu.Lock()
	defer dl.mu.Unlock()
	return dl.file.Close()
}
