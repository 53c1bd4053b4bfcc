package progress

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"
)

// jsonlRecord is one line of the audit trail.
type jsonlRecord struct {
	Timestamp time.Time `json:"ts"`
	Stage     Stage     `json:"stage"`
	Processed int64     `json:"processed,omitempty"`
	Total     int64     `json:"total,omitempty"`
	SrcPath   string    `json:"src_path,omitempty"`
	DestPath  string    `json:"dest_path,omitempty"`
	Message   string    `json:"message,omitempty"`
	Error     string    `json:"error,omitempty"`
}

// JSONLBus appends one JSON object per line to a file under outputDir,
// mirroring the teacher's EventLogger: nil-receiver methods so a caller that
// didn't request an audit trail can pass a nil *JSONLBus everywhere a Bus is
// expected.
type JSONLBus struct {
	file    *os.File
	encoder *json.Encoder
	mu      sync.Mutex
	path    string
}

// NewJSONLBus creates outputDir if needed and opens a timestamped JSONL file
// inside it.
func NewJSONLBus(outputDir string) (*JSONLBus, error) {
	if err := os.MkdirAll(outputDir, 0o755); err != nil {
		return nil, fmt.Errorf("creating progress output dir: %w", err)
	}
	name := fmt.Sprintf("events-%s.jsonl", time.Now().Format("20060102-150405"))
	path := filepath.Join(outputDir, name)
	f, err := os.Create(path)
	if err != nil {
		return nil, fmt.Errorf("creating event log: %w", err)
	}
	return &JSONLBus{file: f, encoder: json.NewEncoder(f), path: path}, nil
}

func (l *JSONLBus) Report(ev Event) {
	if l == nil || l.file == nil {
		return
	}
	l.mu.Lock()
	defer l.mu.Unlock()

	rec := jsonlRecord{
		Timestamp: ev.Timestamp,
		Stage:     ev.Stage,
		Processed: ev.Processed,
		Total:     ev.Total,
		SrcPath:   ev.SrcPath,
		DestPath:  ev.DestPath,
		Message:   ev.Message,
	}
	if ev.Err != nil {
		rec.Error = ev.Err.Error()
	}
	if rec.Timestamp.IsZero() {
		rec.Timestamp = time.Now()
	}
	_ = l.encoder.Encode(rec)
}

// Path returns the JSONL file path, or "" on a nil receiver.
func (l *JSONLBus) Path() string {
	if l == nil {
		return ""
	}
	return l.path
}

// Close closes the underlying file; safe on a nil receiver.
func (l *JSONLBus) Close() error {
	if l == nil || l.file == nil {
		return nil
	}
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.file.Close()
}
