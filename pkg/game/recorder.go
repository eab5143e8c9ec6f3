package game

import (
	"bufio"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/trytobebee/snake_net/pkg/config"
)

// TickRecord is one line of a session's token log: the turn number and
// the combined token list broadcast for that turn. Checksum is optional
// and only present when the writer runs its own engine (local game).
type TickRecord struct {
	Turn     int      `json:"turn"`
	Tokens   []string `json:"tokens"`
	Checksum string   `json:"checksum,omitempty"`
}

// logHeader is the first line of a token log; it carries the session
// configuration so a replay can reconstruct the exact starting state.
type logHeader struct {
	Config config.Session `json:"config"`
}

// Recorder handles asynchronous logging of per-tick token lists
type Recorder struct {
	file       *os.File
	writer     *bufio.Writer
	recordChan chan TickRecord
	wg         sync.WaitGroup
	mu         sync.Mutex
	closed     bool
}

// NewRecorder creates a recorder that writes to the records/ directory.
// Filename format: session_{sessionID}_{timestamp}.jsonl. The first line
// is the session configuration, each following line one TickRecord.
func NewRecorder(sessionID string, cfg config.Session) (*Recorder, error) {
	recordDir := "records"
	if err := os.MkdirAll(recordDir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create records dir: %w", err)
	}

	timestamp := time.Now().Unix()
	filename := fmt.Sprintf("session_%s_%d.jsonl", sessionID, timestamp)
	path := filepath.Join(recordDir, filename)

	f, err := os.Create(path)
	if err != nil {
		return nil, fmt.Errorf("failed to create record file: %w", err)
	}

	r := &Recorder{
		file:       f,
		writer:     bufio.NewWriter(f),
		recordChan: make(chan TickRecord, 1000),
	}

	if err := json.NewEncoder(r.writer).Encode(logHeader{Config: cfg}); err != nil {
		f.Close()
		return nil, fmt.Errorf("failed to write log header: %w", err)
	}

	r.wg.Add(1)
	go r.writeLoop()

	return r, nil
}

// Record queues a tick to be written. Non-blocking (drops if full).
// The send happens under the mutex so a concurrent Close cannot close
// the channel between the closed check and the send.
func (r *Recorder) Record(rec TickRecord) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.closed {
		return
	}

	select {
	case r.recordChan <- rec:
	default:
		// Channel full, drop the record to protect the tick loop
	}
}

// Close flushes the buffer and closes the file
func (r *Recorder) Close() {
	r.mu.Lock()
	if r.closed {
		r.mu.Unlock()
		return
	}
	r.closed = true
	r.mu.Unlock()

	close(r.recordChan)
	r.wg.Wait()
	r.file.Close()
}

// Path returns the location of the log file.
func (r *Recorder) Path() string {
	return r.file.Name()
}

func (r *Recorder) writeLoop() {
	defer r.wg.Done()

	encoder := json.NewEncoder(r.writer)
	for rec := range r.recordChan {
		if err := encoder.Encode(rec); err != nil {
			fmt.Fprintf(os.Stderr, "Error recording tick: %v\n", err)
			continue
		}
	}
	r.writer.Flush()
}

// ReadLog reads a token log back: the session configuration followed by
// every recorded tick.
func ReadLog(path string) (config.Session, []TickRecord, error) {
	f, err := os.Open(path)
	if err != nil {
		return config.Session{}, nil, err
	}
	defer f.Close()

	dec := json.NewDecoder(bufio.NewReader(f))

	var header logHeader
	if err := dec.Decode(&header); err != nil {
		return config.Session{}, nil, fmt.Errorf("bad log header: %w", err)
	}

	var ticks []TickRecord
	for dec.More() {
		var rec TickRecord
		if err := dec.Decode(&rec); err != nil {
			return config.Session{}, nil, fmt.Errorf("bad tick record: %w", err)
		}
		ticks = append(ticks, rec)
	}
	return header.Config, ticks, nil
}
