// Package audit keeps a bounded in-memory trail of lifecycle transitions.
// Large payload snapshots are zstd-compressed so a long-running back office
// does not accumulate megabytes of JSON.
package audit

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/klauspost/compress/zstd"
)

// Compression identifies how a snapshot is stored.
type Compression string

const (
	CompressionNone Compression = "none"
	CompressionZstd Compression = "zstd"
)

// Entry is one recorded transition.
type Entry struct {
	ID         uuid.UUID       `json:"id"`
	RequestID  int             `json:"requestId"`
	Event      string          `json:"event"`
	FromStatus string          `json:"fromStatus"`
	ToStatus   string          `json:"toStatus"`
	Actor      string          `json:"actor"`
	At         time.Time       `json:"at"`
	Snapshot   json.RawMessage `json:"snapshot,omitempty"`

	// Payload is marshaled into Snapshot on record; never stored directly.
	Payload any `json:"-"`

	compressed  []byte
	compression Compression
}

// Trail is a fixed-capacity ring of entries, newest last. It is safe for
// concurrent use.
type Trail struct {
	mu      sync.Mutex
	entries []Entry
	cap     int

	encoder *zstd.Encoder
	decoder *zstd.Decoder

	// snapshots larger than this are compressed
	compressThreshold int
}

// NewTrail creates a trail holding at most capacity entries.
func NewTrail(capacity int) (*Trail, error) {
	if capacity < 1 {
		capacity = 1000
	}

	encoder, err := zstd.NewWriter(nil, zstd.WithEncoderLevel(zstd.SpeedDefault))
	if err != nil {
		return nil, fmt.Errorf("create zstd encoder: %w", err)
	}
	decoder, err := zstd.NewReader(nil)
	if err != nil {
		return nil, fmt.Errorf("create zstd decoder: %w", err)
	}

	return &Trail{
		entries:           make([]Entry, 0, capacity),
		cap:               capacity,
		encoder:           encoder,
		decoder:           decoder,
		compressThreshold: 4 * 1024,
	}, nil
}

// Record appends an entry, evicting the oldest when full.
func (t *Trail) Record(_ context.Context, e Entry) error {
	if e.ID == uuid.Nil {
		e.ID = uuid.New()
	}
	if e.At.IsZero() {
		e.At = time.Now().UTC()
	}

	if e.Payload != nil {
		snapshot, err := json.Marshal(e.Payload)
		if err != nil {
			return fmt.Errorf("marshal snapshot: %w", err)
		}
		e.Payload = nil
		e.Snapshot = snapshot
	}

	e.compression = CompressionNone
	if len(e.Snapshot) > t.compressThreshold {
		e.compressed = t.encoder.EncodeAll(e.Snapshot, nil)
		e.Snapshot = nil
		e.compression = CompressionZstd
	}

	t.mu.Lock()
	defer t.mu.Unlock()

	if len(t.entries) == t.cap {
		copy(t.entries, t.entries[1:])
		t.entries = t.entries[:t.cap-1]
	}
	t.entries = append(t.entries, e)
	return nil
}

// History returns up to limit entries for the request, newest first, with
// snapshots decompressed.
func (t *Trail) History(requestID, limit int) ([]Entry, error) {
	t.mu.Lock()
	defer t.mu.Unlock()

	if limit < 1 {
		limit = len(t.entries)
	}

	var out []Entry
	for i := len(t.entries) - 1; i >= 0 && len(out) < limit; i-- {
		e := t.entries[i]
		if e.RequestID != requestID {
			continue
		}
		if e.compression == CompressionZstd && len(e.compressed) > 0 {
			snapshot, err := t.decoder.DecodeAll(e.compressed, nil)
			if err != nil {
				return nil, fmt.Errorf("decompress snapshot: %w", err)
			}
			e.Snapshot = snapshot
			e.compressed = nil
			e.compression = CompressionNone
		}
		out = append(out, e)
	}
	return out, nil
}

// Len returns the number of retained entries.
func (t *Trail) Len() int {
	t.mu.Lock()
	defer t.mu.Unlock()
	return len(t.entries)
}
