package redis

import (
	"context"
	"encoding/json"
	"fmt"
	"slices"
	"time"

	"github.com/aretw0/nuex/pkg/domain"
	backend "github.com/redis/go-redis/v9"
)

// DefaultStream is the stream key commits are appended to.
const DefaultStream = "nuex:commits"

// Journal implements ports.Journal on a Redis stream. Each commit is one entry (XADD);
// Recent reads the tail of the stream (XREVRANGE).
type Journal struct {
	client *backend.Client
	stream string
	maxLen int64
	approx bool
}

// Option configures a Journal built by New.
type Option func(*Journal)

// WithStream sets the stream key.
func WithStream(stream string) Option {
	return func(j *Journal) {
		j.stream = stream
	}
}

// WithMaxLen caps the stream length on every append. With approx the cap is the cheaper
// "MAXLEN ~" form.
func WithMaxLen(n int64, approx bool) Option {
	return func(j *Journal) {
		j.maxLen = n
		j.approx = approx
	}
}

// New creates a new Redis journal with options.
func New(address, password string, db int, opts ...Option) *Journal {
	rdb := backend.NewClient(&backend.Options{
		Addr:     address,
		Password: password,
		DB:       db,
	})
	return NewFromClient(rdb, opts...)
}

// NewFromClient creates a new Redis journal from an existing client.
func NewFromClient(client *backend.Client, opts ...Option) *Journal {
	j := &Journal{
		client: client,
		stream: DefaultStream,
	}
	for _, opt := range opts {
		opt(j)
	}
	return j
}

// Append adds rec to the stream.
func (j *Journal) Append(ctx context.Context, rec domain.MutationRecord) error {
	payload, err := json.Marshal(rec.Payload)
	if err != nil {
		return fmt.Errorf("failed to marshal payload of %s: %w", rec.Qualified(), err)
	}

	args := &backend.XAddArgs{
		Stream: j.stream,
		Values: map[string]any{
			"id":        rec.ID,
			"type":      rec.Type,
			"path":      rec.Path,
			"payload":   string(payload),
			"timestamp": rec.Timestamp.UTC().Format(time.RFC3339Nano),
		},
	}
	if j.maxLen > 0 {
		args.MaxLen = j.maxLen
		args.Approx = j.approx
	}

	if err := j.client.XAdd(ctx, args).Err(); err != nil {
		return fmt.Errorf("failed to append to redis stream: %w", err)
	}
	return nil
}

// Recent returns up to n of the latest records, oldest first.
func (j *Journal) Recent(ctx context.Context, n int) ([]domain.MutationRecord, error) {
	var msgs []backend.XMessage
	var err error
	if n > 0 {
		msgs, err = j.client.XRevRangeN(ctx, j.stream, "+", "-", int64(n)).Result()
	} else {
		msgs, err = j.client.XRevRange(ctx, j.stream, "+", "-").Result()
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read redis stream: %w", err)
	}

	recs := make([]domain.MutationRecord, 0, len(msgs))
	for _, msg := range msgs {
		rec, err := decode(msg)
		if err != nil {
			return nil, err
		}
		recs = append(recs, rec)
	}
	slices.Reverse(recs)
	return recs, nil
}

// Close closes the redis client.
func (j *Journal) Close() error {
	return j.client.Close()
}

func decode(msg backend.XMessage) (domain.MutationRecord, error) {
	field := func(name string) string {
		s, _ := msg.Values[name].(string)
		return s
	}

	rec := domain.MutationRecord{
		ID:   field("id"),
		Type: field("type"),
		Path: field("path"),
	}
	if raw := field("payload"); raw != "" {
		if err := json.Unmarshal([]byte(raw), &rec.Payload); err != nil {
			return rec, fmt.Errorf("failed to unmarshal payload of entry %s: %w", msg.ID, err)
		}
	}
	if ts := field("timestamp"); ts != "" {
		t, err := time.Parse(time.RFC3339Nano, ts)
		if err != nil {
			return rec, fmt.Errorf("failed to parse timestamp of entry %s: %w", msg.ID, err)
		}
		rec.Timestamp = t
	}
	return rec, nil
}
