package storage

import (
	"cmp"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"slices"

	"github.com/c360studio/nidmcheck/report"
	"github.com/nats-io/nats.go/jetstream"
)

// BucketRuns is the default KV bucket for run history.
const BucketRuns = "NIDMCHECK_RUNS"

// KVStore keeps run history in a JetStream key-value bucket, one JSON
// report per run ID.
type KVStore struct {
	runs jetstream.KeyValue
}

// NewKVStore opens bucket, creating it if it does not exist. An empty
// bucket name uses BucketRuns.
func NewKVStore(ctx context.Context, js jetstream.JetStream, bucket string) (*KVStore, error) {
	if bucket == "" {
		bucket = BucketRuns
	}
	runs, err := getOrCreateBucket(ctx, js, bucket)
	if err != nil {
		return nil, fmt.Errorf("create runs bucket: %w", err)
	}
	return &KVStore{runs: runs}, nil
}

func getOrCreateBucket(ctx context.Context, js jetstream.JetStream, name string) (jetstream.KeyValue, error) {
	kv, err := js.KeyValue(ctx, name)
	if err == nil {
		return kv, nil
	}
	return js.CreateKeyValue(ctx, jetstream.KeyValueConfig{
		Bucket:      name,
		Description: "nidmcheck run history",
		History:     1,
	})
}

// Close implements RunStore. The bucket outlives the store.
func (s *KVStore) Close() error { return nil }

// SaveRun implements RunStore.
func (s *KVStore) SaveRun(ctx context.Context, r *report.Report) error {
	if err := validateRun(r); err != nil {
		return err
	}
	data, err := json.Marshal(r)
	if err != nil {
		return fmt.Errorf("marshal run: %w", err)
	}
	if _, err := s.runs.Put(ctx, r.RunID, data); err != nil {
		return fmt.Errorf("store run %s: %w", r.RunID, err)
	}
	return nil
}

// GetRun implements RunStore.
func (s *KVStore) GetRun(ctx context.Context, runID string) (*report.Report, error) {
	entry, err := s.runs.Get(ctx, runID)
	if err != nil {
		if isNotFound(err) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("get run %s: %w", runID, err)
	}

	var r report.Report
	if err := json.Unmarshal(entry.Value(), &r); err != nil {
		return nil, fmt.Errorf("unmarshal run %s: %w", runID, err)
	}
	return &r, nil
}

// ListRuns implements RunStore. Entries that fail to load are skipped.
func (s *KVStore) ListRuns(ctx context.Context, limit int) ([]RunSummary, error) {
	keys, err := s.runs.Keys(ctx)
	if err != nil {
		if errors.Is(err, jetstream.ErrNoKeysFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("list run keys: %w", err)
	}

	out := make([]RunSummary, 0, len(keys))
	for _, key := range keys {
		r, err := s.GetRun(ctx, key)
		if err != nil {
			continue
		}
		out = append(out, Summarize(r))
	}

	slices.SortFunc(out, func(a, b RunSummary) int {
		if c := b.StartedAt.Compare(a.StartedAt); c != 0 {
			return c
		}
		return cmp.Compare(a.RunID, b.RunID)
	})
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}
