package storage

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/stefanciobanu13/galero/models"
)

// SnapshotKey is the single namespace the working set is cached under.
const SnapshotKey = "galero_editions_state"

var ErrSnapshotNotFound = errors.New("snapshot not found")

// Snapshot is the cached working set of one edition session.
type Snapshot struct {
	CurrentEdition *models.Edition `json:"currentEdition"`
	Teams          []models.Team   `json:"teams"`
	Matches        []models.Match  `json:"matches"`
	Goals          []models.Goal   `json:"goals"`
}

// SnapshotStore keeps opaque blobs by key. Get returns ErrSnapshotNotFound
// for a key that was never written or has been deleted.
type SnapshotStore interface {
	Put(ctx context.Context, key string, data []byte) error
	Get(ctx context.Context, key string) ([]byte, error)
	Delete(ctx context.Context, key string) error
}

// Save writes snap whole under SnapshotKey.
func Save(ctx context.Context, store SnapshotStore, snap Snapshot) error {
	if snap.Teams == nil {
		snap.Teams = []models.Team{}
	}
	if snap.Matches == nil {
		snap.Matches = []models.Match{}
	}
	if snap.Goals == nil {
		snap.Goals = []models.Goal{}
	}
	data, err := json.Marshal(snap)
	if err != nil {
		return fmt.Errorf("encode snapshot: %w", err)
	}
	if err := store.Put(ctx, SnapshotKey, data); err != nil {
		return fmt.Errorf("put snapshot %s: %w", SnapshotKey, err)
	}
	return nil
}

// Load reads the snapshot under SnapshotKey.
func Load(ctx context.Context, store SnapshotStore) (*Snapshot, error) {
	data, err := store.Get(ctx, SnapshotKey)
	if err != nil {
		return nil, err
	}
	var snap Snapshot
	if err := json.Unmarshal(data, &snap); err != nil {
		return nil, fmt.Errorf("decode snapshot %s: %w", SnapshotKey, err)
	}
	return &snap, nil
}

// Clear removes the snapshot. A missing snapshot is not an error.
func Clear(ctx context.Context, store SnapshotStore) error {
	if err := store.Delete(ctx, SnapshotKey); err != nil && !errors.Is(err, ErrSnapshotNotFound) {
		return fmt.Errorf("delete snapshot %s: %w", SnapshotKey, err)
	}
	return nil
}
