// Package audit keeps the import ledger: one entry per imported batch of
// mission results, keyed by a content hash of the batch.
package audit

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"

	"github.com/fentz26/missionlog/internal/store"
)

// Ledger records import batches.
type Ledger struct {
	store *store.Store
}

// NewLedger creates a new import ledger.
func NewLedger(s *store.Store) *Ledger {
	return &Ledger{store: s}
}

// Record writes a ledger entry for an imported batch.
func (l *Ledger) Record(ctx context.Context, source string, inputs interface{}, count int) (*store.ImportRecord, error) {
	return l.store.WriteImport(ctx, source, HashInputs(inputs), count)
}

// RecordTx writes the ledger entry inside tx, so it commits together with
// the batch it describes.
func (l *Ledger) RecordTx(ctx context.Context, tx *store.Tx, source string, inputs interface{}, count int) (*store.ImportRecord, error) {
	return tx.WriteImport(ctx, source, HashInputs(inputs), count)
}

// Seen returns the earlier ledger entry for identical inputs, or nil.
func (l *Ledger) Seen(ctx context.Context, inputs interface{}) (*store.ImportRecord, error) {
	rec, err := l.store.FindImport(ctx, HashInputs(inputs))
	if errors.Is(err, store.ErrNotFound) {
		return nil, nil
	}
	return rec, err
}

// HashInputs creates a SHA256 hash of the JSON encoding of inputs.
func HashInputs(inputs interface{}) string {
	data, err := json.Marshal(inputs)
	if err != nil {
		return "hash_error"
	}
	hash := sha256.Sum256(data)
	return hex.EncodeToString(hash[:])
}
