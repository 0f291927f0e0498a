package store

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"slices"

	"github.com/rogersnm/smoothies/internal/model"
)

// CollectionKey is the KV key holding the full smoothie collection.
const CollectionKey = "smoothies"

// LocalStore implements Primary by keeping the whole collection as one JSON
// array under CollectionKey. Every write reads, modifies and rewrites it.
type LocalStore struct {
	kv     KV
	key    string
	logger *slog.Logger
}

// compile-time check
var _ Primary = (*LocalStore)(nil)

func NewLocal(kv KV) *LocalStore {
	return &LocalStore{
		kv:     kv,
		key:    CollectionKey,
		logger: slog.Default().With("component", "store"),
	}
}

func (s *LocalStore) Load(ctx context.Context) ([]model.Smoothie, error) {
	s.logger.Debug("loading local smoothies", "key", s.key)
	return s.read(ctx, "load")
}

func (s *LocalStore) Create(ctx context.Context, sm model.Smoothie) error {
	s.logger.Debug("creating local smoothie", "id", sm.ID)
	all, err := s.read(ctx, "create")
	if err != nil {
		return err
	}
	all = append(all, sm.Normalized())
	return s.write(ctx, "create", all)
}

func (s *LocalStore) Update(ctx context.Context, p model.Patch) error {
	s.logger.Debug("updating local smoothie", "id", p.ID)
	all, err := s.read(ctx, "update")
	if err != nil {
		return err
	}
	i := slices.IndexFunc(all, func(sm model.Smoothie) bool { return sm.ID == p.ID })
	if i < 0 {
		return nil
	}
	all[i] = p.Apply(all[i])
	return s.write(ctx, "update", all)
}

func (s *LocalStore) Delete(ctx context.Context, id string) error {
	s.logger.Debug("deleting local smoothie", "id", id)
	all, err := s.read(ctx, "delete")
	if err != nil {
		return err
	}
	kept := slices.DeleteFunc(all, func(sm model.Smoothie) bool { return sm.ID == id })
	return s.write(ctx, "delete", kept)
}

func (s *LocalStore) read(ctx context.Context, op string) ([]model.Smoothie, error) {
	data, ok, err := s.kv.Get(ctx, s.key)
	if err != nil {
		return nil, &StorageError{Op: op, Key: s.key, Err: err}
	}
	if !ok || len(bytes.TrimSpace(data)) == 0 {
		return []model.Smoothie{}, nil
	}

	dec := json.NewDecoder(bytes.NewReader(data))
	dec.DisallowUnknownFields()
	var raw []model.Smoothie
	if err := dec.Decode(&raw); err != nil {
		return nil, &StorageError{Op: op, Key: s.key, Err: fmt.Errorf("decoding collection: %w", err)}
	}

	out := make([]model.Smoothie, len(raw))
	for i, sm := range raw {
		out[i] = sm.Normalized()
	}
	return out, nil
}

func (s *LocalStore) write(ctx context.Context, op string, all []model.Smoothie) error {
	if all == nil {
		all = []model.Smoothie{}
	}
	data, err := json.Marshal(all)
	if err != nil {
		return &StorageError{Op: op, Key: s.key, Err: fmt.Errorf("encoding collection: %w", err)}
	}
	if err := s.kv.Set(ctx, s.key, data); err != nil {
		return &StorageError{Op: op, Key: s.key, Err: err}
	}
	return nil
}
