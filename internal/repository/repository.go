// Package repository coordinates the Primary store, which holds every
// smoothie, with the Secondary store, which mirrors the published ones.
package repository

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/rogersnm/smoothies/internal/id"
	"github.com/rogersnm/smoothies/internal/model"
	"github.com/rogersnm/smoothies/internal/store"
)

// RepositoryError wraps a store failure with the operation that hit it.
type RepositoryError struct {
	Op  string
	ID  string
	Err error
}

func (e *RepositoryError) Error() string {
	if e.ID == "" {
		return fmt.Sprintf("%s smoothie: %v", e.Op, e.Err)
	}
	return fmt.Sprintf("%s smoothie %s: %v", e.Op, e.ID, e.Err)
}

func (e *RepositoryError) Unwrap() error { return e.Err }

// Repository has no state of its own. Operations that touch both stores
// are not atomic: if the second call fails the first is not undone.
type Repository struct {
	primary   store.Primary
	secondary store.Secondary
	newID     func() (string, error)
	logger    *slog.Logger
}

type Option func(*Repository)

// WithIDGenerator replaces id.New for new smoothies.
func WithIDGenerator(gen func() (string, error)) Option {
	return func(r *Repository) { r.newID = gen }
}

func New(primary store.Primary, secondary store.Secondary, opts ...Option) *Repository {
	r := &Repository{
		primary:   primary,
		secondary: secondary,
		newID:     id.New,
		logger:    slog.Default().With("component", "repository"),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

func (r *Repository) fail(op, smoothieID string, err error) error {
	r.logger.Error("repository operation failed", "op", op, "id", smoothieID, "error", err)
	return &RepositoryError{Op: op, ID: smoothieID, Err: err}
}

func (r *Repository) Load(ctx context.Context) ([]model.Smoothie, error) {
	smoothies, err := r.primary.Load(ctx)
	if err != nil {
		return nil, r.fail("load", "", err)
	}
	r.logger.Debug("loaded smoothies", "count", len(smoothies))
	return smoothies, nil
}

// Create assigns a fresh id and stores the smoothie, mirroring it when it
// is created already published.
func (r *Repository) Create(ctx context.Context, in model.Input) (model.Smoothie, error) {
	newID, err := r.newID()
	if err != nil {
		return model.Smoothie{}, r.fail("create", "", fmt.Errorf("generating id: %w", err))
	}
	s := in.WithID(newID)

	if err := r.primary.Create(ctx, s); err != nil {
		return model.Smoothie{}, r.fail("create", s.ID, err)
	}
	if s.IsPublished {
		if err := r.secondary.Create(ctx, s); err != nil {
			return model.Smoothie{}, r.fail("create", s.ID, err)
		}
	}
	r.logger.Info("created smoothie", "id", s.ID, "published", s.IsPublished)
	return s, nil
}

// Update writes s to the Primary store and, when s is published, to the
// Secondary store.
func (r *Repository) Update(ctx context.Context, s model.Smoothie) error {
	if err := r.primary.Update(ctx, model.PatchFrom(s)); err != nil {
		return r.fail("update", s.ID, err)
	}
	if s.IsPublished {
		if err := r.secondary.Update(ctx, s.Normalized()); err != nil {
			return r.fail("update", s.ID, err)
		}
	}
	r.logger.Info("updated smoothie", "id", s.ID, "published", s.IsPublished)
	return nil
}

// Publish mirrors s to the Secondary store first, then marks it published
// in the Primary store.
func (r *Repository) Publish(ctx context.Context, s model.Smoothie) error {
	s = s.Normalized()
	s.IsPublished = true

	if err := r.secondary.Create(ctx, s); err != nil {
		return r.fail("publish", s.ID, err)
	}
	if err := r.primary.Update(ctx, model.PatchFrom(s)); err != nil {
		return r.fail("publish", s.ID, err)
	}
	r.logger.Info("published smoothie", "id", s.ID)
	return nil
}

// Unpublish removes the mirror first, then clears the flag in the Primary
// store.
func (r *Repository) Unpublish(ctx context.Context, smoothieID string) error {
	if err := r.secondary.Delete(ctx, smoothieID); err != nil {
		return r.fail("unpublish", smoothieID, err)
	}
	published := false
	if err := r.primary.Update(ctx, model.Patch{ID: smoothieID, IsPublished: &published}); err != nil {
		return r.fail("unpublish", smoothieID, err)
	}
	r.logger.Info("unpublished smoothie", "id", smoothieID)
	return nil
}

// Delete removes the smoothie from the Primary store, and from the
// Secondary store when the caller says it was published.
func (r *Repository) Delete(ctx context.Context, smoothieID string, wasPublished bool) error {
	if err := r.primary.Delete(ctx, smoothieID); err != nil {
		return r.fail("delete", smoothieID, err)
	}
	if wasPublished {
		if err := r.secondary.Delete(ctx, smoothieID); err != nil {
			return r.fail("delete", smoothieID, err)
		}
	}
	r.logger.Info("deleted smoothie", "id", smoothieID, "was_published", wasPublished)
	return nil
}
