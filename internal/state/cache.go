// Package state keeps the in-memory view of saved smoothies that commands
// read from and mutate through.
package state

import (
	"context"
	"log/slog"
	"slices"

	"github.com/rogersnm/smoothies/internal/model"
	"github.com/rogersnm/smoothies/internal/search"
)

// Repository is the subset of repository.Repository the cache drives.
type Repository interface {
	Load(ctx context.Context) ([]model.Smoothie, error)
	Create(ctx context.Context, in model.Input) (model.Smoothie, error)
	Update(ctx context.Context, s model.Smoothie) error
	Publish(ctx context.Context, s model.Smoothie) error
	Unpublish(ctx context.Context, id string) error
	Delete(ctx context.Context, id string, wasPublished bool) error
}

type Status string

const (
	StatusLoading Status = "loading"
	StatusSuccess Status = "success"
	StatusError   Status = "error"
)

// Cache mirrors the saved smoothies and the current search query. It is
// not safe for concurrent use. The cache only changes after the repository
// call it depends on has succeeded.
type Cache struct {
	repo   Repository
	logger *slog.Logger

	status  Status
	loadErr error
	saved   []model.Smoothie
	query   string
	visible []model.Smoothie
}

func New(repo Repository) *Cache {
	return &Cache{
		repo:    repo,
		logger:  slog.Default().With("component", "state"),
		status:  StatusLoading,
		saved:   []model.Smoothie{},
		visible: []model.Smoothie{},
	}
}

// Load fetches the collection once. After a successful load it does
// nothing; use Reload to fetch again.
func (c *Cache) Load(ctx context.Context) error {
	if c.status == StatusSuccess {
		return nil
	}
	return c.Reload(ctx)
}

func (c *Cache) Reload(ctx context.Context) error {
	smoothies, err := c.repo.Load(ctx)
	if err != nil {
		c.status = StatusError
		c.loadErr = err
		return err
	}
	c.status = StatusSuccess
	c.loadErr = nil
	c.save(smoothies)
	c.logger.Debug("cache loaded", "count", len(c.saved))
	return nil
}

func (c *Cache) Status() Status { return c.status }

// Err returns the error from the last failed load.
func (c *Cache) Err() error { return c.loadErr }

// Saved returns every cached smoothie regardless of the query.
func (c *Cache) Saved() []model.Smoothie { return slices.Clone(c.saved) }

// Smoothies returns the saved smoothies matching the current query.
func (c *Cache) Smoothies() []model.Smoothie { return slices.Clone(c.visible) }

func (c *Cache) Query() string { return c.query }

func (c *Cache) Find(id string) (model.Smoothie, bool) {
	i := c.index(id)
	if i < 0 {
		return model.Smoothie{}, false
	}
	return c.saved[i], true
}

func (c *Cache) Create(ctx context.Context, in model.Input) (model.Smoothie, error) {
	s, err := c.repo.Create(ctx, in)
	if err != nil {
		return model.Smoothie{}, err
	}
	c.save(append(slices.Clone(c.saved), s))
	return s, nil
}

// Update merges p into the cached smoothie with id and writes the result.
// p may not flip IsPublished.
func (c *Cache) Update(ctx context.Context, id string, p model.Patch) (model.Smoothie, error) {
	i := c.index(id)
	if i < 0 {
		return model.Smoothie{}, &BusinessError{Kind: ErrNotFound, Op: "update", ID: id}
	}
	// The Secondary store only follows the flag through Publish and Unpublish.
	if p.IsPublished != nil && *p.IsPublished != c.saved[i].IsPublished {
		return model.Smoothie{}, &BusinessError{Kind: ErrPublishedChange, Op: "update", ID: id}
	}
	updated := p.Apply(c.saved[i])
	if err := c.repo.Update(ctx, updated); err != nil {
		return model.Smoothie{}, err
	}
	c.replace(updated)
	return updated, nil
}

func (c *Cache) Delete(ctx context.Context, id string) error {
	i := c.index(id)
	if i < 0 {
		return &BusinessError{Kind: ErrNotFound, Op: "delete", ID: id}
	}
	if err := c.repo.Delete(ctx, id, c.saved[i].IsPublished); err != nil {
		return err
	}
	c.save(slices.Delete(slices.Clone(c.saved), i, i+1))
	return nil
}

// Publish mirrors s and stores it as published. s replaces the cached
// record with the same id.
func (c *Cache) Publish(ctx context.Context, s model.Smoothie) error {
	i := c.index(s.ID)
	if i < 0 {
		return &BusinessError{Kind: ErrNotFound, Op: "publish", ID: s.ID}
	}
	if c.saved[i].IsPublished {
		return &BusinessError{Kind: ErrAlreadyPublished, Op: "publish", ID: s.ID}
	}
	if err := c.repo.Publish(ctx, s); err != nil {
		return err
	}
	published := s.Normalized()
	published.IsPublished = true
	c.replace(published)
	return nil
}

func (c *Cache) Unpublish(ctx context.Context, id string) error {
	i := c.index(id)
	if i < 0 || !c.saved[i].IsPublished {
		return &BusinessError{Kind: ErrNotPublished, Op: "unpublish", ID: id}
	}
	if err := c.repo.Unpublish(ctx, id); err != nil {
		return err
	}
	s := c.saved[i]
	s.IsPublished = false
	c.replace(s)
	return nil
}

// Filter sets the query and returns the matching smoothies. It never
// touches the stores.
func (c *Cache) Filter(query string) []model.Smoothie {
	c.query = query
	c.visible = search.Filter(query, c.saved)
	return c.Smoothies()
}

func (c *Cache) index(id string) int {
	return slices.IndexFunc(c.saved, func(s model.Smoothie) bool { return s.ID == id })
}

func (c *Cache) replace(s model.Smoothie) {
	next := slices.Clone(c.saved)
	if i := c.index(s.ID); i >= 0 {
		next[i] = s
	}
	c.save(next)
}

func (c *Cache) save(smoothies []model.Smoothie) {
	if smoothies == nil {
		smoothies = []model.Smoothie{}
	}
	c.saved = smoothies
	c.visible = search.Filter(c.query, c.saved)
}
