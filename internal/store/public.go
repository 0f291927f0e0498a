package store

import (
	"context"
	"log/slog"

	"github.com/rogersnm/smoothies/internal/model"
)

// PublicStore is the offline Secondary. It accepts every call and keeps
// nothing, so it can stand in wherever no public API is configured.
type PublicStore struct {
	logger *slog.Logger
}

// compile-time check
var _ Secondary = (*PublicStore)(nil)

func NewPublicStore() *PublicStore {
	return &PublicStore{logger: slog.Default().With("component", "public")}
}

func (p *PublicStore) Create(_ context.Context, s model.Smoothie) error {
	p.logger.Debug("creating public smoothie", "id", s.ID, "name", s.Name)
	return nil
}

func (p *PublicStore) Update(_ context.Context, s model.Smoothie) error {
	p.logger.Debug("updating public smoothie", "id", s.ID, "name", s.Name)
	return nil
}

func (p *PublicStore) Delete(_ context.Context, id string) error {
	p.logger.Debug("deleting public smoothie", "id", id)
	return nil
}
