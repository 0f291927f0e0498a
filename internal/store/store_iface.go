package store

import (
	"context"

	"github.com/rogersnm/smoothies/internal/model"
)

// Primary is the authoritative store holding every smoothie. LocalStore
// implements it on top of a KV backend.
type Primary interface {
	Load(ctx context.Context) ([]model.Smoothie, error)
	Create(ctx context.Context, s model.Smoothie) error
	// Update merges p into the record with p.ID. Unknown ids are ignored.
	Update(ctx context.Context, p model.Patch) error
	// Delete removes the record with id. Unknown ids are ignored.
	Delete(ctx context.Context, id string) error
}

// Secondary mirrors published smoothies. It stores whatever it is given;
// deciding what is published is the caller's job. PublicStore is the
// offline stub and CloudStore talks to the public API.
type Secondary interface {
	Create(ctx context.Context, s model.Smoothie) error
	Update(ctx context.Context, s model.Smoothie) error
	Delete(ctx context.Context, id string) error
}

// KV is the host key-value storage a LocalStore persists into.
type KV interface {
	// Get returns the value for key and whether it was present.
	Get(ctx context.Context, key string) ([]byte, bool, error)
	Set(ctx context.Context, key string, value []byte) error
	Close() error
}
