package store

import (
	"context"
	"fmt"
	"log/slog"
	"path/filepath"

	"github.com/rogersnm/smoothies/internal/config"
)

// Registry opens the stores selected by config: the KV backend behind the
// Primary store, and either CloudStore or PublicStore as the Secondary.
type Registry struct {
	cfg       *config.Config
	dataDir   string
	ephemeral bool

	kv      KV
	primary *LocalStore
}

func NewRegistry(cfg *config.Config, dataDir string) *Registry {
	return &Registry{cfg: cfg, dataDir: dataDir}
}

// SetEphemeral makes Primary use an in-memory backend regardless of config.
func (r *Registry) SetEphemeral(v bool) {
	r.ephemeral = v
}

// BackendName reports the KV backend Primary uses.
func (r *Registry) BackendName() string {
	if r.ephemeral {
		return "memory"
	}
	return r.cfg.BackendName()
}

// Primary opens the configured KV backend on first use.
func (r *Registry) Primary(ctx context.Context) (*LocalStore, error) {
	if r.primary != nil {
		return r.primary, nil
	}

	var kv KV
	switch r.BackendName() {
	case "memory":
		kv = NewMemoryKV()
	case config.BackendFile:
		kv = NewFileKV(r.dataDir)
	case config.BackendSQLite:
		db, err := OpenSQLiteKV(ctx, filepath.Join(r.dataDir, "smoothies.db"))
		if err != nil {
			return nil, err
		}
		kv = db
	default:
		return nil, fmt.Errorf("backend %q not supported", r.cfg.Backend)
	}

	slog.Debug("opened primary store", "backend", r.BackendName(), "dir", r.dataDir)
	r.kv = kv
	r.primary = NewLocal(kv)
	return r.primary, nil
}

// Secondary returns a CloudStore when a public API is configured and the
// offline PublicStore otherwise.
func (r *Registry) Secondary() Secondary {
	if r.cfg.Public != nil && r.cfg.Public.URL != "" {
		return NewCloudStore(r.cfg.Public.URL, r.cfg.Public.APIKey)
	}
	return NewPublicStore()
}

// WatchPath returns the file holding the collection, if the backend keeps
// it in a plain file.
func (r *Registry) WatchPath() (string, bool) {
	if r.BackendName() != config.BackendFile {
		return "", false
	}
	return NewFileKV(r.dataDir).Path(CollectionKey), true
}

func (r *Registry) Close() error {
	if r.kv == nil {
		return nil
	}
	err := r.kv.Close()
	r.kv = nil
	r.primary = nil
	return err
}
