// Package routecache stores processed route definitions, so kernels can boot without
// parsing every path again.
package routecache

import (
	"context"
	"errors"
	"fmt"

	"github.com/bassbeaver/gdispatch/collection"
	"github.com/bassbeaver/gdispatch/config"
	"github.com/bassbeaver/gdispatch/route"
)

// SnapshotVersion changes whenever the cached shape of a definition changes.
const SnapshotVersion = 1

var (
	ErrCacheMiss = errors.New("route cache is empty")
	ErrStale     = errors.New("route cache is stale")
)

type Snapshot struct {
	Version int                `yaml:"version" json:"version"`
	Kernel  string             `yaml:"kernel" json:"kernel"`
	Routes  []route.Definition `yaml:"routes" json:"routes"`
}

// Collection rebuilds the route collection the snapshot was taken from.
func (s *Snapshot) Collection() (*collection.Collection, error) {
	return collection.FromDefinitions(s.Routes)
}

type Cache interface {
	// Load returns ErrCacheMiss when nothing was stored and ErrStale for snapshots of another version.
	// Use LoadFor to also reject snapshots written by another kernel.
	Load(ctx context.Context) (*Snapshot, error)
	Store(ctx context.Context, snapshot *Snapshot) error
	Clear(ctx context.Context) error
}

//--------------------

func NewSnapshot(kernel string, routes *collection.Collection) *Snapshot {
	return &Snapshot{
		Version: SnapshotVersion,
		Kernel:  kernel,
		Routes:  routes.Definitions(),
	}
}

// New builds the cache configured for a kernel.
func New(cfg config.CacheConfig, kernel string) (Cache, error) {
	switch cfg.Driver {
	case "file":
		if "" == cfg.Path {
			return nil, errors.New("file route cache needs a path")
		}

		return NewFile(cfg.Path), nil
	case "redis":
		key := cfg.Key
		if "" == key {
			key = "gdispatch:routes:" + kernel
		}

		return NewRedis(NewRedisClient(cfg), key), nil
	}

	return nil, fmt.Errorf("unknown route cache driver %q", cfg.Driver)
}

// LoadFor loads a snapshot and returns ErrStale when it holds the routes of another kernel.
func LoadFor(ctx context.Context, cache Cache, kernel string) (*Snapshot, error) {
	snapshot, loadError := cache.Load(ctx)
	if nil != loadError {
		return nil, loadError
	}
	if kernel != snapshot.Kernel {
		return nil, fmt.Errorf("%w: written for kernel %q", ErrStale, snapshot.Kernel)
	}

	return snapshot, nil
}

func checkVersion(snapshot *Snapshot) (*Snapshot, error) {
	if SnapshotVersion != snapshot.Version {
		return nil, fmt.Errorf("%w: version %d", ErrStale, snapshot.Version)
	}

	return snapshot, nil
}
