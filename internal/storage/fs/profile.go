package fs

import (
	"context"
	"fmt"
	"io/fs"
	"sync"

	"github.com/slok/slafeed/internal/feed"
	"github.com/slok/slafeed/internal/log"
)

type ProfileLoader interface {
	LoadProfile(ctx context.Context, data []byte) (*feed.Profile, error)
}

// FileProfileRepo loads a feed profile from a file of a file system and keeps
// the last correctly loaded one until the next reload.
type FileProfileRepo struct {
	fsys    fs.FS
	path    string
	loader  ProfileLoader
	profile feed.Profile
	logger  log.Logger
	mu      sync.RWMutex
}

// NewFileProfileRepo returns a new FileProfileRepo, the profile is loaded on creation.
func NewFileProfileRepo(logger log.Logger, loader ProfileLoader, fsys fs.FS, path string) (*FileProfileRepo, error) {
	if logger == nil {
		logger = log.Noop
	}

	r := &FileProfileRepo{
		fsys:   fsys,
		path:   path,
		loader: loader,
		logger: logger.WithValues(log.Kv{"svc": "storagefs.FileProfileRepo", "path": path}),
	}

	err := r.Reload(context.Background())
	if err != nil {
		return nil, err
	}

	return r, nil
}

// Reload reads and loads the profile file again. On error the previous profile is kept.
func (r *FileProfileRepo) Reload(ctx context.Context) error {
	data, err := fs.ReadFile(r.fsys, r.path)
	if err != nil {
		return fmt.Errorf("could not read profile file: %w", err)
	}

	p, err := r.loader.LoadProfile(ctx, data)
	if err != nil {
		return fmt.Errorf("could not load profile %q: %w", r.path, err)
	}

	r.mu.Lock()
	r.profile = *p
	r.mu.Unlock()

	r.logger.WithValues(log.Kv{"refresh-interval": p.RefreshInterval}).Debugf("Profile loaded")
	return nil
}

func (r *FileProfileRepo) GetProfile(ctx context.Context) (*feed.Profile, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	p := r.profile
	return &p, nil
}
