package commands

import (
	"context"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/slok/slafeed/internal/feed"
	"github.com/slok/slafeed/internal/log"
	storagefs "github.com/slok/slafeed/internal/storage/fs"
)

func discoverProfileFiles(logger log.Logger, exclude, include *regexp.Regexp, path string) ([]string, error) {
	logger = logger.WithValues(log.Kv{"svc": "ProfileDiscovery"})

	paths := []string{}
	err := filepath.Walk(path, func(path string, info fs.FileInfo, err error) error {
		if err != nil {
			return err
		}

		// Directories and non YAML files don't need to be handled.
		extension := strings.ToLower(filepath.Ext(path))
		if info.IsDir() || (extension != ".yml" && extension != ".yaml") {
			return nil
		}

		// Filter by exclude or include (exclude has preference).
		if exclude != nil && exclude.MatchString(path) {
			logger.Debugf("Excluding path due to exclude filter %s", path)
			return nil
		}
		if include != nil && !include.MatchString(path) {
			logger.Debugf("Excluding path due to include filter %s", path)
			return nil
		}

		paths = append(paths, path)

		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("could not find files recursively: %w", err)
	}

	return paths, nil
}

// newProfileRepo returns the profile repository of a profile file, if the path is
// empty it will return nil.
func newProfileRepo(logger log.Logger, path string) (*storagefs.FileProfileRepo, error) {
	if path == "" {
		return nil, nil
	}

	return storagefs.NewFileProfileRepo(logger, feed.YAMLProfileLoader, os.DirFS(filepath.Dir(path)), filepath.Base(path))
}

// loadProfile loads the feed profile from a file, if the path is empty it
// will return the default profile.
func loadProfile(ctx context.Context, logger log.Logger, path string) (*feed.Profile, error) {
	repo, err := newProfileRepo(logger, path)
	if err != nil {
		return nil, err
	}
	if repo == nil {
		p := feed.DefaultProfile()
		return &p, nil
	}

	return repo.GetProfile(ctx)
}

func compileOptionalRegex(r string) (*regexp.Regexp, error) {
	if r == "" {
		return nil, nil
	}

	return regexp.Compile(r)
}
