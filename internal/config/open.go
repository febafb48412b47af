package config

import (
	"context"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/distortviz/pkg/cache"
	"github.com/matzehuels/distortviz/pkg/distortion"
	"github.com/matzehuels/distortviz/pkg/httputil"
	"github.com/matzehuels/distortviz/pkg/snapshot"
)

// OpenCache returns the configured response cache.
func (c *Config) OpenCache(ctx context.Context) (cache.Cache, error) {
	switch c.Cache.Backend {
	case "file":
		dir := c.Cache.Dir
		if dir == "" {
			d, err := cache.DefaultDir()
			if err != nil {
				return nil, err
			}
			dir = d
		}
		fc, err := cache.NewFileCache(dir)
		if err != nil {
			return nil, err
		}
		return fc, nil
	case "redis":
		return cache.NewRedisCache(ctx, c.Cache.RedisURL)
	default:
		return cache.NewNullCache(), nil
	}
}

// OpenSnapshots returns the configured snapshot store.
func (c *Config) OpenSnapshots(ctx context.Context) (snapshot.Store, error) {
	switch c.Snapshots.Backend {
	case "memory":
		return snapshot.NewMemoryStore(), nil
	case "mongo":
		ms, err := snapshot.NewMongoStore(ctx, c.Snapshots.Mongo)
		if err != nil {
			return nil, err
		}
		return ms, nil
	default:
		fs, err := snapshot.NewFileStore(c.Snapshots.Dir)
		if err != nil {
			return nil, err
		}
		return fs, nil
	}
}

// NewClient builds a distortion client for the configured service, caching
// responses in store.
func (c *Config) NewClient(store cache.Cache, logger *log.Logger) (*distortion.Client, error) {
	return distortion.NewClient(c.Distortion.URL,
		distortion.WithHTTPClient(httputil.NewHTTPClient(c.Distortion.Timeout)),
		distortion.WithRetry(c.Distortion.Retry),
		distortion.WithCache(store, cache.NewDefaultKeyer(), c.Cache.TTL),
		distortion.WithLogger(logger),
	)
}
