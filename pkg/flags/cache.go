package flags

import (
	"os"

	"github.com/spf13/pflag"

	"github.com/openshift/videa/pkg/apis/cache"
	"github.com/openshift/videa/pkg/cache/redis"
)

// CacheFlags configures the redis cache in front of the catalog.
type CacheFlags struct {
	RedisURL string
}

func NewCacheFlags() *CacheFlags {
	return &CacheFlags{}
}

func (f *CacheFlags) BindFlags(fs *pflag.FlagSet) {
	fs.StringVar(&f.RedisURL,
		"redis-url",
		os.Getenv("REDIS_URL"),
		"Redis URL for caching reference data")
}

// GetCacheClient returns nil, nil when no redis URL is configured.
func (f *CacheFlags) GetCacheClient() (cache.Cache, error) {
	if f.RedisURL != "" {
		return redis.NewRedisCache(f.RedisURL)
	}

	return nil, nil
}
