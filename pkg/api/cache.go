package api

import (
	"encoding/json"
	"fmt"
	"reflect"
	"time"

	log "github.com/sirupsen/logrus"

	"github.com/openshift/videa/pkg/apis/cache"
)

// GetDataFromCacheOrGenerate returns the cached value for cacheKey, otherwise calls
// generateFn and caches its result. A nil cache always generates. Cache errors are logged
// and never returned.
func GetDataFromCacheOrGenerate[T any](c cache.Cache, cacheKey string, duration time.Duration, generateFn func() (T, error)) (T, error) {
	if cacheKey == "" {
		var zero T
		panic(fmt.Sprintf("you cannot use empty string as a cache key for %s", reflect.TypeOf(zero)))
	}
	if c == nil {
		return generateFn()
	}

	if res, err := c.Get(cacheKey); err == nil {
		var cr T
		uerr := json.Unmarshal(res, &cr)
		if uerr == nil {
			log.WithField("key", cacheKey).Debug("cache hit")
			return cr, nil
		}
		log.WithError(uerr).Warnf("discarding undecodable cache entry %s", cacheKey)
	} else {
		log.Debugf("cache miss for cache key: %s", cacheKey)
	}

	result, err := generateFn()
	if err != nil {
		return result, err
	}
	if cr, err := json.Marshal(result); err == nil {
		if err := c.Set(cacheKey, cr, duration); err != nil {
			log.WithError(err).Warningf("couldn't persist new item to cache")
		}
	}
	return result, nil
}
