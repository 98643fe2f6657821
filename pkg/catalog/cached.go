package catalog

import (
	"context"
	"fmt"
	"time"

	"github.com/openshift/videa/pkg/api"
	"github.com/openshift/videa/pkg/apis/cache"
	intakev1 "github.com/openshift/videa/pkg/apis/intake/v1"
)

const DefaultCacheDuration = time.Hour

// Cached is a read-through cache in front of another Reader. Reference data only changes
// when the catalog is reseeded, so entries simply expire.
type Cached struct {
	Reader   Reader
	Cache    cache.Cache
	Duration time.Duration
}

func NewCached(r Reader, c cache.Cache) *Cached {
	return &Cached{Reader: r, Cache: c, Duration: DefaultCacheDuration}
}

func (c *Cached) ListPersonas(ctx context.Context) ([]intakev1.Persona, error) {
	return api.GetDataFromCacheOrGenerate(c.Cache, "personas", c.Duration, func() ([]intakev1.Persona, error) {
		return c.Reader.ListPersonas(ctx)
	})
}

func (c *Cached) CollectionForPersona(ctx context.Context, personaID string) (*intakev1.Collection, error) {
	return api.GetDataFromCacheOrGenerate(c.Cache, fmt.Sprintf("collection~%s", personaID), c.Duration,
		func() (*intakev1.Collection, error) {
			return c.Reader.CollectionForPersona(ctx, personaID)
		})
}
