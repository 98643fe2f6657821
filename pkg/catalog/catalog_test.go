package catalog

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	intakev1 "github.com/openshift/videa/pkg/apis/intake/v1"
	"github.com/openshift/videa/pkg/db/dbtest"
	"github.com/openshift/videa/pkg/db/models"
)

func TestLoadSeed(t *testing.T) {
	seed, err := LoadSeed()
	require.NoError(t, err)

	assert.Len(t, seed.Personas, 5)
	assert.Len(t, seed.Videos, 25)
	assert.Len(t, seed.Collections, 5)
	for _, c := range seed.Collections {
		assert.Len(t, c.Videos, 5, c.CollectionID)
	}
}

func TestParseSeedValidation(t *testing.T) {
	tests := []struct {
		name    string
		yaml    string
		wantErr string
	}{
		{
			name: "collection with unknown persona",
			yaml: `
personas:
- persona_id: persona_001
  name: A
collections:
- collection_id: c1
  target_persona_id: persona_009
`,
			wantErr: "unknown persona",
		},
		{
			name: "collection with unknown video",
			yaml: `
personas:
- persona_id: persona_001
  name: A
videos:
- video_id: vid_001
collections:
- collection_id: c1
  target_persona_id: persona_001
  videos: [vid_001, vid_002]
`,
			wantErr: "unknown video vid_002",
		},
		{
			name: "duplicate video",
			yaml: `
videos:
- video_id: vid_001
- video_id: vid_001
`,
			wantErr: "duplicate video",
		},
		{
			name: "persona without id",
			yaml: `
personas:
- name: Nobody
`,
			wantErr: "has no id",
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			_, err := ParseSeed([]byte(tc.yaml))
			require.Error(t, err)
			assert.Contains(t, err.Error(), tc.wantErr)
		})
	}
}

func TestSeedLoadIntoDatabase(t *testing.T) {
	ctx := context.Background()
	dbc := dbtest.New(t)
	seed, err := LoadSeed()
	require.NoError(t, err)

	require.NoError(t, seed.Load(ctx, dbc))
	// reseeding must not duplicate anything
	require.NoError(t, seed.Load(ctx, dbc))

	var count int64
	require.NoError(t, dbc.DB.Model(&models.CollectionVideo{}).Count(&count).Error)
	assert.Equal(t, int64(25), count)

	reader := NewDBReader(dbc)
	personas, err := reader.ListPersonas(ctx)
	require.NoError(t, err)
	require.Len(t, personas, 5)
	assert.Equal(t, "persona_001", personas[0].PersonaID)
	assert.Equal(t, 24, personas[0].Characteristics.ExperienceMonths.Max)
	assert.Contains(t, personas[0].DiagnosticRules.Keywords, "team lead")

	collection, err := reader.CollectionForPersona(ctx, "persona_001")
	require.NoError(t, err)
	require.NotNil(t, collection)
	assert.Equal(t, "collection_001", collection.CollectionID)
	assert.Equal(t, 5, collection.TotalVideos)
	assert.Equal(t, 162, collection.EstimatedDurationMinutes)
	require.Len(t, collection.Videos, 5)
	for i, v := range collection.Videos {
		assert.Equal(t, i+1, v.SequencePosition)
		assert.True(t, v.IsRequired)
	}
	assert.Equal(t, "vid_001", collection.Videos[0].VideoID)
	assert.Equal(t, "Your First 90 Days as a Manager", collection.Videos[0].Title)

	missing, err := reader.CollectionForPersona(ctx, "persona_999")
	require.NoError(t, err)
	assert.Nil(t, missing)
}

func TestInactiveCollectionIsSkipped(t *testing.T) {
	ctx := context.Background()
	dbc := dbtest.New(t)
	seed, err := LoadSeed()
	require.NoError(t, err)
	require.NoError(t, seed.Load(ctx, dbc))

	require.NoError(t, dbc.DB.Model(&models.VideoCollection{}).
		Where("collection_id = ?", "collection_004").
		Update("is_active", false).Error)

	collection, err := NewDBReader(dbc).CollectionForPersona(ctx, "persona_004")
	require.NoError(t, err)
	assert.Nil(t, collection)
}

type memoryCache struct {
	entries map[string][]byte
}

func (m *memoryCache) Get(key string) ([]byte, error) {
	if v, ok := m.entries[key]; ok {
		return v, nil
	}
	return nil, errors.New("miss")
}

func (m *memoryCache) Set(key string, content []byte, _ time.Duration) error {
	m.entries[key] = content
	return nil
}

type countingReader struct {
	personaCalls    int
	collectionCalls int
}

func (c *countingReader) ListPersonas(context.Context) ([]intakev1.Persona, error) {
	c.personaCalls++
	return []intakev1.Persona{{PersonaID: "persona_001", Name: "New Manager"}}, nil
}

func (c *countingReader) CollectionForPersona(_ context.Context, personaID string) (*intakev1.Collection, error) {
	c.collectionCalls++
	return &intakev1.Collection{CollectionID: "collection_" + personaID}, nil
}

func TestCachedReader(t *testing.T) {
	ctx := context.Background()
	backing := &countingReader{}
	cached := NewCached(backing, &memoryCache{entries: map[string][]byte{}})

	for i := 0; i < 3; i++ {
		personas, err := cached.ListPersonas(ctx)
		require.NoError(t, err)
		assert.Equal(t, "New Manager", personas[0].Name)

		c, err := cached.CollectionForPersona(ctx, "persona_001")
		require.NoError(t, err)
		assert.Equal(t, "collection_persona_001", c.CollectionID)
	}
	assert.Equal(t, 1, backing.personaCalls)
	assert.Equal(t, 1, backing.collectionCalls)

	_, err := cached.CollectionForPersona(ctx, "persona_002")
	require.NoError(t, err)
	assert.Equal(t, 2, backing.collectionCalls)
}
