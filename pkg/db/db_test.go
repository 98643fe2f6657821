package db

import (
	"fmt"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm/schema"

	"github.com/openshift/videa/pkg/db/models"
)

func TestTablesParse(t *testing.T) {
	for _, model := range Tables {
		t.Run(fmt.Sprintf("%T", model), func(t *testing.T) {
			_, err := schema.Parse(model, &sync.Map{}, schema.NamingStrategy{})
			assert.NoError(t, err)
		})
	}
}

func TestTextArrayColumns(t *testing.T) {
	s, err := schema.Parse(&models.UserProfile{}, &sync.Map{}, schema.NamingStrategy{})
	require.NoError(t, err)

	for _, name := range []string{"PrimaryChallenges", "LearningGoals"} {
		field := s.LookUpField(name)
		require.NotNil(t, field, name)
		assert.Equal(t, schema.DataType("text"), field.DataType, name)
	}
}
