package tools

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/openshift/videa/pkg/ai"
	intakev1 "github.com/openshift/videa/pkg/apis/intake/v1"
	"github.com/openshift/videa/pkg/catalog"
	"github.com/openshift/videa/pkg/conversation"
	"github.com/openshift/videa/pkg/db/dbtest"
)

type mapCache map[string][]byte

func (m mapCache) Get(key string) ([]byte, error) {
	if v, ok := m[key]; ok {
		return v, nil
	}
	return nil, errors.New("miss")
}

func (m mapCache) Set(key string, content []byte, _ time.Duration) error {
	m[key] = content
	return nil
}

type brokenDB struct{}

func (brokenDB) Ping() error { return errors.New("connection refused") }

func seededDeps(t *testing.T) *ToolDependencies {
	t.Helper()
	dbc := dbtest.New(t)
	seed, err := catalog.LoadSeed()
	require.NoError(t, err)
	require.NoError(t, seed.Load(context.Background(), dbc))

	reader := catalog.NewDBReader(dbc)
	return &ToolDependencies{
		DBClient:    dbc,
		Catalog:     reader,
		Manager:     conversation.NewManager(conversation.NewDBStore(dbc), reader, ai.NewAdvisor(nil), nil),
		CacheClient: mapCache{},
	}
}

func call(t *testing.T, tool MCPTool, args map[string]any) *mcp.CallToolResult {
	t.Helper()
	request := mcp.CallToolRequest{}
	request.Params.Name = tool.GetDefinition().Name
	request.Params.Arguments = args
	result, err := tool.GetHandler()(context.Background(), request)
	require.NoError(t, err)
	require.NotNil(t, result)
	require.Len(t, result.Content, 1)
	return result
}

func text(t *testing.T, result *mcp.CallToolResult) string {
	t.Helper()
	content, ok := result.Content[0].(mcp.TextContent)
	require.True(t, ok, "expected text content, got %T", result.Content[0])
	return content.Text
}

func TestAllToolsHaveUniqueNames(t *testing.T) {
	seen := map[string]bool{}
	for _, tool := range AllTools(nil) {
		name := tool.GetDefinition().Name
		assert.False(t, seen[name], "duplicate tool %s", name)
		seen[name] = true
		assert.Equal(t, "object", tool.GetDefinition().InputSchema.Type)
	}
	assert.Len(t, seen, 5)
}

func TestHealthTool(t *testing.T) {
	tests := []struct {
		name     string
		deps     *ToolDependencies
		status   HealthStatus
		services map[string]HealthStatus
	}{
		{
			name:   "everything configured",
			deps:   &ToolDependencies{DBClient: dbtest.New(t), CacheClient: mapCache{}, AIEnabled: true},
			status: HealthStatusHealthy,
			services: map[string]HealthStatus{
				"database": HealthStatusHealthy,
				"redis":    HealthStatusHealthy,
				"ai":       HealthStatusHealthy,
			},
		},
		{
			name:   "no cache or completion service",
			deps:   &ToolDependencies{DBClient: dbtest.New(t)},
			status: HealthStatusDegraded,
			services: map[string]HealthStatus{
				"database": HealthStatusHealthy,
				"redis":    HealthStatusUnavailable,
				"ai":       HealthStatusUnavailable,
			},
		},
		{
			name:   "database down",
			deps:   &ToolDependencies{DBClient: brokenDB{}, CacheClient: mapCache{}, AIEnabled: true},
			status: HealthStatusUnhealthy,
			services: map[string]HealthStatus{
				"database": HealthStatusUnhealthy,
				"redis":    HealthStatusHealthy,
				"ai":       HealthStatusHealthy,
			},
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			result := call(t, NewHealthTool(tc.deps), nil)
			var response HealthCheckResponse
			require.NoError(t, json.Unmarshal([]byte(text(t, result)), &response))
			assert.Equal(t, tc.status, response.Status)
			for name, status := range tc.services {
				assert.Equal(t, status, response.Services[name].Status, name)
			}
		})
	}
}

func TestCatalogTools(t *testing.T) {
	deps := seededDeps(t)

	result := call(t, NewListPersonasTool(deps), nil)
	var personas []intakev1.Persona
	require.NoError(t, json.Unmarshal([]byte(text(t, result)), &personas))
	assert.Len(t, personas, 5)

	result = call(t, NewCollectionTool(deps), map[string]any{"persona_id": "persona_004"})
	assert.False(t, result.IsError)
	var collection intakev1.Collection
	require.NoError(t, json.Unmarshal([]byte(text(t, result)), &collection))
	assert.Equal(t, "collection_004", collection.CollectionID)
	assert.Len(t, collection.Videos, 5)

	result = call(t, NewCollectionTool(deps), map[string]any{"persona_id": "persona_999"})
	assert.True(t, result.IsError)
	assert.Contains(t, text(t, result), "persona_999")

	result = call(t, NewCollectionTool(deps), nil)
	assert.True(t, result.IsError)

	result = call(t, NewListPersonasTool(&ToolDependencies{}), nil)
	assert.True(t, result.IsError)
}

func TestConversationTool(t *testing.T) {
	deps := seededDeps(t)
	state, err := deps.Manager.Start(context.Background(), "user-1")
	require.NoError(t, err)

	result := call(t, NewConversationTool(deps), map[string]any{"conversation_id": state.ConversationID})
	require.False(t, result.IsError, text(t, result))
	var loaded intakev1.ConversationState
	require.NoError(t, json.Unmarshal([]byte(text(t, result)), &loaded))
	assert.Equal(t, "user-1", loaded.UserID)
	assert.Equal(t, intakev1.StatusActive, loaded.Status)

	result = call(t, NewConversationTool(deps), map[string]any{"conversation_id": "missing"})
	assert.True(t, result.IsError)
	assert.Contains(t, text(t, result), "not found")
}

func TestMatchProfileTool(t *testing.T) {
	tests := []struct {
		name       string
		args       map[string]any
		persona    string
		confidence int
	}{
		{
			name:       "new team lead",
			args:       map[string]any{"role": "team lead", "experience_months": 10},
			persona:    "persona_001",
			confidence: 75,
		},
		{
			name:       "senior engineer",
			args:       map[string]any{"role": "senior engineer", "experience_months": 72},
			persona:    "persona_002",
			confidence: 80,
		},
		{
			name:       "role beats experience",
			args:       map[string]any{"role": "hr business partner", "experience_months": 5},
			persona:    "persona_004",
			confidence: 85,
		},
		{
			name:       "experience only",
			args:       map[string]any{"experience_months": 3},
			persona:    "persona_003",
			confidence: 70,
		},
		{
			name:       "nothing known",
			args:       map[string]any{},
			persona:    "persona_003",
			confidence: 70,
		},
		{
			name:       "catch all",
			args:       map[string]any{"role": "analyst", "experience_months": 30},
			persona:    "persona_001",
			confidence: 60,
		},
	}

	tool := NewMatchProfileTool(nil)
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			var match intakev1.PersonaMatch
			require.NoError(t, json.Unmarshal([]byte(text(t, call(t, tool, tc.args))), &match))
			assert.Equal(t, tc.persona, match.MatchedPersonaID)
			assert.Equal(t, tc.confidence, match.ConfidenceScore)
			assert.Equal(t, intakev1.MatchSourceRules, match.Source)
		})
	}
}
