package tools

import (
	"context"

	"github.com/mark3labs/mcp-go/mcp"
	log "github.com/sirupsen/logrus"
)

type ListPersonasTool struct {
	*BaseTool
}

func NewListPersonasTool(deps *ToolDependencies) *ListPersonasTool {
	return &ListPersonasTool{BaseTool: NewBaseTool(deps)}
}

func (t *ListPersonasTool) GetDefinition() mcp.Tool {
	return mcp.Tool{
		Name:        "list_personas",
		Description: "Lists the learner personas, with their characteristics and diagnostic rules.",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
		},
	}
}

func (t *ListPersonasTool) GetHandler() func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	return func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		if t.deps.Catalog == nil {
			return t.CreateErrorResponse("catalog is not available")
		}
		personas, err := t.deps.Catalog.ListPersonas(ctx)
		if err != nil {
			log.WithError(err).Error("error listing personas")
			return t.CreateErrorResponse("error listing personas: %v", err)
		}
		return t.CreateJSONResponse(personas)
	}
}

// CollectionTool returns the learning path offered to a persona.
type CollectionTool struct {
	*BaseTool
}

func NewCollectionTool(deps *ToolDependencies) *CollectionTool {
	return &CollectionTool{BaseTool: NewBaseTool(deps)}
}

func (t *CollectionTool) GetDefinition() mcp.Tool {
	return mcp.Tool{
		Name:        "get_collection",
		Description: "Returns the active video collection for a persona, with its videos in viewing order.",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]any{
				"persona_id": stringSchema("Persona identifier, for example persona_001"),
			},
			Required: []string{"persona_id"},
		},
	}
}

func (t *CollectionTool) GetHandler() func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	return func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		personaID := mcp.ParseString(request, "persona_id", "")
		if personaID == "" {
			return t.CreateErrorResponse("persona_id is required")
		}
		if t.deps.Catalog == nil {
			return t.CreateErrorResponse("catalog is not available")
		}

		collection, err := t.deps.Catalog.CollectionForPersona(ctx, personaID)
		if err != nil {
			log.WithError(err).WithField("persona", personaID).Error("error loading collection")
			return t.CreateErrorResponse("error loading collection: %v", err)
		}
		if collection == nil {
			return t.CreateErrorResponse("no active collection for persona %s", personaID)
		}
		return t.CreateJSONResponse(collection)
	}
}
