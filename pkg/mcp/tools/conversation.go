package tools

import (
	"context"
	"errors"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/openshift/videa/pkg/ai"
	intakev1 "github.com/openshift/videa/pkg/apis/intake/v1"
	"github.com/openshift/videa/pkg/conversation"
)

type ConversationTool struct {
	*BaseTool
}

func NewConversationTool(deps *ToolDependencies) *ConversationTool {
	return &ConversationTool{BaseTool: NewBaseTool(deps)}
}

func (t *ConversationTool) GetDefinition() mcp.Tool {
	return mcp.Tool{
		Name:        "get_conversation",
		Description: "Returns the stored state of an intake conversation: profile, completion, status and any recommendation.",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]any{
				"conversation_id": stringSchema("Conversation identifier returned when the chat was started"),
			},
			Required: []string{"conversation_id"},
		},
	}
}

func (t *ConversationTool) GetHandler() func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	return func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		id := mcp.ParseString(request, "conversation_id", "")
		if id == "" {
			return t.CreateErrorResponse("conversation_id is required")
		}
		if t.deps.Manager == nil {
			return t.CreateErrorResponse("conversations are not available")
		}

		state, err := t.deps.Manager.Get(ctx, id)
		if errors.Is(err, conversation.ErrNotFound) {
			return t.CreateErrorResponse("conversation %s not found", id)
		} else if err != nil {
			return t.CreateErrorResponse("error loading conversation: %v", err)
		}
		return t.CreateJSONResponse(state)
	}
}

// MatchProfileTool runs the deterministic persona rules over a role and experience. It
// never calls the completion service, so answers are reproducible.
type MatchProfileTool struct {
	*BaseTool
}

func NewMatchProfileTool(deps *ToolDependencies) *MatchProfileTool {
	return &MatchProfileTool{BaseTool: NewBaseTool(deps)}
}

func (t *MatchProfileTool) GetDefinition() mcp.Tool {
	return mcp.Tool{
		Name:        "match_profile",
		Description: "Matches a role and months of experience to a persona using the rule based matcher.",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]any{
				"role": stringSchema("Job title, for example \"team lead\""),
				"experience_months": map[string]any{
					"type":        "integer",
					"description": "Months of experience in the role",
				},
			},
		},
	}
}

func (t *MatchProfileTool) GetHandler() func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	return func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		var profile intakev1.Profile
		if role := mcp.ParseString(request, "role", ""); role != "" {
			profile.Role = &role
		}
		if months := mcp.ParseInt(request, "experience_months", -1); months >= 0 {
			profile.ExperienceMonths = &months
		}
		return t.CreateJSONResponse(ai.RuleBasedMatch(profile))
	}
}
