package tools

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
	log "github.com/sirupsen/logrus"

	"github.com/openshift/videa/pkg/apis/cache"
	"github.com/openshift/videa/pkg/catalog"
	"github.com/openshift/videa/pkg/conversation"
)

// Pinger reports whether a backing service is reachable.
type Pinger interface {
	Ping() error
}

// ToolDependencies holds what the tools read from. Any of them may be nil, tools that
// need a missing dependency report an error result instead of failing the call.
type ToolDependencies struct {
	DBClient    Pinger
	Catalog     catalog.Reader
	Manager     *conversation.Manager
	CacheClient cache.Cache
	AIEnabled   bool
}

// RegisterTools registers all available MCP tools with the server
func RegisterTools(mcpServer *server.MCPServer, deps *ToolDependencies) {
	for _, tool := range AllTools(deps) {
		mcpServer.AddTool(tool.GetDefinition(), tool.GetHandler())
		log.WithField("tool", tool.GetDefinition().Name).Info("Registered MCP tool")
	}
}

func AllTools(deps *ToolDependencies) []MCPTool {
	return []MCPTool{
		NewHealthTool(deps),
		NewListPersonasTool(deps),
		NewCollectionTool(deps),
		NewConversationTool(deps),
		NewMatchProfileTool(deps),
	}
}

// MCPTool defines the interface that all MCP tools must implement
type MCPTool interface {
	GetDefinition() mcp.Tool
	GetHandler() func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error)
}

// BaseTool provides common functionality for MCP tools
type BaseTool struct {
	deps *ToolDependencies
}

func NewBaseTool(deps *ToolDependencies) *BaseTool {
	if deps == nil {
		deps = &ToolDependencies{}
	}
	return &BaseTool{deps: deps}
}

func (bt *BaseTool) GetDependencies() *ToolDependencies {
	return bt.deps
}

// CreateJSONResponse marshals data into a single text content block.
func (bt *BaseTool) CreateJSONResponse(data interface{}) (*mcp.CallToolResult, error) {
	jsonData, err := json.Marshal(data)
	if err != nil {
		return nil, fmt.Errorf("error marshaling response: %w", err)
	}

	return &mcp.CallToolResult{
		Content: []mcp.Content{
			mcp.TextContent{
				Type: "text",
				Text: string(jsonData),
			},
		},
	}, nil
}

// CreateErrorResponse reports a tool level failure back to the client as a result, the
// protocol call itself still succeeds.
func (bt *BaseTool) CreateErrorResponse(format string, args ...any) (*mcp.CallToolResult, error) {
	return mcp.NewToolResultError(fmt.Sprintf(format, args...)), nil
}

func stringSchema(description string) map[string]any {
	return map[string]any{"type": "string", "description": description}
}
