package tools

import (
	"context"
	"fmt"
	"time"

	"github.com/mark3labs/mcp-go/mcp"
	log "github.com/sirupsen/logrus"
)

type HealthStatus string

const (
	HealthStatusHealthy     HealthStatus = "healthy"
	HealthStatusDegraded    HealthStatus = "degraded"
	HealthStatusUnhealthy   HealthStatus = "unhealthy"
	HealthStatusUnavailable HealthStatus = "unavailable"
)

const healthCheckKey = "health_check"

// HealthTool reports database, cache and completion service status.
type HealthTool struct {
	*BaseTool
}

func NewHealthTool(deps *ToolDependencies) *HealthTool {
	return &HealthTool{
		BaseTool: NewBaseTool(deps),
	}
}

func (ht *HealthTool) GetDefinition() mcp.Tool {
	return mcp.Tool{
		Name:        "health_check",
		Description: "Checks the intake service's database, redis cache and completion service.",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
		},
	}
}

type HealthCheckResponse struct {
	Status    HealthStatus           `json:"status"`
	Timestamp time.Time              `json:"timestamp"`
	Services  map[string]ServiceInfo `json:"services"`
	Message   string                 `json:"message"`
}

type ServiceInfo struct {
	Status  HealthStatus `json:"status"`
	Message string       `json:"message,omitempty"`
}

func (ht *HealthTool) GetHandler() func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	return func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		log.Debug("Handling health_check tool call")

		response := &HealthCheckResponse{
			Timestamp: time.Now(),
			Services: map[string]ServiceInfo{
				"database": ht.checkDatabaseHealth(),
				"redis":    ht.checkRedisHealth(),
				"ai":       ht.checkAIHealth(),
			},
		}

		// Only the database is required, a missing cache or completion service degrades
		// the service but it keeps answering.
		response.Status = HealthStatusHealthy
		response.Message = "All services are operational"
		for name, info := range response.Services {
			if info.Status == HealthStatusHealthy {
				continue
			}
			if name == "database" {
				response.Status = HealthStatusUnhealthy
				response.Message = "Database is not reachable"
				break
			}
			response.Status = HealthStatusDegraded
			response.Message = "Some services are experiencing issues"
		}

		return ht.CreateJSONResponse(response)
	}
}

func (ht *HealthTool) checkDatabaseHealth() ServiceInfo {
	if ht.deps.DBClient == nil {
		return ServiceInfo{
			Status:  HealthStatusUnavailable,
			Message: "Database client not configured",
		}
	}
	if err := ht.deps.DBClient.Ping(); err != nil {
		return ServiceInfo{
			Status:  HealthStatusUnhealthy,
			Message: fmt.Sprintf("Database ping failed: %v", err),
		}
	}
	return ServiceInfo{
		Status:  HealthStatusHealthy,
		Message: "Database connection successful",
	}
}

// checkRedisHealth round trips a value through the cache.
func (ht *HealthTool) checkRedisHealth() ServiceInfo {
	if ht.deps.CacheClient == nil {
		return ServiceInfo{
			Status:  HealthStatusUnavailable,
			Message: "Redis client not configured",
		}
	}

	testValue := []byte(time.Now().UTC().Format(time.RFC3339Nano))
	if err := ht.deps.CacheClient.Set(healthCheckKey, testValue, time.Minute); err != nil {
		return ServiceInfo{
			Status:  HealthStatusUnhealthy,
			Message: fmt.Sprintf("Redis set operation failed: %v", err),
		}
	}

	retrieved, err := ht.deps.CacheClient.Get(healthCheckKey)
	if err != nil {
		return ServiceInfo{
			Status:  HealthStatusUnhealthy,
			Message: fmt.Sprintf("Redis get operation failed: %v", err),
		}
	}
	if string(retrieved) != string(testValue) {
		return ServiceInfo{
			Status:  HealthStatusUnhealthy,
			Message: "Redis returned unexpected value",
		}
	}

	return ServiceInfo{
		Status:  HealthStatusHealthy,
		Message: "Redis connection successful",
	}
}

func (ht *HealthTool) checkAIHealth() ServiceInfo {
	if !ht.deps.AIEnabled {
		return ServiceInfo{
			Status:  HealthStatusUnavailable,
			Message: "No completion service configured, rule based fallbacks in use",
		}
	}
	return ServiceInfo{
		Status:  HealthStatusHealthy,
		Message: "Completion service configured",
	}
}
