// ABOUTME: MCP resource implementations for the insight engine.
// ABOUTME: Provides insight://score, insight://memory, and insight://baselines.
package mcp

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/modelcontextprotocol/go-sdk/mcp"
)

func (s *Server) registerResources() {
	// insight://score - Current composite score and tier
	s.mcpServer.AddResource(&mcp.Resource{
		URI:         "insight://score",
		Name:        "Composite Health Score",
		Description: "Current composite score, sub-scores, and tier",
		MIMEType:    "application/json",
	}, s.handleScoreResource)

	// insight://memory - Longitudinal memory snapshot
	s.mcpServer.AddResource(&mcp.Resource{
		URI:         "insight://memory",
		Name:        "Longitudinal Memory",
		Description: "Profile, recent analysis history, and derived insights",
		MIMEType:    "application/json",
	}, s.handleMemoryResource)

	// insight://baselines - Trailing-window baseline statistics
	s.mcpServer.AddResource(&mcp.Resource{
		URI:         "insight://baselines",
		Name:        "Metric Baselines",
		Description: "Average, median, and IQR per metric over its trailing window",
		MIMEType:    "application/json",
	}, s.handleBaselinesResource)
}

// Resource handlers

func (s *Server) handleScoreResource(ctx context.Context, req *mcp.ReadResourceRequest) (*mcp.ReadResourceResult, error) {
	result, err := s.engine.Score()
	if err != nil {
		return nil, fmt.Errorf("failed to compute score: %w", err)
	}
	return jsonResource("insight://score", result)
}

func (s *Server) handleMemoryResource(ctx context.Context, req *mcp.ReadResourceRequest) (*mcp.ReadResourceResult, error) {
	mem := s.engine.Memory(ctx)
	if mem == nil {
		return jsonResource("insight://memory", map[string]interface{}{
			"message": "No memory yet: record an analysis first.",
		})
	}
	return jsonResource("insight://memory", mem)
}

func (s *Server) handleBaselinesResource(ctx context.Context, req *mcp.ReadResourceRequest) (*mcp.ReadResourceResult, error) {
	baselines, err := s.engine.Baselines()
	if err != nil {
		return nil, fmt.Errorf("failed to compute baselines: %w", err)
	}
	return jsonResource("insight://baselines", baselines)
}

func jsonResource(uri string, v interface{}) (*mcp.ReadResourceResult, error) {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("failed to marshal result: %w", err)
	}

	return &mcp.ReadResourceResult{
		Contents: []*mcp.ResourceContents{{
			URI:      uri,
			MIMEType: "application/json",
			Text:     string(data),
		}},
	}, nil
}
