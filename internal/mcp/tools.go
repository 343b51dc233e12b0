// ABOUTME: MCP tool implementations for the insight engine.
// ABOUTME: Exposes entry upkeep, scoring, analysis recording, and memory control.
package mcp

import (
	"context"
	"fmt"
	"time"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/harperreed/insight/internal/models"
)

func (s *Server) registerTools() {
	// add_entry
	mcp.AddTool(s.mcpServer, &mcp.Tool{
		Name:        "add_entry",
		Description: "Record one daily metric value (sleep_hours, hrv, readiness, etc.)",
	}, s.handleAddEntry)

	// list_entries
	mcp.AddTool(s.mcpServer, &mcp.Tool{
		Name:        "list_entries",
		Description: "List recent daily entries, oldest first",
	}, s.handleListEntries)

	// compute_score
	mcp.AddTool(s.mcpServer, &mcp.Tool{
		Name:        "compute_score",
		Description: "Compute the composite health score and tier from stored entries",
	}, s.handleComputeScore)

	// record_analysis
	mcp.AddTool(s.mcpServer, &mcp.Tool{
		Name:        "record_analysis",
		Description: "Record a completed narrative analysis into longitudinal memory",
	}, s.handleRecordAnalysis)

	// get_memory
	mcp.AddTool(s.mcpServer, &mcp.Tool{
		Name:        "get_memory",
		Description: "Get the subject's longitudinal memory snapshot",
	}, s.handleGetMemory)

	// clear_memory
	mcp.AddTool(s.mcpServer, &mcp.Tool{
		Name:        "clear_memory",
		Description: "Clear the subject's memory from cache and cloud (idempotent)",
	}, s.handleClearMemory)
}

// Tool input/output types

type addEntryInput struct {
	Metric string  `json:"metric" jsonschema:"description=Metric name (sleep_hours, deep_sleep_hours, rem_sleep_hours, resting_hr, hrv, steps, active_calories, vo2max, readiness, strain),required"`
	Value  float64 `json:"value" jsonschema:"description=The metric value,required"`
	Date   string  `json:"date,omitempty" jsonschema:"description=Calendar day (YYYY-MM-DD), defaults to today"`
}

type entryOutput struct {
	Date    string `json:"date"`
	Metric  string `json:"metric"`
	Message string `json:"message"`
}

type listEntriesInput struct {
	Limit int `json:"limit,omitempty" jsonschema:"description=Max days (default 21)"`
}

type recordAnalysisInput struct {
	Analysis models.NarrativeAnalysis `json:"analysis" jsonschema:"description=Completed narrative analysis result,required"`
}

type simpleOutput struct {
	Message string `json:"message"`
}

// Tool handlers

func (s *Server) handleAddEntry(ctx context.Context, req *mcp.CallToolRequest, input addEntryInput) (*mcp.CallToolResult, entryOutput, error) {
	if !models.IsValidMetric(input.Metric) {
		return nil, entryOutput{}, fmt.Errorf("unknown metric: %s", input.Metric)
	}

	date := input.Date
	if date == "" {
		date = time.Now().Format(models.DateFormat)
	} else if _, err := time.Parse(models.DateFormat, date); err != nil {
		return nil, entryOutput{}, fmt.Errorf("invalid date: %s", input.Date)
	}

	if err := s.entries.SetEntryValue(date, models.Metric(input.Metric), input.Value); err != nil {
		return nil, entryOutput{}, fmt.Errorf("failed to record entry: %w", err)
	}

	return nil, entryOutput{
		Date:   date,
		Metric: input.Metric,
		Message: fmt.Sprintf("Recorded %s = %.2f %s on %s",
			input.Metric, input.Value, models.MetricUnits[models.Metric(input.Metric)], date),
	}, nil
}

func (s *Server) handleListEntries(ctx context.Context, req *mcp.CallToolRequest, input listEntriesInput) (*mcp.CallToolResult, any, error) {
	if input.Limit <= 0 {
		input.Limit = 21
	}

	entries, err := s.entries.ListEntries(input.Limit)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to list entries: %w", err)
	}

	if len(entries) == 0 {
		return nil, map[string]interface{}{"message": "No entries found."}, nil
	}

	return nil, entries, nil
}

func (s *Server) handleComputeScore(ctx context.Context, req *mcp.CallToolRequest, input struct{}) (*mcp.CallToolResult, any, error) {
	result, err := s.engine.Score()
	if err != nil {
		return nil, nil, fmt.Errorf("failed to compute score: %w", err)
	}

	if !result.Available() {
		return nil, map[string]interface{}{
			"score":   nil,
			"message": "Score unavailable: no contributing metric has data.",
		}, nil
	}

	return nil, result, nil
}

func (s *Server) handleRecordAnalysis(ctx context.Context, req *mcp.CallToolRequest, input recordAnalysisInput) (*mcp.CallToolResult, any, error) {
	mem, summ, err := s.engine.Analyze(ctx, &input.Analysis)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to record analysis: %w", err)
	}

	message := fmt.Sprintf("Recorded analysis #%d (unscored)", mem.InteractionCount)
	if summ.Score != nil {
		message = fmt.Sprintf("Recorded analysis #%d (score %d)", mem.InteractionCount, *summ.Score)
	}

	return nil, map[string]interface{}{
		"summary": summ,
		"memory":  mem,
		"message": message,
	}, nil
}

func (s *Server) handleGetMemory(ctx context.Context, req *mcp.CallToolRequest, input struct{}) (*mcp.CallToolResult, any, error) {
	mem := s.engine.Memory(ctx)
	if mem == nil {
		return nil, map[string]interface{}{"message": "No memory yet: record an analysis first."}, nil
	}
	return nil, mem, nil
}

func (s *Server) handleClearMemory(ctx context.Context, req *mcp.CallToolRequest, input struct{}) (*mcp.CallToolResult, simpleOutput, error) {
	if err := s.engine.Clear(ctx); err != nil {
		return nil, simpleOutput{}, fmt.Errorf("failed to clear memory: %w", err)
	}
	return nil, simpleOutput{Message: "Memory cleared."}, nil
}
