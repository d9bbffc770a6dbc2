// ABOUTME: MCP tool implementations over the read catalog.
// ABOUTME: Lists experiments and participants, resolves measurements and queries datapoints.
package mcp

import (
	"context"
	"fmt"
	"strings"

	"github.com/kgaertn/PAH-PCA-LDA/internal/models"
	"github.com/kgaertn/PAH-PCA-LDA/internal/storage"
	"github.com/modelcontextprotocol/go-sdk/mcp"
)

func (s *Server) registerTools() {
	mcp.AddTool(s.mcpServer, &mcp.Tool{
		Name:        "list_experiments",
		Description: "List every experiment with its data state and upload status",
	}, s.handleListExperiments)

	mcp.AddTool(s.mcpServer, &mcp.Tool{
		Name:        "find_experiment",
		Description: "Look up an experiment by name, optionally narrowed to one data state (raw or clean)",
	}, s.handleFindExperiment)

	mcp.AddTool(s.mcpServer, &mcp.Tool{
		Name:        "list_participants",
		Description: "List the participants of an experiment with instrument and pain indicators",
	}, s.handleListParticipants)

	mcp.AddTool(s.mcpServer, &mcp.Tool{
		Name:        "get_measurement",
		Description: "Get one measurement and its datapoints",
	}, s.handleGetMeasurement)

	mcp.AddTool(s.mcpServer, &mcp.Tool{
		Name:        "query_datapoints",
		Description: "Query datapoints of an experiment, narrowed by device, timepoint, target and axis in that order",
	}, s.handleQueryDatapoints)
}

// Tool input/output types

type listExperimentsInput struct{}

type findExperimentInput struct {
	Name      string `json:"name" jsonschema:"experiment name"`
	DataState string `json:"data_state,omitempty" jsonschema:"raw or clean; any state when empty"`
}

type experimentOutput struct {
	Found      bool               `json:"found"`
	Experiment *models.Experiment `json:"experiment,omitempty"`
}

type listParticipantsInput struct {
	ExperimentName string `json:"experiment_name" jsonschema:"experiment name, matched case-insensitively"`
}

type getMeasurementInput struct {
	MeasurementID int64 `json:"measurement_id" jsonschema:"internal measurement id"`
}

type measurementOutput struct {
	Found       bool                `json:"found"`
	Measurement *models.Measurement `json:"measurement,omitempty"`
	Datapoints  []*models.Datapoint `json:"datapoints,omitempty"`
}

type queryDatapointsInput struct {
	ExperimentID int64  `json:"experiment_id" jsonschema:"internal experiment id"`
	Device       string `json:"device,omitempty" jsonschema:"emg or mocap"`
	Timepoint    string `json:"timepoint,omitempty" jsonschema:"pre or post; requires device"`
	Target       string `json:"target,omitempty" jsonschema:"muscle or joint; requires timepoint"`
	Axis         string `json:"axis,omitempty" jsonschema:"axis label; requires target"`
	Deidentified bool   `json:"deidentified,omitempty" jsonschema:"omit instrument and pain columns; needs device and timepoint only"`
}

// Tool handlers

func (s *Server) handleListExperiments(ctx context.Context, req *mcp.CallToolRequest, input listExperimentsInput) (*mcp.CallToolResult, any, error) {
	table, err := s.repos.Experiments.All(ctx)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to list experiments: %w", err)
	}
	return nil, table, nil
}

func (s *Server) handleFindExperiment(ctx context.Context, req *mcp.CallToolRequest, input findExperimentInput) (*mcp.CallToolResult, experimentOutput, error) {
	name := strings.ToLower(input.Name)

	var (
		id    int64
		found bool
		err   error
	)
	if input.DataState == "" {
		id, found, err = s.repos.Experiments.IDByName(ctx, name)
	} else {
		id, found, err = s.repos.Experiments.IDByNameAndDataState(ctx, name, models.DataState(strings.ToLower(input.DataState)))
	}
	if err != nil {
		return nil, experimentOutput{}, fmt.Errorf("failed to find experiment: %w", err)
	}
	if !found {
		return nil, experimentOutput{}, nil
	}

	e, err := s.repos.Experiments.ByID(ctx, id)
	if err != nil {
		return nil, experimentOutput{}, fmt.Errorf("failed to get experiment: %w", err)
	}
	return nil, experimentOutput{Found: e != nil, Experiment: e}, nil
}

func (s *Server) handleListParticipants(ctx context.Context, req *mcp.CallToolRequest, input listParticipantsInput) (*mcp.CallToolResult, any, error) {
	table, err := s.repos.Participants.ByExperimentName(ctx, input.ExperimentName)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to list participants: %w", err)
	}
	return nil, table, nil
}

func (s *Server) handleGetMeasurement(ctx context.Context, req *mcp.CallToolRequest, input getMeasurementInput) (*mcp.CallToolResult, measurementOutput, error) {
	m, err := s.repos.Measurements.ByID(ctx, input.MeasurementID)
	if err != nil {
		return nil, measurementOutput{}, fmt.Errorf("failed to get measurement: %w", err)
	}
	if m == nil {
		return nil, measurementOutput{}, nil
	}

	dps, err := s.repos.Datapoints.ByMeasurement(ctx, m.ID)
	if err != nil {
		return nil, measurementOutput{}, fmt.Errorf("failed to list datapoints: %w", err)
	}
	return nil, measurementOutput{Found: true, Measurement: m, Datapoints: dps}, nil
}

func (s *Server) handleQueryDatapoints(ctx context.Context, req *mcp.CallToolRequest, input queryDatapointsInput) (*mcp.CallToolResult, any, error) {
	q := storage.DatapointQuery{
		ExperimentID: input.ExperimentID,
		Device:       models.Device(input.Device),
		Timepoint:    models.Timepoint(input.Timepoint),
		Target:       input.Target,
		Axis:         input.Axis,
		Deidentified: input.Deidentified,
	}

	table, err := s.repos.Datapoints.Query(ctx, q)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to query datapoints: %w", err)
	}
	s.logger.Debug().
		Int64("experiment_id", q.ExperimentID).
		Int("rows", table.Len()).
		Bool("deidentified", q.Deidentified).
		Msg("datapoint query")
	return nil, table, nil
}
