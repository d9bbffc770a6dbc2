// ABOUTME: MCP resource implementations for the experiment database.
// ABOUTME: Provides pahdb://experiments and pahdb://upload-folders.
package mcp

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"

	"github.com/modelcontextprotocol/go-sdk/mcp"
)

const (
	experimentsURI   = "pahdb://experiments"
	uploadFoldersURI = "pahdb://upload-folders"
)

func (s *Server) registerResources() {
	s.mcpServer.AddResource(&mcp.Resource{
		URI:         experimentsURI,
		Name:        "Experiments",
		Description: "Every experiment with data state, data folder and upload flag",
		MIMEType:    "application/json",
	}, s.handleExperimentsResource)

	s.mcpServer.AddResource(&mcp.Resource{
		URI:         uploadFoldersURI,
		Name:        "Uploaded Data Folders",
		Description: "Data folders of experiments whose upload completed",
		MIMEType:    "application/json",
	}, s.handleUploadFoldersResource)
}

// Resource handlers

func (s *Server) handleExperimentsResource(ctx context.Context, req *mcp.ReadResourceRequest) (*mcp.ReadResourceResult, error) {
	table, err := s.repos.Experiments.All(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list experiments: %w", err)
	}

	var buf bytes.Buffer
	if err := table.WriteJSON(&buf); err != nil {
		return nil, fmt.Errorf("failed to encode experiments: %w", err)
	}

	return &mcp.ReadResourceResult{
		Contents: []*mcp.ResourceContents{{
			URI:      experimentsURI,
			MIMEType: "application/json",
			Text:     buf.String(),
		}},
	}, nil
}

func (s *Server) handleUploadFoldersResource(ctx context.Context, req *mcp.ReadResourceRequest) (*mcp.ReadResourceResult, error) {
	folders, err := s.repos.Experiments.CompleteDataFolders(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list data folders: %w", err)
	}
	if folders == nil {
		folders = []string{}
	}

	data, err := json.MarshalIndent(folders, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("failed to marshal result: %w", err)
	}

	return &mcp.ReadResourceResult{
		Contents: []*mcp.ResourceContents{{
			URI:      uploadFoldersURI,
			MIMEType: "application/json",
			Text:     string(data),
		}},
	}, nil
}
