package mcp

import (
	"context"
	"encoding/json"

	"github.com/mark3labs/mcp-go/mcp"
)

var resMovementCatalog = mcp.NewResource(
	"tonal://movement_catalog",
	"Movement Catalog",
	mcp.WithResourceDescription("Every movement with its id, muscle groups and whether it counts reps or time"),
	mcp.WithMIMEType("application/json"),
)

func (h *handlers) movementCatalog(ctx context.Context, req mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
	movements, err := h.p.GetMovements(ctx)
	if err != nil {
		h.log.Error("mcp movement_catalog", "error", err)
		return nil, err
	}

	data, err := json.Marshal(movements)
	if err != nil {
		return nil, err
	}

	return []mcp.ResourceContents{
		mcp.TextResourceContents{
			URI:      req.Params.URI,
			MIMEType: "application/json",
			Text:     string(data),
		},
	}, nil
}
