package mcp

import (
	"log/slog"
	"time"

	"github.com/mark3labs/mcp-go/server"

	"github.com/claude/tonalmcp/internal/storage"
)

const instructions = "Tonal training server. Read readiness, stats and workout history, " +
	"browse movements, and author custom workouts. Workouts are written as exercises " +
	"(movementName, sets, reps or duration, optional weight and block); exercises that " +
	"share a block alternate round by round. Use search_movements to find exact movement names."

// New creates an MCP server with all tools and resources registered. revs may
// be nil, which disables revision history.
func New(p Platform, revs storage.RevisionStore, version string, log *slog.Logger) *server.MCPServer {
	s := server.NewMCPServer("tonalmcp", version,
		server.WithToolCapabilities(false),
		server.WithResourceCapabilities(false, false),
		server.WithInstructions(instructions),
		server.WithRecovery(),
	)

	h := newHandlers(p, revs, log)

	s.AddTools(h.toolset().Tools()...)
	s.AddResources(
		server.ServerResource{Resource: resMovementCatalog, Handler: h.movementCatalog},
	)

	return s
}

// handlers holds dependencies for MCP tool/resource handlers.
type handlers struct {
	p    Platform
	revs storage.RevisionStore
	log  *slog.Logger
	now  func() time.Time
}

func newHandlers(p Platform, revs storage.RevisionStore, log *slog.Logger) *handlers {
	return &handlers{p: p, revs: revs, log: log, now: time.Now}
}

// toolset lists every tool in the order clients see them.
func (h *handlers) toolset() *Toolset {
	return NewToolset(
		server.ServerTool{Tool: toolGetMuscleReadiness, Handler: h.getMuscleReadiness},
		server.ServerTool{Tool: toolGetUserStats, Handler: h.getUserStats},
		server.ServerTool{Tool: toolGetRecentProgress, Handler: h.getRecentProgress},
		server.ServerTool{Tool: toolGetRecentWorkouts, Handler: h.getRecentWorkouts},
		server.ServerTool{Tool: toolGetMovements, Handler: h.getMovements},
		server.ServerTool{Tool: toolSearchMovements, Handler: h.searchMovements},
		server.ServerTool{Tool: toolListCustomWorkouts, Handler: h.listCustomWorkouts},
		server.ServerTool{Tool: toolGetCustomWorkoutDetails, Handler: h.getCustomWorkoutDetails},
		server.ServerTool{Tool: toolDeleteCustomWorkout, Handler: h.deleteCustomWorkout},
		server.ServerTool{Tool: toolCreateCustomWorkout, Handler: h.createCustomWorkout},
		server.ServerTool{Tool: toolGetWorkoutForEditing, Handler: h.getWorkoutForEditing},
		server.ServerTool{Tool: toolUpdateWorkout, Handler: h.updateWorkout},
		server.ServerTool{Tool: toolListWorkoutRevisions, Handler: h.listWorkoutRevisions},
		server.ServerTool{Tool: toolRestoreWorkoutRevision, Handler: h.restoreWorkoutRevision},
	)
}
