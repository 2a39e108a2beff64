package mcp

import (
	"fmt"

	"github.com/mark3labs/mcp-go/server"
)

// Toolset is the fixed list of tools the server exposes. It is built once at
// startup and never modified, so lookups need no locking.
type Toolset struct {
	tools  []server.ServerTool
	byName map[string]int
}

// NewToolset keeps tools in the given order. It panics on a duplicate name,
// which can only be a programming error.
func NewToolset(tools ...server.ServerTool) *Toolset {
	ts := &Toolset{
		tools:  make([]server.ServerTool, 0, len(tools)),
		byName: make(map[string]int, len(tools)),
	}
	for _, t := range tools {
		if _, dup := ts.byName[t.Tool.Name]; dup {
			panic(fmt.Sprintf("mcp: duplicate tool %q", t.Tool.Name))
		}
		ts.byName[t.Tool.Name] = len(ts.tools)
		ts.tools = append(ts.tools, t)
	}
	return ts
}

// Tools returns a copy of the tools in registration order.
func (ts *Toolset) Tools() []server.ServerTool {
	out := make([]server.ServerTool, len(ts.tools))
	copy(out, ts.tools)
	return out
}

// Names returns the tool names in registration order.
func (ts *Toolset) Names() []string {
	names := make([]string, len(ts.tools))
	for i, t := range ts.tools {
		names[i] = t.Tool.Name
	}
	return names
}

// Lookup finds a tool handler by name.
func (ts *Toolset) Lookup(name string) (server.ToolHandlerFunc, bool) {
	i, ok := ts.byName[name]
	if !ok {
		return nil, false
	}
	return ts.tools[i].Handler, true
}
