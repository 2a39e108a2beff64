package mcp

import (
	_ "embed"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/santhosh-tekuri/jsonschema/v6"

	"github.com/claude/tonalmcp/internal/models"
)

const (
	defaultWorkoutLimit = 10
	maxWorkoutLimit     = 100
)

//go:embed exercises.schema.json
var exercisesSchemaJSON []byte

var exercisesSchema = mustCompileSchema("exercises.schema.json", exercisesSchemaJSON)

func mustCompileSchema(name string, data []byte) *jsonschema.Schema {
	var doc any
	if err := json.Unmarshal(data, &doc); err != nil {
		panic(fmt.Sprintf("mcp: unmarshal %s: %v", name, err))
	}
	c := jsonschema.NewCompiler()
	if err := c.AddResource(name, doc); err != nil {
		panic(fmt.Sprintf("mcp: add schema %s: %v", name, err))
	}
	s, err := c.Compile(name)
	if err != nil {
		panic(fmt.Sprintf("mcp: compile schema %s: %v", name, err))
	}
	return s
}

// requiredString returns a trimmed, non-empty string argument.
func requiredString(req mcp.CallToolRequest, key, label string) (string, error) {
	s := strings.TrimSpace(req.GetString(key, ""))
	if s == "" {
		return "", invalidArg("%s is required", label)
	}
	return s, nil
}

// optionalString distinguishes an absent argument from an empty one.
func optionalString(req mcp.CallToolRequest, key string) (string, bool) {
	v, ok := req.GetArguments()[key]
	if !ok || v == nil {
		return "", false
	}
	s, ok := v.(string)
	return s, ok
}

// limitArg reads "limit": absent means the default, anything not a positive
// number is rejected, and large values are capped.
func limitArg(req mcp.CallToolRequest) (int, error) {
	raw, ok := req.GetArguments()["limit"]
	if !ok || raw == nil {
		return defaultWorkoutLimit, nil
	}

	var n float64
	switch v := raw.(type) {
	case float64:
		n = v
	case int:
		n = float64(v)
	case string:
		f, err := strconv.ParseFloat(strings.TrimSpace(v), 64)
		if err != nil {
			return 0, invalidArg("Limit must be a positive number")
		}
		n = f
	default:
		return 0, invalidArg("Limit must be a positive number")
	}
	if n <= 0 {
		return 0, invalidArg("Limit must be a positive number")
	}
	return min(int(n), maxWorkoutLimit), nil
}

// stringSliceArg reads an optional array of strings.
func stringSliceArg(req mcp.CallToolRequest, key string) ([]string, error) {
	raw, ok := req.GetArguments()[key]
	if !ok || raw == nil {
		return nil, nil
	}
	items, ok := raw.([]any)
	if !ok {
		return nil, invalidArg("%s must be an array", key)
	}
	out := make([]string, 0, len(items))
	for _, item := range items {
		s, ok := item.(string)
		if !ok {
			return nil, invalidArg("All items in %s must be strings", key)
		}
		out = append(out, s)
	}
	return out, nil
}

// exercisesArg validates the "exercises" argument against the embedded
// schema and decodes it. Some clients send the array as a JSON string; that
// form is accepted too.
func exercisesArg(req mcp.CallToolRequest) ([]models.ExerciseSpec, error) {
	raw, ok := req.GetArguments()["exercises"]
	if !ok || raw == nil {
		return nil, invalidArg("At least one exercise is required")
	}
	if s, isString := raw.(string); isString {
		var parsed any
		if err := json.Unmarshal([]byte(s), &parsed); err != nil {
			return nil, invalidArg("exercises must be a JSON array: %v", err)
		}
		raw = parsed
	}

	if err := exercisesSchema.Validate(raw); err != nil {
		return nil, err
	}

	data, err := json.Marshal(raw)
	if err != nil {
		return nil, fmt.Errorf("re-encoding exercises: %w", err)
	}
	var exercises []models.ExerciseSpec
	if err := json.Unmarshal(data, &exercises); err != nil {
		return nil, invalidArg("exercises could not be decoded: %v", err)
	}
	if len(exercises) == 0 {
		return nil, invalidArg("At least one exercise is required")
	}
	return exercises, nil
}
