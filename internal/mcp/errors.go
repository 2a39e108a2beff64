package mcp

import (
	"errors"
	"fmt"
	"net"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/santhosh-tekuri/jsonschema/v6"

	"github.com/claude/tonalmcp/internal/tonal"
	"github.com/claude/tonalmcp/internal/workout"
)

// Error codes shown to the model in failed tool results.
const (
	codeValidation     = "VALIDATION_ERROR"
	codeAuthentication = "AUTHENTICATION_ERROR"
	codeAuthorization  = "AUTHORIZATION_ERROR"
	codeNetwork        = "NETWORK_ERROR"
	codeNotFound       = "NOT_FOUND"
	codeDelete         = "DELETE_ERROR"
	codeUnknown        = "UNKNOWN_ERROR"
)

// toolError is a failure whose code and message are already decided.
type toolError struct {
	code string
	msg  string
	err  error
}

func (e *toolError) Error() string {
	if e.err != nil {
		return e.msg + ": " + e.err.Error()
	}
	return e.msg
}

func (e *toolError) Unwrap() error { return e.err }

func invalidArg(format string, args ...any) error {
	return &toolError{code: codeValidation, msg: fmt.Sprintf(format, args...)}
}

// classify maps an error to a code and a message fit for the model.
func classify(err error) (code, msg string) {
	var (
		te     *toolError
		ve     *workout.ValidationError
		se     *jsonschema.ValidationError
		netErr net.Error
	)
	switch {
	case errors.As(err, &te):
		return te.code, te.Error()
	case errors.As(err, &ve):
		return codeValidation, ve.Error() + hint(ve.Err)
	case errors.As(err, &se):
		return codeValidation, "Invalid exercises: " + se.Error()
	case errors.Is(err, tonal.ErrMissingCredentials), errors.Is(err, tonal.ErrLoginFailed):
		return codeAuthentication, "Authentication failed. Please check your Tonal credentials are properly configured."
	case errors.Is(err, tonal.ErrUnauthorized):
		return codeAuthorization, "Authorization failed. Your Tonal session may have expired."
	case errors.Is(err, tonal.ErrNotFound):
		return codeNotFound, err.Error()
	case errors.As(err, &netErr):
		return codeNetwork, "Network error connecting to Tonal API. Please check your internet connection."
	default:
		return codeUnknown, err.Error()
	}
}

func hint(err error) string {
	switch {
	case errors.Is(err, workout.ErrMovementNotFound):
		return "\n\nUse search_movements or get_movements to find exact movement names."
	case errors.Is(err, workout.ErrMissingDuration):
		return "\n\nThis movement is timed; give duration in seconds instead of reps."
	case errors.Is(err, workout.ErrMissingReps):
		return "\n\nThis movement counts reps; give reps."
	}
	return ""
}

// fail logs err and turns it into an error result for tool.
func (h *handlers) fail(tool string, err error) *mcp.CallToolResult {
	code, msg := classify(err)
	if code == codeValidation {
		h.log.Warn("mcp "+tool, "code", code, "error", err)
	} else {
		h.log.Error("mcp "+tool, "code", code, "error", err)
	}
	return mcp.NewToolResultError(fmt.Sprintf("❌ **Error in %s** (%s)\n\n%s", tool, code, msg))
}
