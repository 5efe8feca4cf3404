package gemini

import (
	"encoding/json"
	"strings"
)

// promptDeprecationWarning is the CLI's own notice about the --prompt flag,
// emitted as an assistant message when resuming. It is noise, not output.
const promptDeprecationWarning = "The --prompt (-p) flag has been deprecated"

// Well-known event fields. None are required; absence is never an error.
const (
	keySessionID = "session_id"
	keyType      = "type"
	keyRole      = "role"
	keyContent   = "content"
	keyError     = "error"
	keyMessage   = "message"

	typeMessage   = "message"
	roleAssistant = "assistant"
)

// classifyLine applies one decoded event to the accumulated result. It
// never fails: events are arbitrary JSON values and every field lookup is
// optional with a default.
func classifyLine(raw json.RawMessage, data any, result *Result) {
	if len(result.AllMessages) < maxMessages {
		result.AllMessages = append(result.AllMessages, raw)
	}

	// Only objects carry the well-known fields; arrays and scalars are
	// retained above and otherwise ignored.
	obj, ok := data.(map[string]any)
	if !ok {
		return
	}

	// Resume token: last non-empty value wins across the whole stream.
	if sessionID := stringField(obj, keySessionID); sessionID != "" {
		result.SessionID = sessionID
	}

	itemType := stringField(obj, keyType)
	itemRole := stringField(obj, keyRole)

	if itemType == typeMessage && itemRole == roleAssistant {
		if content, ok := obj[keyContent].(string); ok {
			if strings.Contains(content, promptDeprecationWarning) {
				return
			}
			result.appendAgentMessage(content)
		}
	}

	// Error detection runs on every event, independent of the branch above.
	itemTypeLower := strings.ToLower(itemType)
	hasExplicitError := strings.Contains(itemTypeLower, "fail") || strings.Contains(itemTypeLower, "error")
	errValue, hasErrorField := obj[keyError]

	if hasExplicitError || hasErrorField {
		result.Success = false
		if errObj, ok := errValue.(map[string]any); ok {
			if msg := stringField(errObj, keyMessage); msg != "" {
				result.extendError("gemini error: " + msg)
			}
		} else if msg := stringField(obj, keyMessage); msg != "" {
			result.extendError("gemini error: " + msg)
		}
	}
}

// stringField returns the string value at key, or "" when absent or of a
// different type.
func stringField(obj map[string]any, key string) string {
	s, _ := obj[key].(string)
	return s
}
