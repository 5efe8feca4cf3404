package mcp

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/invopop/jsonschema"
)

// ToolRegistry holds the tools exposed by a Server. Tools are registered
// through the generic AddTool helper, which derives the input schema from
// the parameter struct's tags and eliminates manual unmarshaling.
type ToolRegistry struct {
	tools []toolRegistration
}

// toolRegistration stores a single tool's metadata and type-erased handler.
type toolRegistration struct {
	name        string
	description string
	schema      json.RawMessage
	invoke      func(context.Context, json.RawMessage) (*ToolCallResult, error)
}

// NewToolRegistry creates an empty ToolRegistry.
func NewToolRegistry() *ToolRegistry {
	return &ToolRegistry{}
}

// AddTool registers a type-safe tool handler. The type parameter T should
// be a struct with json and jsonschema struct tags.
//
// Example:
//
//	type echoParams struct {
//	    Text string `json:"text" jsonschema:"required,description=Text to echo back"`
//	}
//
//	registry := mcp.NewToolRegistry()
//	mcp.AddTool(registry, "echo", "Echo back the input text",
//	    func(ctx context.Context, params echoParams) (*mcp.ToolCallResult, error) {
//	        return mcp.TextResult("Echo: " + params.Text), nil
//	    })
func AddTool[T any](
	registry *ToolRegistry,
	name, description string,
	handler func(context.Context, T) (*ToolCallResult, error),
) *ToolRegistry {
	schema := generateSchema[T]()

	invoke := func(ctx context.Context, args json.RawMessage) (*ToolCallResult, error) {
		var params T
		if len(args) > 0 {
			if err := json.Unmarshal(args, &params); err != nil {
				return nil, InvalidParams(fmt.Sprintf("invalid arguments for tool %s: %v", name, err))
			}
		}
		return handler(ctx, params)
	}

	registry.tools = append(registry.tools, toolRegistration{
		name:        name,
		description: description,
		schema:      schema,
		invoke:      invoke,
	})

	return registry
}

// Tools returns the registered tool definitions.
func (r *ToolRegistry) Tools() []ToolDefinition {
	result := make([]ToolDefinition, len(r.tools))
	for i, tool := range r.tools {
		result[i] = ToolDefinition{
			Name:        tool.name,
			Description: tool.description,
			InputSchema: tool.schema,
		}
	}
	return result
}

// Call invokes the named tool with the given arguments.
func (r *ToolRegistry) Call(ctx context.Context, name string, args json.RawMessage) (*ToolCallResult, error) {
	for _, tool := range r.tools {
		if tool.name == name {
			return tool.invoke(ctx, args)
		}
	}
	return nil, InvalidParams(fmt.Sprintf("unknown tool: %s", name))
}

// generateSchema creates a JSON schema from a Go struct type using the
// invopop/jsonschema reflector.
func generateSchema[T any]() json.RawMessage {
	reflector := &jsonschema.Reflector{
		DoNotReference: true, // inline all definitions instead of using $ref
		ExpandedStruct: true,
	}

	var zero T
	schema := reflector.Reflect(zero)

	bytes, err := json.Marshal(schema)
	if err != nil {
		// This should never happen with valid types.
		panic(fmt.Sprintf("failed to generate schema for type %T: %v", zero, err))
	}

	return json.RawMessage(bytes)
}
