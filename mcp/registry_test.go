package mcp

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type echoParams struct {
	Text string `json:"text" jsonschema:"required,description=Text to echo back"`
}

func echoRegistry() *ToolRegistry {
	registry := NewToolRegistry()
	AddTool(registry, "echo", "Echo back the input text",
		func(ctx context.Context, params echoParams) (*ToolCallResult, error) {
			return TextResult("Echo: " + params.Text), nil
		})
	return registry
}

func TestRegistry_Tools(t *testing.T) {
	t.Parallel()
	tools := echoRegistry().Tools()

	require.Len(t, tools, 1)
	assert.Equal(t, "echo", tools[0].Name)
	assert.Equal(t, "Echo back the input text", tools[0].Description)

	var schema map[string]interface{}
	require.NoError(t, json.Unmarshal(tools[0].InputSchema, &schema))
	props, ok := schema["properties"].(map[string]interface{})
	require.True(t, ok)
	assert.Contains(t, props, "text")
}

func TestRegistry_Call(t *testing.T) {
	t.Parallel()
	result, err := echoRegistry().Call(context.Background(), "echo",
		json.RawMessage(`{"text":"hi"}`))

	require.NoError(t, err)
	require.Len(t, result.Content, 1)
	assert.Equal(t, "Echo: hi", result.Content[0].Text)
	assert.False(t, result.IsError)
}

func TestRegistry_CallUnknownTool(t *testing.T) {
	t.Parallel()
	_, err := echoRegistry().Call(context.Background(), "nope", nil)

	var rpcErr *RPCError
	require.ErrorAs(t, err, &rpcErr)
	assert.Equal(t, CodeInvalidParams, rpcErr.Code)
}

func TestRegistry_CallInvalidArguments(t *testing.T) {
	t.Parallel()
	_, err := echoRegistry().Call(context.Background(), "echo",
		json.RawMessage(`{"text":`))

	var rpcErr *RPCError
	require.ErrorAs(t, err, &rpcErr)
	assert.Equal(t, CodeInvalidParams, rpcErr.Code)
}
