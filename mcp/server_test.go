package mcp

import (
	"bytes"
	"context"
	"encoding/json"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// serve feeds newline-separated requests to a test server and returns the
// decoded responses in order.
func serve(t *testing.T, requests ...string) []Response {
	t.Helper()

	srv := NewServer(
		ServerInfo{Name: "test-server", Version: "0.0.1"},
		"test instructions",
		echoRegistry(),
		nil,
	)

	var out bytes.Buffer
	in := strings.NewReader(strings.Join(requests, "\n") + "\n")
	require.NoError(t, srv.Serve(context.Background(), in, &out))

	var responses []Response
	for _, line := range strings.Split(strings.TrimSpace(out.String()), "\n") {
		if line == "" {
			continue
		}
		var resp Response
		require.NoError(t, json.Unmarshal([]byte(line), &resp))
		responses = append(responses, resp)
	}
	return responses
}

func TestServer_Initialize(t *testing.T) {
	t.Parallel()
	responses := serve(t, `{"jsonrpc":"2.0","id":1,"method":"initialize","params":{}}`)

	require.Len(t, responses, 1)
	require.Nil(t, responses[0].Error)

	encoded, err := json.Marshal(responses[0].Result)
	require.NoError(t, err)
	var result InitializeResult
	require.NoError(t, json.Unmarshal(encoded, &result))

	assert.Equal(t, ProtocolVersion, result.ProtocolVersion)
	assert.Equal(t, "test-server", result.ServerInfo.Name)
	assert.NotNil(t, result.Capabilities.Tools)
	assert.Equal(t, "test instructions", result.Instructions)
}

func TestServer_InitializedNotificationIsSilent(t *testing.T) {
	t.Parallel()
	responses := serve(t,
		`{"jsonrpc":"2.0","method":"notifications/initialized"}`,
		`{"jsonrpc":"2.0","id":2,"method":"ping"}`,
	)

	// Only the ping gets a response.
	require.Len(t, responses, 1)
	assert.Equal(t, "2", string(responses[0].ID))
}

func TestServer_ToolsList(t *testing.T) {
	t.Parallel()
	responses := serve(t, `{"jsonrpc":"2.0","id":3,"method":"tools/list"}`)

	require.Len(t, responses, 1)
	encoded, err := json.Marshal(responses[0].Result)
	require.NoError(t, err)
	var result ToolsListResult
	require.NoError(t, json.Unmarshal(encoded, &result))

	require.Len(t, result.Tools, 1)
	assert.Equal(t, "echo", result.Tools[0].Name)
}

func TestServer_ToolsCall(t *testing.T) {
	t.Parallel()
	responses := serve(t,
		`{"jsonrpc":"2.0","id":4,"method":"tools/call","params":{"name":"echo","arguments":{"text":"hi"}}}`)

	require.Len(t, responses, 1)
	require.Nil(t, responses[0].Error)

	encoded, err := json.Marshal(responses[0].Result)
	require.NoError(t, err)
	var result ToolCallResult
	require.NoError(t, json.Unmarshal(encoded, &result))

	require.Len(t, result.Content, 1)
	assert.Equal(t, "Echo: hi", result.Content[0].Text)
}

func TestServer_ToolsCallUnknownTool(t *testing.T) {
	t.Parallel()
	responses := serve(t,
		`{"jsonrpc":"2.0","id":5,"method":"tools/call","params":{"name":"nope","arguments":{}}}`)

	require.Len(t, responses, 1)
	require.NotNil(t, responses[0].Error)
	assert.Equal(t, CodeInvalidParams, responses[0].Error.Code)
}

func TestServer_MethodNotFound(t *testing.T) {
	t.Parallel()
	responses := serve(t, `{"jsonrpc":"2.0","id":6,"method":"resources/list"}`)

	require.Len(t, responses, 1)
	require.NotNil(t, responses[0].Error)
	assert.Equal(t, CodeMethodNotFound, responses[0].Error.Code)
}

func TestServer_ParseError(t *testing.T) {
	t.Parallel()
	responses := serve(t,
		`this is not json`,
		`{"jsonrpc":"2.0","id":7,"method":"ping"}`,
	)

	// The malformed line yields a parse error but the session continues.
	require.Len(t, responses, 2)
	require.NotNil(t, responses[0].Error)
	assert.Equal(t, CodeParseError, responses[0].Error.Code)
	assert.Nil(t, responses[1].Error)
}

func TestServer_StringIDEchoedBack(t *testing.T) {
	t.Parallel()
	responses := serve(t, `{"jsonrpc":"2.0","id":"req-a","method":"ping"}`)

	require.Len(t, responses, 1)
	assert.Equal(t, `"req-a"`, string(responses[0].ID))
}

func TestRequest_IsNotification(t *testing.T) {
	t.Parallel()
	var withID Request
	require.NoError(t, json.Unmarshal([]byte(`{"jsonrpc":"2.0","id":1,"method":"m"}`), &withID))
	assert.False(t, withID.IsNotification())

	var withoutID Request
	require.NoError(t, json.Unmarshal([]byte(`{"jsonrpc":"2.0","method":"m"}`), &withoutID))
	assert.True(t, withoutID.IsNotification())
}
