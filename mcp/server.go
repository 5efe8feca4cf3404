package mcp

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"

	"github.com/jakvbs/gemini-mcp/internal/ndjson"
)

// MCP JSON-RPC methods this server handles.
const (
	MethodInitialize  = "initialize"
	MethodInitialized = "notifications/initialized"
	MethodPing        = "ping"
	MethodToolsList   = "tools/list"
	MethodToolsCall   = "tools/call"
)

// Server serves MCP over a line-oriented JSON-RPC transport, normally the
// process's stdin/stdout.
type Server struct {
	log          *slog.Logger
	registry     *ToolRegistry
	info         ServerInfo
	instructions string
}

// NewServer creates a Server exposing the registry's tools.
func NewServer(info ServerInfo, instructions string, registry *ToolRegistry, log *slog.Logger) *Server {
	if log == nil {
		log = slog.Default()
	}
	if registry == nil {
		registry = NewToolRegistry()
	}
	return &Server{
		info:         info,
		instructions: instructions,
		registry:     registry,
		log:          log,
	}
}

// Serve reads JSON-RPC messages from in and writes responses to out until
// in is exhausted or ctx is cancelled. Notifications never produce output;
// malformed lines produce parse errors but do not end the session.
func (s *Server) Serve(ctx context.Context, in io.Reader, out io.Writer) error {
	reader := ndjson.NewReader(in)
	writer := ndjson.NewWriter(out)

	for {
		if err := ctx.Err(); err != nil {
			return err
		}

		line, err := reader.ReadLine()
		if err != nil {
			if errors.Is(err, io.EOF) {
				return nil
			}
			return err
		}
		if len(line) == 0 {
			continue
		}

		var req Request
		if err := json.Unmarshal(line, &req); err != nil {
			s.log.Warn("failed to parse request", "error", err)
			if writeErr := writer.WriteJSON(newErrorResponse(nil, CodeParseError, "parse error")); writeErr != nil {
				return writeErr
			}
			continue
		}

		resp := s.dispatch(ctx, &req)
		if resp == nil {
			continue
		}
		if err := writer.WriteJSON(resp); err != nil {
			return err
		}
	}
}

// dispatch routes one request to its handler. It returns nil for
// notifications, which receive no response.
func (s *Server) dispatch(ctx context.Context, req *Request) *Response {
	s.log.Debug("request", "method", req.Method)

	switch req.Method {
	case MethodInitialize:
		return newResponse(req.ID, &InitializeResult{
			ProtocolVersion: ProtocolVersion,
			Capabilities: ServerCapabilities{
				Tools: &ToolsCapability{},
			},
			ServerInfo:   s.info,
			Instructions: s.instructions,
		})

	case MethodInitialized:
		return nil

	case MethodPing:
		return newResponse(req.ID, struct{}{})

	case MethodToolsList:
		return newResponse(req.ID, &ToolsListResult{Tools: s.registry.Tools()})

	case MethodToolsCall:
		return s.handleToolsCall(ctx, req)

	default:
		if req.IsNotification() {
			return nil
		}
		return newErrorResponse(req.ID, CodeMethodNotFound, "method not found: "+req.Method)
	}
}

// handleToolsCall invokes a registered tool. Handler failures surface as
// JSON-RPC errors, matching callers that treat isError-free results as
// authoritative.
func (s *Server) handleToolsCall(ctx context.Context, req *Request) *Response {
	var params ToolsCallParams
	if err := json.Unmarshal(req.Params, &params); err != nil {
		return newErrorResponse(req.ID, CodeInvalidParams, "invalid tools/call params: "+err.Error())
	}

	result, err := s.registry.Call(ctx, params.Name, params.Arguments)
	if err != nil {
		var rpcErr *RPCError
		if errors.As(err, &rpcErr) {
			return newErrorResponse(req.ID, rpcErr.Code, rpcErr.Message)
		}
		return newErrorResponse(req.ID, CodeInternalError, err.Error())
	}

	return newResponse(req.ID, result)
}
