package agent

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sort"

	"github.com/invopop/jsonschema"

	"github.com/timmy/reelquote/internal/logger"
)

// ErrInvalidArguments marks tool failures caused by the caller's arguments.
var ErrInvalidArguments = errors.New("invalid arguments")

type toolHandler func(ctx context.Context, raw json.RawMessage) (interface{}, error)

type tool struct {
	info    ToolInfo
	handler toolHandler
}

// Server dispatches JSON-RPC requests to registered tools.
type Server struct {
	name    string
	version string
	tools   map[string]tool
}

// NewServer creates an empty tool server.
func NewServer(name, version string) *Server {
	return &Server{
		name:    name,
		version: version,
		tools:   make(map[string]tool),
	}
}

var reflector = &jsonschema.Reflector{
	AllowAdditionalProperties: false,
	DoNotReference:            true,
}

// Register adds a tool whose input schema is reflected from T.
// Arguments are decoded into T before fn is called; unknown fields are rejected.
func Register[T any](s *Server, name, description string, fn func(ctx context.Context, args T) (interface{}, error)) {
	var zero T
	schema := reflector.Reflect(zero)
	schema.Version = ""

	s.tools[name] = tool{
		info: ToolInfo{Name: name, Description: description, InputSchema: schema},
		handler: func(ctx context.Context, raw json.RawMessage) (interface{}, error) {
			var args T
			if len(raw) > 0 && string(raw) != "null" {
				dec := json.NewDecoder(bytes.NewReader(raw))
				dec.DisallowUnknownFields()
				if err := dec.Decode(&args); err != nil {
					return nil, fmt.Errorf("%w: %v", ErrInvalidArguments, err)
				}
			}
			return fn(ctx, args)
		},
	}
}

// Tools lists registered tools sorted by name.
func (s *Server) Tools() []ToolInfo {
	infos := make([]ToolInfo, 0, len(s.tools))
	for _, t := range s.tools {
		infos = append(infos, t.info)
	}
	sort.Slice(infos, func(i, j int) bool { return infos[i].Name < infos[j].Name })
	return infos
}

// Discovery returns the document served on GET.
func (s *Server) Discovery() Discovery {
	return Discovery{
		Name:            s.name,
		Version:         s.version,
		ProtocolVersion: ProtocolVersion,
		Transport:       "http",
		Tools:           s.Tools(),
	}
}

// Handle processes one request. It returns nil for notifications.
func (s *Server) Handle(ctx context.Context, req *Request) *Response {
	if req.JSONRPC != "2.0" || req.Method == "" {
		return errorResponse(req.ID, CodeInvalidRequest, "invalid JSON-RPC request")
	}

	result, rpcErr := s.dispatch(ctx, req)
	if req.IsNotification() {
		return nil
	}
	if rpcErr != nil {
		return &Response{JSONRPC: "2.0", ID: req.ID, Error: rpcErr}
	}
	return &Response{JSONRPC: "2.0", ID: req.ID, Result: result}
}

func (s *Server) dispatch(ctx context.Context, req *Request) (interface{}, *RPCError) {
	switch req.Method {
	case "initialize":
		return initializeResult{
			ProtocolVersion: ProtocolVersion,
			Capabilities:    map[string]interface{}{"tools": map[string]interface{}{}},
			ServerInfo:      implementation{Name: s.name, Version: s.version},
		}, nil
	case "ping":
		return struct{}{}, nil
	case "notifications/initialized":
		return nil, nil
	case "tools/list":
		return map[string]interface{}{"tools": s.Tools()}, nil
	case "tools/call":
		return s.call(ctx, req.Params)
	default:
		return nil, &RPCError{Code: CodeMethodNotFound, Message: "method not found: " + req.Method}
	}
}

func (s *Server) call(ctx context.Context, raw json.RawMessage) (interface{}, *RPCError) {
	var params callParams
	if err := json.Unmarshal(raw, &params); err != nil || params.Name == "" {
		return nil, &RPCError{Code: CodeInvalidParams, Message: "tools/call needs a tool name"}
	}

	t, ok := s.tools[params.Name]
	if !ok {
		return nil, &RPCError{Code: CodeMethodNotFound, Message: "unknown tool: " + params.Name}
	}

	ctx = logger.SetComponent(ctx, "agent")
	out, err := t.handler(ctx, params.Arguments)
	if errors.Is(err, ErrInvalidArguments) {
		return nil, &RPCError{Code: CodeInvalidParams, Message: err.Error()}
	}
	if err != nil {
		logger.CtxWarn(ctx, "Tool %s failed: %v", params.Name, err)
		return textResult(err.Error(), true), nil
	}

	text, err := json.Marshal(out)
	if err != nil {
		logger.CtxError(ctx, "Failed to encode result of tool %s: %v", params.Name, err)
		return nil, &RPCError{Code: CodeInternalError, Message: "failed to encode tool result"}
	}
	return textResult(string(text), false), nil
}

func textResult(text string, isError bool) ToolResult {
	return ToolResult{Content: []Content{{Type: "text", Text: text}}, IsError: isError}
}

func errorResponse(id json.RawMessage, code int, msg string) *Response {
	if len(id) == 0 {
		id = json.RawMessage("null")
	}
	return &Response{JSONRPC: "2.0", ID: id, Error: &RPCError{Code: code, Message: msg}}
}

// ParseError builds the response for a body that is not valid JSON.
func ParseError() *Response {
	return errorResponse(nil, CodeParseError, "parse error")
}
