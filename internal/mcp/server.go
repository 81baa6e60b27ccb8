package mcp

import (
	"bufio"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"

	"labelops-mcp/internal/config"
	"labelops-mcp/internal/snapshot"
	"labelops-mcp/internal/workforce"

	"github.com/rs/zerolog/log"
)

// JSONRPCRequest represents a standard MCP/JSON-RPC request.
type JSONRPCRequest struct {
	JSONRPC string          `json:"jsonrpc"`
	ID      interface{}     `json:"id,omitempty"`
	Method  string          `json:"method"`
	Params  json.RawMessage `json:"params,omitempty"`
}

// JSONRPCResponse represents a standard MCP/JSON-RPC response.
type JSONRPCResponse struct {
	JSONRPC string      `json:"jsonrpc"`
	ID      interface{} `json:"id"`
	Result  interface{} `json:"result,omitempty"`
	Error   interface{} `json:"error,omitempty"`
}

// Server holds the state for the MCP server.
type Server struct {
	cfg      *config.AppConfig
	client   workforce.Client
	provider *snapshot.Provider
}

// NewServer creates a new MCP server.
func NewServer(cfg *config.AppConfig, client workforce.Client) *Server {
	store := snapshot.NewRecordStore()
	return &Server{
		cfg:      cfg,
		client:   client,
		provider: snapshot.NewProvider(client, store, cfg.CacheDir),
	}
}

// Start runs the JSON-RPC loop over Stdio until stdin closes.
func (s *Server) Start() error {
	ctx := context.Background()
	reader := bufio.NewReader(os.Stdin)
	for {
		line, err := reader.ReadBytes('\n')
		if err != nil {
			if err == io.EOF {
				return nil
			}
			return err
		}

		var req JSONRPCRequest
		if err := json.Unmarshal(line, &req); err != nil {
			log.Error().Err(err).Msg("Failed to unmarshal request")
			continue
		}

		s.handleRequest(ctx, req)
	}
}

func (s *Server) handleRequest(ctx context.Context, req JSONRPCRequest) {
	var result interface{}
	var errRes interface{}

	switch req.Method {
	case "initialize":
		result = map[string]interface{}{
			"protocolVersion": "2024-11-05",
			"capabilities":    map[string]interface{}{},
			"serverInfo": map[string]interface{}{
				"name":    "labelops-mcp",
				"version": "0.1.0",
			},
		}
	case "tools/list":
		result = s.listTools()
	case "tools/call":
		result, errRes = s.callTool(ctx, req.Params)
	default:
		errRes = map[string]interface{}{
			"code":    -32601,
			"message": fmt.Sprintf("Method %s not found", req.Method),
		}
	}

	resp := JSONRPCResponse{
		JSONRPC: "2.0",
		ID:      req.ID,
		Result:  result,
		Error:   errRes,
	}

	out, _ := json.Marshal(resp)
	fmt.Fprintf(os.Stdout, "%s\n", out)
}

func (s *Server) callTool(ctx context.Context, params json.RawMessage) (interface{}, interface{}) {
	var call struct {
		Name      string                 `json:"name"`
		Arguments map[string]interface{} `json:"arguments"`
	}
	if err := json.Unmarshal(params, &call); err != nil {
		return nil, map[string]interface{}{"code": -32602, "message": "Invalid params"}
	}

	log.Debug().Str("tool", call.Name).Msg("Tool call")

	var data interface{}
	var err error

	switch call.Name {
	case "list_hierarchy":
		data, err = s.handleListHierarchy(ctx)
	case "get_project_dashboard":
		data, err = s.handleGetProjectDashboard(ctx, call.Arguments)
	case "get_trainer_report":
		data, err = s.handleGetTrainerReport(ctx, call.Arguments)
	case "get_reviewer_rollup":
		data, err = s.handleGetReviewerRollup(ctx, call.Arguments)
	case "get_task_trend":
		data, err = s.handleGetTaskTrend(ctx, call.Arguments)
	case "check_timeframe":
		data, err = s.handleCheckTimeframe(call.Arguments)
	default:
		return nil, map[string]interface{}{"code": -32601, "message": "Tool not found"}
	}

	if err != nil {
		return nil, map[string]interface{}{"code": -32000, "message": err.Error()}
	}

	return map[string]interface{}{
		"content": []interface{}{
			map[string]interface{}{
				"type": "text",
				"text": s.formatResult(data),
			},
		},
	}, nil
}
