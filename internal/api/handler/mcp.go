package handler

import (
	"encoding/json"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/timmy/reelquote/internal/agent"
)

// MCPHandler exposes the agent tool server over HTTP.
type MCPHandler struct {
	server *agent.Server
}

// NewMCPHandler creates a new agent endpoint handler.
func NewMCPHandler(server *agent.Server) *MCPHandler {
	return &MCPHandler{server: server}
}

// Discover handles GET /mcp.
func (h *MCPHandler) Discover(c *gin.Context) {
	c.JSON(http.StatusOK, h.server.Discovery())
}

// Handle handles POST /mcp with a single JSON-RPC request or a batch.
func (h *MCPHandler) Handle(c *gin.Context) {
	body, err := c.GetRawData()
	if err != nil {
		c.JSON(http.StatusBadRequest, agent.ParseError())
		return
	}

	ctx := c.Request.Context()
	if trimmed := firstNonSpace(body); trimmed == '[' {
		var batch []agent.Request
		if err := json.Unmarshal(body, &batch); err != nil {
			c.JSON(http.StatusOK, agent.ParseError())
			return
		}
		responses := make([]*agent.Response, 0, len(batch))
		for i := range batch {
			if resp := h.server.Handle(ctx, &batch[i]); resp != nil {
				responses = append(responses, resp)
			}
		}
		if len(responses) == 0 {
			c.Status(http.StatusAccepted)
			return
		}
		c.JSON(http.StatusOK, responses)
		return
	}

	var req agent.Request
	if err := json.Unmarshal(body, &req); err != nil {
		c.JSON(http.StatusOK, agent.ParseError())
		return
	}
	resp := h.server.Handle(ctx, &req)
	if resp == nil {
		c.Status(http.StatusAccepted)
		return
	}
	c.JSON(http.StatusOK, resp)
}

func firstNonSpace(b []byte) byte {
	for _, c := range b {
		switch c {
		case ' ', '\t', '\r', '\n':
			continue
		}
		return c
	}
	return 0
}
