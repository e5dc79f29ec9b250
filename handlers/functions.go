package handlers

import (
	"net/http"

	"frontdesk/services/assistant"

	"github.com/gin-gonic/gin"
	genai "github.com/google/generative-ai-go/genai"
)

// FunctionCallRequest is a function call as emitted by the language model.
type FunctionCallRequest struct {
	Name string         `json:"name" binding:"required"`
	Args map[string]any `json:"args"`
}

type FunctionsHandler struct {
	Dispatcher *assistant.Dispatcher
}

func NewFunctionsHandler(d *assistant.Dispatcher) *FunctionsHandler {
	return &FunctionsHandler{Dispatcher: d}
}

// ListFunctionsHandler returns the declarations the voice agent registers with the model.
func (h *FunctionsHandler) ListFunctionsHandler(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"functions": assistant.FunctionDeclarations()})
}

// CallFunctionHandler always answers 200 once the body parses; the outcome lives in
// response.status so the agent can read it back to the caller.
func (h *FunctionsHandler) CallFunctionHandler(c *gin.Context) {
	var req FunctionCallRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		invalidPayload(c, err)
		return
	}
	if req.Args == nil {
		req.Args = map[string]any{}
	}

	resp := h.Dispatcher.Dispatch(c.Request.Context(), genai.FunctionCall{Name: req.Name, Args: req.Args})
	c.JSON(http.StatusOK, gin.H{"name": resp.Name, "response": resp.Response})
}
