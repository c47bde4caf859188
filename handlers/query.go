package handlers

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/fintechbuddy/insights-api/config"
	"github.com/fintechbuddy/insights-api/services"
	"github.com/fintechbuddy/insights-api/utils"
)

type QueryHandler struct {
	Store  *services.DatasetStore
	AI     *services.GroqService
	Config *config.AIConfig
}

// Query answers a free-text question about the most recent upload.
func (h *QueryHandler) Query(c *gin.Context) {
	question := strings.TrimSpace(c.Query("question"))
	if question == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "question is required"})
		return
	}

	if !h.Config.Configured() {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": services.ErrAINotConfigured.Error()})
		return
	}

	ds, err := h.Store.Current()
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
		return
	}

	answer, err := h.AI.AskQuestion(c.Request.Context(), ds, question)
	if err != nil {
		respondAIError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"question": question,
		"answer":   answer,
	})
}

func respondAIError(c *gin.Context, err error) {
	if errors.Is(err, services.ErrAINotConfigured) {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": err.Error()})
		return
	}

	var upstream *services.UpstreamError
	if errors.As(err, &upstream) {
		utils.SafeError("[Query] Upstream failure (actionable=%v): %v", upstream.Actionable, err)
		c.JSON(http.StatusBadGateway, gin.H{"error": upstream.Msg})
		return
	}

	utils.SafeError("[Query] AI query failed: %v", err)
	c.JSON(http.StatusInternalServerError, gin.H{"error": "AI query failed: " + err.Error()})
}
