package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/fintechbuddy/insights-api/config"
)

type EnvHandler struct {
	Config *config.AIConfig
}

// Show reports the AI configuration without exposing the credential.
func (h *EnvHandler) Show(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"groq_model":       h.Config.Model(),
		"groq_key_present": h.Config.KeyPresent(),
	})
}

// Reload re-reads the credential/model pair from the environment.
func (h *EnvHandler) Reload(c *gin.Context) {
	h.Config.Reload()
	h.Show(c)
}
