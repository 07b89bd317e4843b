package handlers

import (
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/garoto002/siku-backend/middleware"
	"github.com/gin-gonic/gin"
)

// StreamAlerts serves a live SSE feed of the caller's freshly created
// alerts. EventSource cannot set headers, so the token arrives as a query
// parameter.
func (h *Handler) StreamAlerts(c *gin.Context) {
	tokenString := c.DefaultQuery("token", "")
	if tokenString == "" {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Missing or invalid token"})
		return
	}
	claims, err := middleware.ParseToken(tokenString, h.JWTSecret)
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized: " + err.Error()})
		return
	}

	c.Writer.Header().Set("Content-Type", "text/event-stream")
	c.Writer.Header().Set("Cache-Control", "no-cache")
	c.Writer.Header().Set("Connection", "keep-alive")

	stream, cancel := h.Broker.Subscribe(claims.Subject)
	defer cancel()

	flusher, ok := c.Writer.(http.Flusher)
	if !ok {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Streaming not supported"})
		return
	}
	flusher.Flush()

	for {
		select {
		case alert, open := <-stream:
			if !open {
				return
			}
			payload, err := json.Marshal(alert)
			if err != nil {
				continue
			}
			fmt.Fprintf(c.Writer, "data: %s\n\n", payload)
			flusher.Flush()
		case <-c.Request.Context().Done():
			return
		}
	}
}
