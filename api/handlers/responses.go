package handlers

import "github.com/gin-gonic/gin"

// respondError writes the JSON error envelope used by every non-streaming
// endpoint: {"success": false, "error": "..."}.
func respondError(c *gin.Context, status int, message string) {
	c.JSON(status, gin.H{
		"success": false,
		"error":   message,
	})
}
