// utils/response.go
package utils

import (
	"log"

	"github.com/gin-gonic/gin"
)

// RespondWithError logs the failure and writes a JSON error payload.
// The payload only ever carries the message, never record contents.
func RespondWithError(c *gin.Context, code int, message string) {
	log.Printf("[ERR] %s %s | Status: %d | %s",
		c.Request.Method, c.Request.URL.Path, code, message)
	c.AbortWithStatusJSON(code, gin.H{"error": message})
}
