package utils

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// RespondSuccess writes the uniform success envelope. meta is optional and
// carried through as-is when present.
func RespondSuccess(c *gin.Context, data interface{}, meta interface{}) {
	body := gin.H{"code": 200, "data": data}
	if meta != nil {
		body["meta"] = meta
	}
	c.JSON(http.StatusOK, body)
}

// RespondError writes an error envelope with the given HTTP status.
func RespondError(c *gin.Context, status int, message string) {
	c.JSON(status, gin.H{"error": message})
}
