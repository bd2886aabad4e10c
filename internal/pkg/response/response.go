// Package response writes the JSON envelope shared by every handler:
// {success, data} on the happy path, {success, error:{code, message}} on
// failures, so clients can branch on the machine-readable code.
package response

import "github.com/gin-gonic/gin"

func Success(c *gin.Context, statusCode int, data any) {
	c.JSON(statusCode, gin.H{
		"success": true,
		"data":    data,
	})
}

func Error(c *gin.Context, statusCode int, code string, message string) {
	c.JSON(statusCode, gin.H{
		"success": false,
		"error": gin.H{
			"code":    code,
			"message": message,
		},
	})
}

// ErrorWithDetails adds a details payload, typically the field map produced
// by the validator package.
func ErrorWithDetails(c *gin.Context, statusCode int, code string, message string, details any) {
	c.JSON(statusCode, gin.H{
		"success": false,
		"error": gin.H{
			"code":    code,
			"message": message,
			"details": details,
		},
	})
}
