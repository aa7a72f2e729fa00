package response

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// OK sends data as the JSON body with status 200
func OK(c *gin.Context, data any) {
	c.JSON(http.StatusOK, data)
}

// Status sends data with an explicit status code
func Status(c *gin.Context, statusCode int, data any) {
	c.JSON(statusCode, data)
}
