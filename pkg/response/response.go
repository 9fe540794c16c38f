package response

import (
	"log"
	"net/http"

	"anoa.com/playstats/pkg/apperror"
	"github.com/gin-gonic/gin"
)

// ResponseError standardized error response
func ResponseError(c *gin.Context, err error) {
	code := apperror.MapErrorToStatus(err)

	// Log server side failures
	if code >= http.StatusInternalServerError {
		log.Printf("[%d Error]: %v", code, err)
	}

	c.JSON(code, gin.H{"error": err.Error()})
}
