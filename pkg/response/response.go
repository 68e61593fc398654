package response

import (
	"log"
	"net/http"

	"github.com/btlam02/gis-app/pkg/apperror"
	"github.com/btlam02/gis-app/pkg/validator"
	"github.com/gin-gonic/gin"
)

// Error writes the standardized error body {"error_message": ...} with the
// status derived from the error.
func Error(c *gin.Context, err error) {
	code := apperror.MapErrorToStatus(err)

	// Log internal errors
	if code == http.StatusInternalServerError {
		log.Printf("[Internal Error]: %v", err)
	}

	c.JSON(code, gin.H{"error_message": err.Error()})
}

// ValidationError writes field-level validation detail as {"errors": ...}.
func ValidationError(c *gin.Context, err error) {
	c.JSON(http.StatusBadRequest, gin.H{"errors": validator.FormatValidationError(err)})
}
