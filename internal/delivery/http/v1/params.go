package v1

import (
	"strconv"

	"campus-placement-backend/internal/domain"
	"campus-placement-backend/pkg/apperror"

	"github.com/gin-gonic/gin"
)

// parseID reads a positive integer path parameter.
func parseID(c *gin.Context, name string) (int64, error) {
	id, err := strconv.ParseInt(c.Param(name), 10, 64)
	if err != nil || id <= 0 {
		return 0, apperror.BadRequest("Invalid ID format")
	}
	return id, nil
}

func callerID(c *gin.Context) string {
	return c.GetString(string(domain.KeyUserID))
}

func callerRole(c *gin.Context) string {
	return c.GetString(string(domain.KeyUserRole))
}
