package httputil

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// RespondWithSuccess sends a success response
func RespondWithSuccess(c *gin.Context, status int, data interface{}) {
	c.JSON(status, Response[interface{}]{Data: data})
}

// RespondWithError sends an error response
func RespondWithError(c *gin.Context, status int, message string) {
	c.AbortWithStatusJSON(status, ErrorBody{
		StatusCode: status,
		Message:    message,
		Error:      http.StatusText(status),
	})
}

// RespondWithPage sends a paginated response
func RespondWithPage[T any](c *gin.Context, items []T, page, pageSize, total int) {
	if items == nil {
		items = []T{}
	}

	c.JSON(http.StatusOK, Response[PageData[T]]{
		Data: PageData[T]{
			Data: items,
			Meta: &Meta{
				Page:     page,
				PageSize: pageSize,
				Pages:    TotalPages(total, pageSize),
				Total:    total,
			},
		},
	})
}

// TotalPages is the ceiling of total/pageSize
func TotalPages(total, pageSize int) int {
	if pageSize <= 0 || total <= 0 {
		return 0
	}
	return (total + pageSize - 1) / pageSize
}
