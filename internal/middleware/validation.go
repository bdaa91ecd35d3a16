package middleware

import (
	"errors"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/yigit/mentorhub/internal/app/models/dto"
)

const validatedBodyKey = "validatedBody"

// ValidateRequest binds the JSON body into a fresh T using the gin binding
// tags and stores it for the handler. An invalid body is answered with 400.
func ValidateRequest[T any]() gin.HandlerFunc {
	return func(c *gin.Context) {
		body := new(T)
		if err := c.ShouldBindJSON(body); err != nil {
			var errorDetail *dto.ErrorDetail
			if errors.Is(err, io.EOF) {
				errorDetail = dto.NewErrorDetail(dto.ErrorCodeInvalidRequest, "Request body is required")
			} else {
				errorDetail = dto.HandleValidationError(err)
			}
			c.AbortWithStatusJSON(http.StatusBadRequest, dto.NewErrorResponse(errorDetail))
			return
		}

		c.Set(validatedBodyKey, body)
		c.Next()
	}
}

// ValidatedBody returns the body stored by ValidateRequest
func ValidatedBody[T any](c *gin.Context) (*T, bool) {
	v, ok := c.Get(validatedBodyKey)
	if !ok {
		return nil, false
	}
	body, ok := v.(*T)
	return body, ok
}
