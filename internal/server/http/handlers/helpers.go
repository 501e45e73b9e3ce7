package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	domainErrors "github.com/bricklane/storefront/internal/domain/errors"
	"github.com/bricklane/storefront/internal/domain/model"
	"github.com/bricklane/storefront/internal/domain/repository"
	"github.com/bricklane/storefront/internal/server/http/dto"
	"github.com/bricklane/storefront/internal/server/http/middleware"
)

// CurrentUserID extracts the authenticated user identifier from context.
func CurrentUserID(c *gin.Context) int64 {
	val, ok := c.Get(middleware.UserIDContextKey)
	if !ok {
		return 0
	}
	id, _ := val.(int64)
	return id
}

// IsAdmin reports whether the authenticated user carries the admin role.
func IsAdmin(c *gin.Context) bool {
	val, ok := c.Get(middleware.UserRoleContextKey)
	if !ok {
		return false
	}
	role, _ := val.(int)
	return role == model.RoleAdmin
}

func respondData(c *gin.Context, status int, data interface{}) {
	c.JSON(status, dto.Response{Success: true, Data: data})
}

func respondMessage(c *gin.Context, status int, message string, data interface{}) {
	c.JSON(status, dto.Response{Success: true, Message: message, Data: data})
}

// respondError maps domain errors to HTTP statuses at the single boundary.
func respondError(c *gin.Context, err error) {
	var (
		stockErr      *domainErrors.InsufficientStockError
		mismatchErr   *domainErrors.TotalMismatchError
		transitionErr *domainErrors.InvalidTransitionError
	)
	switch {
	case errors.As(err, &stockErr),
		errors.As(err, &mismatchErr),
		errors.As(err, &transitionErr),
		errors.Is(err, domainErrors.ErrValidation),
		errors.Is(err, domainErrors.ErrPaymentRejected):
		c.JSON(http.StatusBadRequest, dto.Response{Success: false, Message: err.Error()})
	case errors.Is(err, domainErrors.ErrNotFound):
		c.JSON(http.StatusNotFound, dto.Response{Success: false, Message: err.Error()})
	case errors.Is(err, domainErrors.ErrForbidden):
		c.JSON(http.StatusForbidden, dto.Response{Success: false, Message: "access denied"})
	case errors.Is(err, domainErrors.ErrInvalidCredentials):
		c.JSON(http.StatusUnauthorized, dto.Response{Success: false, Message: "invalid credentials"})
	case errors.Is(err, domainErrors.ErrAlreadyExists):
		c.JSON(http.StatusConflict, dto.Response{Success: false, Message: err.Error()})
	default:
		c.JSON(http.StatusInternalServerError, dto.Response{Success: false, Message: "internal error"})
	}
}

func respondBadRequest(c *gin.Context, message string) {
	c.JSON(http.StatusBadRequest, dto.Response{Success: false, Message: message})
}

// pageFromQuery reads ?page and ?limit with the service defaults.
func pageFromQuery(c *gin.Context) repository.Page {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "10"))
	return repository.Page{Number: page, Size: limit}
}
