// Package controller holds the HTTP helpers shared by the user and admin controllers.
package controller

import (
	"context"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/lshigami/cbt-saw/internal/dto"
	"github.com/lshigami/cbt-saw/internal/service"
	"github.com/rs/zerolog/log"
	"gorm.io/gorm"
)

// Identity headers set by the gateway in front of this service.
const (
	HeaderUserUID   = "X-User-UID"
	HeaderUserRole  = "X-User-Role"
	HeaderRequestID = "X-Request-ID"

	RequestIDKey = "request_id"
	retryAfter   = "5"
)

// StatusFor maps a service error kind to its HTTP status.
func StatusFor(err error) int {
	switch service.KindOf(err) {
	case service.KindNotFound:
		return http.StatusNotFound
	case service.KindAlreadyFinalized:
		return http.StatusConflict
	case service.KindInvalidState:
		return http.StatusUnprocessableEntity
	case service.KindThresholdTableMissing:
		return http.StatusInternalServerError
	case service.KindDependencyUnavailable:
		return http.StatusServiceUnavailable
	case service.KindForbidden:
		return http.StatusForbidden
	case service.KindInvalidInput:
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}

// RespondError writes err as a dto.ErrorResponse with the matching status.
func RespondError(c *gin.Context, err error) {
	status := StatusFor(err)
	resp := dto.ErrorResponse{Message: err.Error()}

	var se *service.Error
	if errors.As(err, &se) {
		if se.Message != "" {
			resp.Message = se.Message
		}
		resp.Kind = string(se.Kind)
		resp.Retryable = se.Retryable()
		if se.Err != nil && status < http.StatusInternalServerError {
			resp.Details = []string{se.Err.Error()}
		}
	} else {
		resp.Message = "Internal server error"
	}
	if status == http.StatusServiceUnavailable {
		c.Header("Retry-After", retryAfter)
	}

	ev := log.Warn()
	if status >= http.StatusInternalServerError {
		ev = log.Error()
	}
	ev.Err(err).
		Str("requestID", c.GetString(RequestIDKey)).
		Str("path", c.FullPath()).
		Int("status", status).
		Msg("Request failed")

	c.AbortWithStatusJSON(status, resp)
}

// BadRequest rejects malformed input before it reaches a service.
func BadRequest(c *gin.Context, message string, err error) {
	resp := dto.ErrorResponse{Message: message, Kind: string(service.KindInvalidInput)}
	if err != nil {
		resp.Details = []string{err.Error()}
	}
	log.Warn().Err(err).Str("path", c.FullPath()).Msg(message)
	c.AbortWithStatusJSON(http.StatusBadRequest, resp)
}

// UintParam parses a positive path parameter.
func UintParam(c *gin.Context, name string) (uint, bool) {
	v, err := strconv.ParseUint(c.Param(name), 10, 32)
	if err != nil || v == 0 {
		BadRequest(c, "Invalid "+name+" format", err)
		return 0, false
	}
	return uint(v), true
}

// RequesterUID returns the caller's UID or aborts with 400 when the gateway sent none.
func RequesterUID(c *gin.Context) (string, bool) {
	uid := c.GetHeader(HeaderUserUID)
	if uid == "" {
		BadRequest(c, "Missing "+HeaderUserUID+" header", nil)
		return "", false
	}
	return uid, true
}

// RequesterRole defaults to the participant role.
func RequesterRole(c *gin.Context) string {
	if role := c.GetHeader(HeaderUserRole); role != "" {
		return role
	}
	return service.RoleSiswa
}

// RequireRole rejects callers whose X-User-Role is not one of roles.
func RequireRole(roles ...string) gin.HandlerFunc {
	return func(c *gin.Context) {
		role := RequesterRole(c)
		for _, r := range roles {
			if role == r {
				c.Next()
				return
			}
		}
		RespondError(c, &service.Error{Kind: service.KindForbidden, Message: "role " + role + " may not access this resource"})
	}
}

// RequestID tags every request with an ID, reusing the caller's when present.
func RequestID() gin.HandlerFunc {
	return func(c *gin.Context) {
		id := c.GetHeader(HeaderRequestID)
		if id == "" {
			id = uuid.NewString()
		}
		c.Set(RequestIDKey, id)
		c.Header(HeaderRequestID, id)
		c.Next()
	}
}

// Timeout bounds the request context handed to services.
func Timeout(d time.Duration) gin.HandlerFunc {
	return func(c *gin.Context) {
		if d <= 0 {
			c.Next()
			return
		}
		ctx, cancel := context.WithTimeout(c.Request.Context(), d)
		defer cancel()
		c.Request = c.Request.WithContext(ctx)
		c.Next()
	}
}

type HealthController struct {
	db *gorm.DB
}

func NewHealthController(db *gorm.DB) *HealthController {
	return &HealthController{db: db}
}

// Health godoc
// @Summary Liveness and database reachability
// @Tags Platform
// @Produce json
// @Success 200 {object} dto.HealthResponse
// @Failure 503 {object} dto.HealthResponse
// @Router /health [get]
func (h *HealthController) Health(c *gin.Context) {
	resp := dto.HealthResponse{Status: "ok", Database: "up"}
	sqlDB, err := h.db.DB()
	if err == nil {
		err = sqlDB.PingContext(c.Request.Context())
	}
	if err != nil {
		log.Error().Err(err).Msg("Health: database ping failed")
		resp.Status = "degraded"
		resp.Database = "down"
		c.JSON(http.StatusServiceUnavailable, resp)
		return
	}
	c.JSON(http.StatusOK, resp)
}
