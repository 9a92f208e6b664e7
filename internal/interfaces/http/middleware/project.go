package middleware

import (
	"net/http"
	"strings"

	"github.com/cashdesk/backend/internal/infrastructure/logger"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// Project scoping keys
const (
	ProjectIDKey     = "project_id"
	ProjectHeaderKey = "X-Project-ID"
)

// ProjectMiddlewareConfig holds configuration for project scoping
type ProjectMiddlewareConfig struct {
	// SkipPaths are paths that don't require a project context
	SkipPaths []string
	// Required rejects requests without a project ID
	Required bool
}

// DefaultProjectConfig returns default project middleware configuration
func DefaultProjectConfig() ProjectMiddlewareConfig {
	return ProjectMiddlewareConfig{
		SkipPaths: []string{"/health", "/healthz", "/ready", "/api/v1/health"},
		Required:  true,
	}
}

// ProjectMiddleware extracts the project scope from the X-Project-ID header.
// Every ledger and report route runs inside exactly one project.
func ProjectMiddleware() gin.HandlerFunc {
	return ProjectMiddlewareWithConfig(DefaultProjectConfig())
}

// ProjectMiddlewareWithConfig returns project middleware with custom configuration
func ProjectMiddlewareWithConfig(cfg ProjectMiddlewareConfig) gin.HandlerFunc {
	return func(c *gin.Context) {
		path := c.Request.URL.Path
		for _, skipPath := range cfg.SkipPaths {
			if path == skipPath || strings.HasPrefix(path, skipPath+"/") {
				c.Next()
				return
			}
		}

		header := c.GetHeader(ProjectHeaderKey)
		if header == "" {
			if cfg.Required {
				respondProjectError(c, "Project identification required")
				return
			}
			c.Next()
			return
		}

		projectID, err := uuid.Parse(header)
		if err != nil {
			respondProjectError(c, "Invalid project ID format")
			return
		}

		c.Set(ProjectIDKey, projectID)

		// Propagate into the request context so service-layer logs carry it.
		ctx := c.Request.Context()
		log := logger.FromContext(ctx)
		ctx, _ = logger.WithProjectID(ctx, log, projectID.String())
		c.Request = c.Request.WithContext(ctx)

		c.Next()
	}
}

func respondProjectError(c *gin.Context, message string) {
	c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{
		"success": false,
		"error": gin.H{
			"code":    "PROJECT_REQUIRED",
			"message": message,
		},
	})
}

// GetProjectID retrieves the project ID from gin.Context
func GetProjectID(c *gin.Context) (uuid.UUID, bool) {
	if value, exists := c.Get(ProjectIDKey); exists {
		if id, ok := value.(uuid.UUID); ok {
			return id, true
		}
	}
	return uuid.Nil, false
}
