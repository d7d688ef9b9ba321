package api

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"foodgram/internal/logger"
	"foodgram/internal/platform/imagestore"
	"foodgram/internal/recipe"
	"foodgram/internal/user"
)

// dbTimeout bounds every store call made while serving a request.
const dbTimeout = 5 * time.Second

// Settings are the process-wide values handlers read but never change.
type Settings struct {
	PageSize    int
	MaxPageSize int
	BrandName   string
	JWTSecret   string
	TokenTTL    time.Duration
}

// Handler handles HTTP requests.
type Handler struct {
	RecipeStore recipe.Store
	UserStore   user.Store
	ImageStore  imagestore.Store
	Settings    Settings

	now func() time.Time
}

// NewHandler creates a new Handler.
func NewHandler(recipeStore recipe.Store, userStore user.Store, imageStore imagestore.Store, settings Settings) *Handler {
	if settings.TokenTTL == 0 {
		settings.TokenTTL = 24 * time.Hour
	}
	if settings.MaxPageSize < settings.PageSize {
		settings.MaxPageSize = settings.PageSize
	}
	return &Handler{
		RecipeStore: recipeStore,
		UserStore:   userStore,
		ImageStore:  imageStore,
		Settings:    settings,
		now:         time.Now,
	}
}

func dbContext(c *gin.Context) (context.Context, context.CancelFunc) {
	return context.WithTimeout(c.Request.Context(), dbTimeout)
}

// storeError reports an unexpected store failure.
func storeError(c *gin.Context, err error) {
	if errors.Is(err, context.DeadlineExceeded) {
		c.String(http.StatusRequestTimeout, "Database query timed out")
		return
	}
	logger.Error("store failure", zap.String("path", c.FullPath()), zap.Error(err))
	c.String(http.StatusInternalServerError, fmt.Sprintf("database error: %s", err.Error()))
}

func badRequest(c *gin.Context, msg string) {
	c.JSON(http.StatusBadRequest, gin.H{"errors": msg})
}

func notFound(c *gin.Context) {
	c.JSON(http.StatusNotFound, gin.H{"detail": "Not found."})
}

// idParam parses the :id path segment. Malformed IDs cannot match any row.
func idParam(c *gin.Context) (int64, bool) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		notFound(c)
		return 0, false
	}
	return id, true
}
