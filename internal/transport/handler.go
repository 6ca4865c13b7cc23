package transport

import (
	"context"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/anime-shed/thumbnail-inspector-go/internal/config"
	apperrors "github.com/anime-shed/thumbnail-inspector-go/internal/errors"
	"github.com/anime-shed/thumbnail-inspector-go/internal/logger"
	"github.com/anime-shed/thumbnail-inspector-go/internal/observer"
	"github.com/anime-shed/thumbnail-inspector-go/internal/service"
	"github.com/anime-shed/thumbnail-inspector-go/pkg/models"
)

// Version is reported by the health endpoint
const Version = "1.0.0"

type handler struct {
	svc     service.ThumbnailService
	metrics *observer.MetricsObserver
	timeout time.Duration
}

// NewHandler builds the gin router. metrics may be nil, in which case /stats
// reports zero counters.
func NewHandler(svc service.ThumbnailService, metrics *observer.MetricsObserver, cfg *config.Config) http.Handler {
	if metrics == nil {
		metrics = observer.NewMetricsObserver()
	}
	h := &handler{svc: svc, metrics: metrics, timeout: cfg.RequestTimeout}

	r := gin.New()
	r.Use(
		gin.Recovery(),
		requestLogger(),
		requestSizeLimiter(cfg.MaxRequestBodySize),
		errorHandler(),
	)

	r.GET("/health", healthCheck)
	r.GET("/stats", h.stats)

	r.POST("/analyze", h.analyze)
	r.POST("/compare", h.compareUploads)

	thumbnails := r.Group("/thumbnails")
	thumbnails.GET("", h.listThumbnails)
	thumbnails.POST("", h.addThumbnail)
	thumbnails.POST("/url", h.addThumbnailFromURL)
	thumbnails.POST("/compare", h.compareThumbnails)
	thumbnails.GET("/:id", h.getThumbnail)
	thumbnails.PATCH("/:id", h.updateThumbnail)
	thumbnails.DELETE("/:id", h.deleteThumbnail)
	thumbnails.GET("/:id/score", h.scoreThumbnail)
	thumbnails.GET("/:id/preview", h.previewThumbnail)

	r.GET("/settings", h.getSettings)
	r.PUT("/settings", h.updateSettings)

	return r
}

func healthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, models.HealthResponse{
		Status:  "available",
		Version: Version,
		Time:    time.Now().UTC().Format(time.RFC3339),
	})
}

func (h *handler) stats(c *gin.Context) {
	c.JSON(http.StatusOK, models.StatsResponse{
		MetricsSnapshot: h.metrics.Snapshot(),
		WorkerPool:      h.svc.PoolStats(),
	})
}

func (h *handler) requestContext(c *gin.Context) (context.Context, context.CancelFunc) {
	return context.WithTimeout(c.Request.Context(), h.timeout)
}

func (h *handler) analyze(c *gin.Context) {
	upload, err := readUpload(c, "file")
	if err != nil {
		respondAppError(c, "invalid upload", err)
		return
	}

	options := h.svc.AnalysisOptions()
	includeText, err := boolQuery(c, "include_text", true)
	if err != nil {
		respondAppError(c, "invalid query", err)
		return
	}
	includePerson, err := boolQuery(c, "include_person", true)
	if err != nil {
		respondAppError(c, "invalid query", err)
		return
	}
	if !includeText {
		options = options.WithoutTextAnalysis()
	}
	if !includePerson {
		options = options.WithoutPersonAnalysis()
	}

	ctx, cancel := h.requestContext(c)
	defer cancel()

	resp, err := h.svc.Analyze(ctx, upload, options)
	if err != nil {
		respondAppError(c, "analysis failed", err)
		return
	}

	logger.WithFields(logrus.Fields{
		"file_name":     upload.FileName,
		"overall_score": resp.Score.OverallScore,
		"warnings":      len(resp.Analysis.Warnings),
	}).Info("Thumbnail analysis completed successfully")

	c.JSON(http.StatusOK, resp)
}

func (h *handler) compareUploads(c *gin.Context) {
	a, err := readUpload(c, "file_a")
	if err != nil {
		respondAppError(c, "invalid upload", err)
		return
	}
	b, err := readUpload(c, "file_b")
	if err != nil {
		respondAppError(c, "invalid upload", err)
		return
	}

	ctx, cancel := h.requestContext(c)
	defer cancel()

	resp, err := h.svc.CompareUploads(ctx, a, b)
	if err != nil {
		respondAppError(c, "comparison failed", err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// readUpload reads one multipart file field fully into memory
func readUpload(c *gin.Context, field string) (service.Upload, error) {
	fileHeader, err := c.FormFile(field)
	if err != nil {
		var maxErr *http.MaxBytesError
		if errors.As(err, &maxErr) {
			return service.Upload{}, newTooLargeError(maxErr)
		}
		return service.Upload{}, apperrors.NewValidationError(
			fmt.Sprintf("multipart field %q is required", field), err)
	}
	data, err := readFileHeader(fileHeader)
	if err != nil {
		return service.Upload{}, apperrors.NewValidationError("upload could not be read", err)
	}
	if len(data) == 0 {
		return service.Upload{}, apperrors.NewValidationError(fmt.Sprintf("multipart field %q is empty", field), nil)
	}
	return service.Upload{
		FileName:    fileHeader.Filename,
		ContentType: fileHeader.Header.Get("Content-Type"),
		Data:        data,
	}, nil
}

func readFileHeader(fh *multipart.FileHeader) ([]byte, error) {
	f, err := fh.Open()
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return io.ReadAll(f)
}

func boolQuery(c *gin.Context, key string, def bool) (bool, error) {
	raw := c.Query(key)
	if raw == "" {
		return def, nil
	}
	v, err := strconv.ParseBool(raw)
	if err != nil {
		return false, apperrors.NewValidationError(fmt.Sprintf("query parameter %s must be a boolean", key), err)
	}
	return v, nil
}
