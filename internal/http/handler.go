package http

import (
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"oceaneye-service/internal/config"
	"oceaneye-service/internal/service"
)

const serviceVersion = "1.0.0"

type Handler struct {
	analysisService *service.AnalysisService
	config          *config.Config
	log             zerolog.Logger
}

func NewHandler(
	analysisService *service.AnalysisService,
	cfg *config.Config,
	log zerolog.Logger,
) *Handler {
	return &Handler{
		analysisService: analysisService,
		config:          cfg,
		log:             log,
	}
}

func (h *Handler) Register(r *gin.Engine, authMiddleware gin.HandlerFunc) {
	// Public endpoints
	r.POST("/analyze", h.analyzeImage)
	r.GET("/health", h.health)

	// History endpoints
	protected := r.Group("/api/v1")
	protected.Use(authMiddleware)
	{
		protected.GET("/analyses", h.listAnalyses)
		protected.GET("/analyses/:id", h.getAnalysis)
	}
}

func (h *Handler) analyzeImage(c *gin.Context) {
	fileHeader, err := c.FormFile("image")
	if err != nil {
		c.JSON(http.StatusBadRequest, errorResponse("No image file provided"))
		return
	}

	if fileHeader.Filename == "" {
		c.JSON(http.StatusBadRequest, errorResponse("No file selected"))
		return
	}

	if fileHeader.Size > h.config.Upload.MaxSizeBytes {
		c.JSON(http.StatusRequestEntityTooLarge,
			errorResponse(fmt.Sprintf("File exceeds maximum upload size of %d bytes", h.config.Upload.MaxSizeBytes)))
		return
	}

	file, err := fileHeader.Open()
	if err != nil {
		h.log.Error().Err(err).Msg("failed to open uploaded file")
		c.JSON(http.StatusInternalServerError, errorResponse("internal error"))
		return
	}
	defer file.Close()

	data, err := io.ReadAll(io.LimitReader(file, h.config.Upload.MaxSizeBytes))
	if err != nil {
		h.log.Error().Err(err).Msg("failed to read uploaded file")
		c.JSON(http.StatusInternalServerError, errorResponse("internal error"))
		return
	}

	result, err := h.analysisService.AnalyzeUpload(c.Request.Context(), fileHeader.Filename, data)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrUnsupportedFormat):
			c.JSON(http.StatusBadRequest, errorResponse(fmt.Sprintf(
				"Unsupported file type. Use: %s",
				strings.Join(h.config.Upload.AllowedExtensions, ", "))))
		case errors.Is(err, service.ErrInvalidInput):
			c.JSON(http.StatusBadRequest, errorResponse(fmt.Sprintf("Analysis failed: %s", err.Error())))
		default:
			h.log.Error().Err(err).Str("filename", fileHeader.Filename).Msg("failed to analyze image")
			c.JSON(http.StatusInternalServerError, errorResponse("internal error"))
		}
		return
	}

	c.JSON(http.StatusOK, result)
}

func (h *Handler) listAnalyses(c *gin.Context) {
	var level *string
	if l := strings.TrimSpace(c.Query("level")); l != "" {
		level = &l
	}

	var from, to *string
	if f := strings.TrimSpace(c.Query("from")); f != "" {
		from = &f
	}
	if t := strings.TrimSpace(c.Query("to")); t != "" {
		to = &t
	}

	limit := 50
	if l := c.Query("limit"); l != "" {
		if parsed, err := parseInt(l); err == nil && parsed > 0 {
			limit = parsed
		}
	}

	offset := 0
	if o := c.Query("offset"); o != "" {
		if parsed, err := parseInt(o); err == nil && parsed >= 0 {
			offset = parsed
		}
	}

	analyses, err := h.analysisService.FindAnalyses(c.Request.Context(), level, from, to, limit, offset)
	if err != nil {
		h.handleError(c, err)
		return
	}

	c.JSON(http.StatusOK, successResponse(analyses))
}

func (h *Handler) getAnalysis(c *gin.Context) {
	info, err := h.analysisService.GetAnalysis(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.handleError(c, err)
		return
	}

	c.JSON(http.StatusOK, successResponse(info))
}

func (h *Handler) health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":  "ok",
		"service": "OceanEye",
		"ready":   true,
		"version": serviceVersion,
	})
}

func (h *Handler) handleError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrInvalidInput):
		c.JSON(http.StatusBadRequest, errorResponse(err.Error()))
	case errors.Is(err, service.ErrNotFound):
		c.JSON(http.StatusNotFound, errorResponse(err.Error()))
	default:
		h.log.Error().Err(err).Msg("handler error")
		c.JSON(http.StatusInternalServerError, errorResponse("internal error"))
	}
}

func successResponse(data interface{}) gin.H {
	return gin.H{
		"data": data,
	}
}

func errorResponse(message string) gin.H {
	return gin.H{
		"error": message,
	}
}

func parseInt(s string) (int, error) {
	return strconv.Atoi(s)
}
