package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/mykolaharmash/telemetry-service-demo/internal/dto"
	"github.com/mykolaharmash/telemetry-service-demo/internal/repository"
	"github.com/mykolaharmash/telemetry-service-demo/internal/service"
)

// AuthTokens carries the two static bearer tokens, one per scope.
type AuthTokens struct {
	Ingest string
	Read   string
}

type Handler struct {
	telemetryService service.TelemetryServicer
	router           *gin.Engine
	log              *zap.Logger
}

func NewHandler(telemetryService service.TelemetryServicer, tokens AuthTokens, log *zap.Logger) *Handler {
	h := &Handler{
		telemetryService: telemetryService,
		router:           gin.Default(),
		log:              log,
	}

	h.registerRoutes(tokens)

	return h
}

func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	h.router.ServeHTTP(w, r)
}

func (h *Handler) registerRoutes(tokens AuthTokens) {
	h.router.GET("/health", h.healthCheck)

	h.router.POST("/events", bearerAuth(tokens.Ingest, h.log), h.ingestEvents)

	reports := h.router.Group("/reports", bearerAuth(tokens.Read, h.log))
	reports.GET("/over-time", h.overTimeReport)
	reports.GET("/distribution", h.distributionReport)
}

// healthCheck handles GET /health
func (h *Handler) healthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status": "ok",
	})
}

// ingestEvents handles POST /events. A valid batch is committed as
// one unit and acknowledged with 202 and no body; any schema
// violation rejects the whole batch with 400 before a single write.
func (h *Handler) ingestEvents(c *gin.Context) {
	body, err := c.GetRawData()
	if err != nil {
		h.log.Warn("Failed to read ingestion request body", zap.Error(err))
		c.JSON(http.StatusBadRequest, dto.ErrorResponse{
			Error:   "validation_error",
			Message: "could not read request body",
		})
		return
	}

	count, err := h.telemetryService.IngestBatch(c.Request.Context(), body)
	if err != nil {
		var verr *service.ValidationError
		if errors.As(err, &verr) {
			c.JSON(http.StatusBadRequest, dto.ErrorResponse{
				Error:   "validation_error",
				Message: verr.Error(),
			})
			return
		}

		h.log.Error("Failed to ingest events batch", zap.Error(err))
		c.JSON(http.StatusInternalServerError, dto.ErrorResponse{
			Error:   "internal_error",
			Message: err.Error(),
		})
		return
	}

	h.log.Info("Events batch accepted", zap.Int("event_count", count))
	c.Status(http.StatusAccepted)
}

// overTimeReport handles GET /reports/over-time
func (h *Handler) overTimeReport(c *gin.Context) {
	points, err := h.telemetryService.OverTimeReport(c.Request.Context())
	if err != nil {
		h.reportError(c, "over-time", err)
		return
	}

	c.JSON(http.StatusOK, points)
}

// distributionReport handles GET /reports/distribution
func (h *Handler) distributionReport(c *gin.Context) {
	points, err := h.telemetryService.DistributionReport(c.Request.Context())
	if err != nil {
		h.reportError(c, "distribution", err)
		return
	}

	c.JSON(http.StatusOK, points)
}

func (h *Handler) reportError(c *gin.Context, report string, err error) {
	h.log.Error("Failed to build report",
		zap.String("report", report),
		zap.Error(err))

	response := dto.ErrorResponse{
		Error:   "internal_error",
		Message: err.Error(),
	}
	if errors.Is(err, repository.ErrReportShape) {
		response.Error = "report_shape_error"
	}

	c.JSON(http.StatusInternalServerError, response)
}
