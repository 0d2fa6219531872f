package api

import (
	"errors"
	"net/http"

	"github.com/Domenick1991/tourledger/internal/domain"
	"github.com/Domenick1991/tourledger/internal/middleware"
	"github.com/Domenick1991/tourledger/internal/service/ingest"
	"github.com/gin-gonic/gin"
)

const retryAfterSeconds = "30"

type BookingHandler struct {
	service ingest.IngestUseCase
}

type statusResponse struct {
	Status string `json:"status"`
}

type errorResponse struct {
	Error     string `json:"error"`
	Code      string `json:"code"`
	Field     string `json:"field,omitempty"`
	Reason    string `json:"reason,omitempty"`
	RequestID string `json:"request_id,omitempty"`
}

func NewBookingHandler(service ingest.IngestUseCase) *BookingHandler {
	return &BookingHandler{service: service}
}

// Register mounts the GYG webhook under router, which is expected to be the /gyg group.
func (h *BookingHandler) Register(router gin.IRoutes) {
	router.POST("/booking-receiver", h.receive)
}

func (h *BookingHandler) receive(c *gin.Context) {
	raw, err := c.GetRawData()
	if err != nil {
		respondError(c, domain.ValidationError{Reason: domain.ReasonMalformedPayload, Err: err})
		return
	}

	confirmation, err := h.service.Handle(c.Request.Context(), raw)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, statusResponse{Status: confirmation.Status})
}

// respondError maps the ingestion error taxonomy onto HTTP responses.
// Store and internal causes are logged by the service, never echoed.
func respondError(c *gin.Context, err error) {
	resp := errorResponse{
		Code:      domain.Kind(err),
		RequestID: middleware.GetRequestID(c),
	}

	var vErr domain.ValidationError
	switch {
	case errors.As(err, &vErr):
		resp.Error = vErr.Error()
		resp.Field = vErr.Field
		resp.Reason = string(vErr.Reason)
		c.JSON(http.StatusBadRequest, resp)
	case domain.IsPermanentStore(err):
		resp.Error = "ledger rejected the booking"
		c.JSON(http.StatusBadGateway, resp)
	case domain.IsTransientStore(err):
		resp.Error = "ledger temporarily unavailable"
		c.Header("Retry-After", retryAfterSeconds)
		c.JSON(http.StatusServiceUnavailable, resp)
	default:
		resp.Error = "internal error"
		c.JSON(http.StatusInternalServerError, resp)
	}
}
