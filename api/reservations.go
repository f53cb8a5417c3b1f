package api

import (
	"errors"
	"net/http"

	"github.com/Domenick1991/thsrbook/internal/domain"
	"github.com/Domenick1991/thsrbook/internal/service/history"
	"github.com/gin-gonic/gin"
)

type ReservationHandler struct {
	service history.HistoryUseCase
}

func NewReservationHandler(service history.HistoryUseCase) *ReservationHandler {
	return &ReservationHandler{service: service}
}

func (h *ReservationHandler) Register(router *gin.RouterGroup) {
	router.GET("", h.list)
	router.GET("/:ticket_id", h.get)
}

type reservationResponse struct {
	ID       int64                      `json:"id"`
	RunID    string                     `json:"run_id"`
	BookedAt string                     `json:"booked_at"`
	Ticket   domain.ConfirmationSummary `json:"ticket"`
}

func toResponse(r domain.Reservation) reservationResponse {
	return reservationResponse{
		ID:       r.ID,
		RunID:    r.RunID,
		BookedAt: r.BookedAt.UTC().Format("2006-01-02T15:04:05Z07:00"),
		Ticket:   r.Summary,
	}
}

func (h *ReservationHandler) list(c *gin.Context) {
	reservations, err := h.service.List(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	out := make([]reservationResponse, 0, len(reservations))
	for _, r := range reservations {
		out = append(out, toResponse(r))
	}
	c.JSON(http.StatusOK, out)
}

func (h *ReservationHandler) get(c *gin.Context) {
	ticketID := c.Param("ticket_id")
	if ticketID == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid ticket id"})
		return
	}
	reservation, err := h.service.Get(c.Request.Context(), ticketID)
	if errors.Is(err, domain.ErrReservationMissing) {
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
		return
	}
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, toResponse(*reservation))
}
