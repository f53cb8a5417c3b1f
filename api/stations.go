package api

import (
	"net/http"

	"github.com/Domenick1991/thsrbook/internal/codec"
	"github.com/Domenick1991/thsrbook/internal/domain"
	"github.com/gin-gonic/gin"
)

type StationHandler struct{}

func NewStationHandler() *StationHandler {
	return &StationHandler{}
}

func (h *StationHandler) Register(router *gin.RouterGroup) {
	router.GET("", h.list)
}

type stationResponse struct {
	Code int    `json:"code"`
	Name string `json:"name"`
}

// list returns the stations with the codes the booking form uses.
func (h *StationHandler) list(c *gin.Context) {
	stations := domain.Stations()
	out := make([]stationResponse, 0, len(stations))
	for _, s := range stations {
		code, err := codec.StationCode(s)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return
		}
		out = append(out, stationResponse{Code: code, Name: s.String()})
	}
	c.JSON(http.StatusOK, out)
}
