package flight

import (
	"errors"
	"net/http"

	"travel/internal/booking"
	"travel/internal/web"
	"travel/pkg/format"

	"github.com/gin-gonic/gin"
	"golang.org/x/text/language"
)

type FlightHandler struct {
	service  *Service
	bookings *booking.Service
	sessions *web.BrowserSessions
}

func NewFlightHandler(s *Service, bookings *booking.Service, sessions *web.BrowserSessions) *FlightHandler {
	return &FlightHandler{
		service:  s,
		bookings: bookings,
		sessions: sessions,
	}
}

func (h *FlightHandler) RegisterRoutes(router gin.IRouter) {
	router.POST("/v1/flights/search", h.SearchFlightsHandler)
	router.POST("/v1/flights/filter", h.FilterFlightsHandler)
	router.POST("/v1/flights/select", h.SelectFlightHandler)
}

// SearchFlightsHandler godoc
// @Summary      Search flights
// @Description  Search bookable offers for a route and date
// @Tags         flights
// @Accept       json
// @Produce      json
// @Param        request body SearchRequest true "Search Criteria"
// @Success      200 {object} FlightSearchResponse
// @Failure      422 {object} map[string]interface{}
// @Router       /v1/flights/search [post]
func (h *FlightHandler) SearchFlightsHandler(c *gin.Context) {
	var req SearchRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		web.BadRequest(c, err)
		return
	}

	response, err := h.service.SearchFlights(c.Request.Context(), req)
	if err != nil {
		sendError(c, err)
		return
	}

	c.JSON(http.StatusOK, localize(response, web.Language(c)))
}

// FilterFlightsHandler godoc
// @Summary      Filter existing flight results
// @Description  Apply filters like price range, airline, fare class or stops
// @Tags         flights
// @Accept       json
// @Produce      json
// @Param        request body FilterRequest true "Filter Criteria"
// @Success      200 {object} FlightSearchResponse
// @Failure      400 {object} map[string]string
// @Router       /v1/flights/filter [post]
func (h *FlightHandler) FilterFlightsHandler(c *gin.Context) {
	var req FilterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		web.BadRequest(c, err)
		return
	}

	response, err := h.service.FilterFlights(c.Request.Context(), req)
	if err != nil {
		sendError(c, err)
		return
	}

	c.JSON(http.StatusOK, localize(response, web.Language(c)))
}

// SelectFlightHandler godoc
// @Summary      Select a flight offer
// @Description  Puts the offer into the booking as the selected flight
// @Tags         flights
// @Accept       json
// @Produce      json
// @Param        request body SelectRequest true "Search criteria and offer id"
// @Success      200 {object} booking.View
// @Failure      404 {object} map[string]string
// @Failure      409 {object} map[string]string
// @Router       /v1/flights/select [post]
func (h *FlightHandler) SelectFlightHandler(c *gin.Context) {
	var req SelectRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		web.BadRequest(c, err)
		return
	}
	if req.OfferID == "" {
		c.JSON(http.StatusUnprocessableEntity, gin.H{
			"error":  "validation failed",
			"fields": gin.H{"offer_id": "is required"},
		})
		return
	}

	ctx := c.Request.Context()
	selected, err := h.service.Offer(ctx, req.SearchRequest, req.OfferID)
	if err != nil {
		sendError(c, err)
		return
	}

	sid := h.sessions.Ensure(c)
	st, err := h.bookings.SelectFlight(ctx, sid, selected)
	if err != nil {
		sendError(c, err)
		return
	}

	c.JSON(http.StatusOK, booking.NewView(st, web.Language(c)))
}

func localize(resp *FlightSearchResponse, lang language.Tag) *FlightSearchResponse {
	for i := range resp.Flights {
		resp.Flights[i].PriceFormatted = format.FormatCurrency(lang, resp.Flights[i].Price)
	}
	return resp
}

func sendError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, ErrOfferNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
	case errors.Is(err, booking.ErrCurrencyMismatch), errors.Is(err, booking.ErrFinalStep):
		c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
	default:
		web.WriteError(c, err)
	}
}
