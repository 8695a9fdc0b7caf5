package hotel

import (
	"errors"
	"net/http"
	"time"

	"travel/internal/booking"
	"travel/internal/web"
	"travel/pkg/format"

	"github.com/gin-gonic/gin"
)

type Handler struct {
	panels   *Panels
	bookings *booking.Service
	sessions *web.BrowserSessions
}

func NewHandler(panels *Panels, bookings *booking.Service, sessions *web.BrowserSessions) *Handler {
	return &Handler{panels: panels, bookings: bookings, sessions: sessions}
}

func (h *Handler) RegisterRoutes(r gin.IRouter) {
	g := r.Group("/v1/hotels/:id/pricing")
	g.GET("", h.Get)
	g.PUT("/stay", h.SetStay)
	g.PUT("/room-type", h.SelectRoomType)
	g.POST("/select", h.Select)
}

func (h *Handler) panel(c *gin.Context) *Panel {
	sid := h.sessions.Ensure(c)
	p := h.panels.Get(sid, c.Param("id"))
	p.SetLanguage(web.Language(c))
	return p
}

// Get godoc
// @Summary      Room pricing panel
// @Tags         hotels
// @Produce      json
// @Param        id path string true "Hotel ID"
// @Success      200 {object} PanelView
// @Router       /v1/hotels/{id}/pricing [get]
func (h *Handler) Get(c *gin.Context) {
	c.JSON(http.StatusOK, h.panel(c).View(web.Language(c)))
}

type stayRequest struct {
	CheckIn  string `json:"checkIn"`
	CheckOut string `json:"checkOut"`
	Rooms    int    `json:"rooms"`
}

func parseDate(s string) (*time.Time, error) {
	if s == "" {
		return nil, nil
	}
	t, err := format.ParseISO(s)
	if err != nil {
		return nil, err
	}
	return &t, nil
}

// SetStay godoc
// @Summary      Set stay dates and room count
// @Tags         hotels
// @Accept       json
// @Produce      json
// @Param        id path string true "Hotel ID"
// @Param        request body stayRequest true "Stay"
// @Success      200 {object} PanelView
// @Failure      400 {object} map[string]string
// @Router       /v1/hotels/{id}/pricing/stay [put]
func (h *Handler) SetStay(c *gin.Context) {
	var req stayRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		web.BadRequest(c, err)
		return
	}
	checkIn, err := parseDate(req.CheckIn)
	if err != nil {
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": "validation failed", "fields": gin.H{"checkIn": "must be a date"}})
		return
	}
	checkOut, err := parseDate(req.CheckOut)
	if err != nil {
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": "validation failed", "fields": gin.H{"checkOut": "must be a date"}})
		return
	}

	p := h.panel(c)
	if err := p.SetStay(checkIn, checkOut, req.Rooms); err != nil {
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": "validation failed", "fields": gin.H{"checkOut": err.Error()}})
		return
	}
	c.JSON(http.StatusOK, p.View(web.Language(c)))
}

type roomTypeRequest struct {
	RoomTypeID string `json:"roomTypeId" binding:"required"`
}

// SelectRoomType godoc
// @Summary      Change the room type
// @Description  Starts fetching the room type's price. The response shows the previous price with loading=true unless wait=true is given.
// @Tags         hotels
// @Accept       json
// @Produce      json
// @Param        id path string true "Hotel ID"
// @Param        wait query bool false "Wait for the price"
// @Param        request body roomTypeRequest true "Room type"
// @Success      200 {object} PanelView
// @Success      202 {object} PanelView
// @Router       /v1/hotels/{id}/pricing/room-type [put]
func (h *Handler) SelectRoomType(c *gin.Context) {
	var req roomTypeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		web.BadRequest(c, err)
		return
	}
	p := h.panel(c)
	done := p.SelectRoomType(c.Request.Context(), req.RoomTypeID)
	if c.Query("wait") == "true" {
		select {
		case <-done:
			c.JSON(http.StatusOK, p.View(web.Language(c)))
		case <-c.Request.Context().Done():
		}
		return
	}
	c.JSON(http.StatusAccepted, p.View(web.Language(c)))
}

// Select godoc
// @Summary      Book this room
// @Description  Puts the panel's room into the booking as the selected hotel
// @Tags         hotels
// @Produce      json
// @Param        id path string true "Hotel ID"
// @Success      200 {object} booking.View
// @Failure      409 {object} map[string]string
// @Router       /v1/hotels/{id}/pricing/select [post]
func (h *Handler) Select(c *gin.Context) {
	ctx := c.Request.Context()
	sel, err := h.panel(c).Selection(ctx)
	if err != nil {
		sendError(c, err)
		return
	}
	sid := h.sessions.Ensure(c)
	st, err := h.bookings.SelectHotel(ctx, sid, sel)
	if err != nil {
		sendError(c, err)
		return
	}
	c.JSON(http.StatusOK, booking.NewView(st, web.Language(c)))
}

func sendError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, ErrNoRoomType),
		errors.Is(err, ErrPriceLoading),
		errors.Is(err, booking.ErrCurrencyMismatch),
		errors.Is(err, booking.ErrFinalStep):
		c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
	default:
		web.WriteError(c, err)
	}
}
