package booking

import (
	"errors"
	"net/http"

	"travel/internal/web"
	"travel/pkg/apiclient"
	"travel/pkg/format"

	"github.com/gin-gonic/gin"
	"golang.org/x/text/language"
)

type Handler struct {
	service  *Service
	sessions *web.BrowserSessions
	identity web.IdentityFunc
	loginURL string
}

func NewHandler(s *Service, sessions *web.BrowserSessions, identity web.IdentityFunc, loginURL string) *Handler {
	return &Handler{service: s, sessions: sessions, identity: identity, loginURL: loginURL}
}

// RegisterRoutes mounts the booking routes. Selections are only written by
// /v1/flights/select and the hotel pricing panel, which resolve prices server side.
func (h *Handler) RegisterRoutes(r gin.IRouter) {
	g := r.Group("/v1/booking")
	g.GET("", h.Get)
	g.DELETE("/flight", h.ClearFlight)
	g.DELETE("/hotel", h.ClearHotel)
	g.PUT("/type", h.SetType)
	g.POST("/step", h.SetStep)
	g.POST("/advance", h.Advance)
	g.POST("/reset", h.Reset)
	g.PUT("/passengers", h.SetPassengers)
	g.PUT("/contact", h.SetContact)
	g.PUT("/payment-method", h.SetPaymentMethod)
	g.POST("/checkout", h.Checkout)
}

// View is the booking state as pages render it.
type View struct {
	SelectedFlight    *SelectedFlight                `json:"selectedFlight"`
	SelectedHotel     *SelectedHotel                 `json:"selectedHotel"`
	BookingType       BookingType                    `json:"bookingType"`
	Step              Step                           `json:"step"`
	TotalAmount       format.Money                   `json:"totalAmount"`
	TotalFormatted    string                         `json:"totalFormatted"`
	CanProceed        bool                           `json:"canProceed"`
	Passengers        []apiclient.Passenger          `json:"passengers"`
	Contact           *apiclient.Contact             `json:"contact"`
	PaymentMethodType string                         `json:"paymentMethodType,omitempty"`
	Confirmation      *apiclient.BookingConfirmation `json:"confirmation"`
}

func NewView(st *State, lang language.Tag) View {
	total := st.TotalAmount()
	v := View{
		SelectedFlight: st.SelectedFlight,
		SelectedHotel:  st.SelectedHotel,
		BookingType:    st.BookingType(),
		Step:           st.Step,
		TotalAmount:    total,
		CanProceed:     st.CanProceed(),
		Passengers:     st.Passengers,
		Contact:        st.Contact,
		Confirmation:   st.Confirmation,
	}
	if total.Currency != "" {
		v.TotalFormatted = format.FormatCurrency(lang, total)
	}
	if st.PaymentMethod != nil {
		v.PaymentMethodType = st.PaymentMethod.Type
	}
	if v.Passengers == nil {
		v.Passengers = []apiclient.Passenger{}
	}
	return v
}

func (h *Handler) respond(c *gin.Context, st *State, err error) {
	if err != nil {
		h.sendError(c, err)
		return
	}
	c.JSON(http.StatusOK, NewView(st, web.Language(c)))
}

// Get godoc
// @Summary      Current booking state
// @Tags         booking
// @Produce      json
// @Success      200 {object} View
// @Router       /v1/booking [get]
func (h *Handler) Get(c *gin.Context) {
	sid := h.sessions.Ensure(c)
	st, err := h.service.Get(c.Request.Context(), sid)
	h.respond(c, st, err)
}

// ClearFlight godoc
// @Summary      Remove the selected flight
// @Tags         booking
// @Produce      json
// @Success      200 {object} View
// @Router       /v1/booking/flight [delete]
func (h *Handler) ClearFlight(c *gin.Context) {
	sid := h.sessions.Ensure(c)
	st, err := h.service.SelectFlight(c.Request.Context(), sid, nil)
	h.respond(c, st, err)
}

// ClearHotel godoc
// @Summary      Remove the selected hotel
// @Tags         booking
// @Produce      json
// @Success      200 {object} View
// @Router       /v1/booking/hotel [delete]
func (h *Handler) ClearHotel(c *gin.Context) {
	sid := h.sessions.Ensure(c)
	st, err := h.service.SelectHotel(c.Request.Context(), sid, nil)
	h.respond(c, st, err)
}

type typeRequest struct {
	BookingType BookingType `json:"bookingType"`
}

// SetType godoc
// @Summary      Override the booking type
// @Tags         booking
// @Accept       json
// @Produce      json
// @Param        request body typeRequest true "flight, hotel, both or empty"
// @Success      200 {object} View
// @Router       /v1/booking/type [put]
func (h *Handler) SetType(c *gin.Context) {
	var req typeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		web.BadRequest(c, err)
		return
	}
	sid := h.sessions.Ensure(c)
	st, err := h.service.SetBookingType(c.Request.Context(), sid, req.BookingType)
	h.respond(c, st, err)
}

type stepRequest struct {
	Step Step `json:"step" binding:"required"`
}

// SetStep godoc
// @Summary      Move to a booking step
// @Tags         booking
// @Accept       json
// @Produce      json
// @Param        request body stepRequest true "Target step"
// @Success      200 {object} View
// @Failure      401 {object} map[string]interface{}
// @Failure      409 {object} map[string]string
// @Router       /v1/booking/step [post]
func (h *Handler) SetStep(c *gin.Context) {
	var req stepRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		web.BadRequest(c, err)
		return
	}
	_, authenticated := h.identity(c)
	sid := h.sessions.Ensure(c)
	st, err := h.service.SetStep(c.Request.Context(), sid, req.Step, authenticated)
	h.respond(c, st, err)
}

// Advance godoc
// @Summary      Move to the next booking step
// @Tags         booking
// @Produce      json
// @Success      200 {object} View
// @Failure      401 {object} map[string]interface{}
// @Failure      409 {object} map[string]string
// @Router       /v1/booking/advance [post]
func (h *Handler) Advance(c *gin.Context) {
	_, authenticated := h.identity(c)
	sid := h.sessions.Ensure(c)
	st, err := h.service.Advance(c.Request.Context(), sid, authenticated)
	h.respond(c, st, err)
}

// Reset godoc
// @Summary      Start the booking over
// @Tags         booking
// @Produce      json
// @Success      200 {object} View
// @Router       /v1/booking/reset [post]
func (h *Handler) Reset(c *gin.Context) {
	sid := h.sessions.Ensure(c)
	st, err := h.service.Reset(c.Request.Context(), sid)
	h.respond(c, st, err)
}

// SetPassengers godoc
// @Summary      Set the passenger list
// @Tags         booking
// @Accept       json
// @Produce      json
// @Param        request body []apiclient.Passenger true "Passengers"
// @Success      200 {object} View
// @Failure      422 {object} map[string]interface{}
// @Router       /v1/booking/passengers [put]
func (h *Handler) SetPassengers(c *gin.Context) {
	var passengers []apiclient.Passenger
	if err := c.ShouldBindJSON(&passengers); err != nil {
		web.BadRequest(c, err)
		return
	}
	sid := h.sessions.Ensure(c)
	st, err := h.service.SetPassengers(c.Request.Context(), sid, passengers)
	h.respond(c, st, err)
}

// SetContact godoc
// @Summary      Set contact details
// @Tags         booking
// @Accept       json
// @Produce      json
// @Param        request body apiclient.Contact true "Contact"
// @Success      200 {object} View
// @Failure      422 {object} map[string]interface{}
// @Router       /v1/booking/contact [put]
func (h *Handler) SetContact(c *gin.Context) {
	var contact apiclient.Contact
	if err := c.ShouldBindJSON(&contact); err != nil {
		web.BadRequest(c, err)
		return
	}
	sid := h.sessions.Ensure(c)
	st, err := h.service.SetContact(c.Request.Context(), sid, contact)
	h.respond(c, st, err)
}

// SetPaymentMethod godoc
// @Summary      Attach the payment widget token
// @Tags         booking
// @Accept       json
// @Produce      json
// @Param        request body apiclient.PaymentMethod true "Payment method"
// @Success      200 {object} View
// @Failure      422 {object} map[string]interface{}
// @Router       /v1/booking/payment-method [put]
func (h *Handler) SetPaymentMethod(c *gin.Context) {
	var pm apiclient.PaymentMethod
	if err := c.ShouldBindJSON(&pm); err != nil {
		web.BadRequest(c, err)
		return
	}
	sid := h.sessions.Ensure(c)
	st, err := h.service.SetPaymentMethod(c.Request.Context(), sid, pm)
	h.respond(c, st, err)
}

// Checkout godoc
// @Summary      Submit the booking
// @Tags         booking
// @Produce      json
// @Success      200 {object} View
// @Failure      401 {object} map[string]interface{}
// @Failure      409 {object} map[string]string
// @Router       /v1/booking/checkout [post]
func (h *Handler) Checkout(c *gin.Context) {
	actor, ok := h.identity(c)
	if !ok {
		h.sendError(c, ErrNotAuthenticated)
		return
	}
	sid := h.sessions.Ensure(c)
	ctx := apiclient.WithActor(c.Request.Context(), actor)
	st, err := h.service.Checkout(ctx, sid)
	h.respond(c, st, err)
}

func (h *Handler) sendError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, ErrNotAuthenticated):
		c.JSON(http.StatusUnauthorized, gin.H{
			"error":  err.Error(),
			"action": gin.H{"type": "login", "url": h.loginURL},
		})
	case errors.Is(err, ErrInvalidStep), errors.Is(err, ErrInvalidBookingType), errors.Is(err, ErrInvalidSelection):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	case errors.Is(err, ErrBackwardStep),
		errors.Is(err, ErrStepSkipped),
		errors.Is(err, ErrIncompleteSelect),
		errors.Is(err, ErrCurrencyMismatch),
		errors.Is(err, ErrFinalStep),
		errors.Is(err, ErrCheckoutRequired),
		errors.Is(err, ErrSubmitInProgress),
		errors.Is(err, ErrNotAtPayment),
		errors.Is(err, ErrNoPassengers),
		errors.Is(err, ErrNoContact),
		errors.Is(err, ErrNoPaymentMethod):
		c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
	default:
		web.WriteError(c, err)
	}
}
