package auth

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

type Handler struct {
	ctx LoginContext
}

func NewHandler(cfg Config) *Handler {
	return &Handler{ctx: NewLoginContext(cfg)}
}

func (h *Handler) RegisterRoutes(r gin.IRouter) {
	r.GET("/auth/login-context", h.LoginContext)
}

// LoginContext godoc
// @Summary      Login page context
// @Description  Action URLs, captcha settings and social login buttons for the login page
// @Tags         auth
// @Produce      json
// @Success      200 {object} LoginContext
// @Router       /auth/login-context [get]
func (h *Handler) LoginContext(c *gin.Context) {
	c.JSON(http.StatusOK, h.ctx)
}
