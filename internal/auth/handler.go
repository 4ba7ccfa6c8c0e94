package auth

import (
	"net/http"

	"earlywrapped/internal/session"
	"earlywrapped/pkg/apperror"

	"github.com/gin-gonic/gin"
)

type AuthHandler struct {
	service *Service
	cookies session.Writer
}

func NewAuthHandler(s *Service, cookies session.Writer) *AuthHandler {
	return &AuthHandler{
		service: s,
		cookies: cookies,
	}
}

func (h *AuthHandler) RegisterRoutes(router gin.IRouter) {
	group := router.Group("/auth")
	group.GET("/login", h.LoginHandler)
	group.GET("/callback", h.CallbackHandler)
	group.POST("/refresh", h.RefreshHandler)
	group.POST("/logout", h.LogoutHandler)
	group.GET("/me", h.MeHandler)
	group.GET("/check", h.CheckHandler)
}

// LoginHandler godoc
// @Summary      Start Spotify login
// @Description  Sets the CSRF state cookie and redirects to the Spotify consent page
// @Tags         auth
// @Success      302
// @Failure      500 {object} map[string]string
// @Router       /auth/login [get]
func (h *AuthHandler) LoginHandler(c *gin.Context) {
	outcome, err := h.service.Login()
	if err != nil {
		apperror.Send(c, err)
		return
	}

	h.redirect(c, outcome)
}

// CallbackHandler godoc
// @Summary      OAuth callback
// @Description  Exchanges the authorization code, stores the session cookies and redirects to the frontend
// @Tags         auth
// @Param        code   query string false "Authorization code"
// @Param        state  query string false "CSRF state"
// @Param        error  query string false "Error reported by Spotify"
// @Success      302
// @Failure      400 {object} map[string]string
// @Failure      500 {object} map[string]string
// @Router       /auth/callback [get]
func (h *AuthHandler) CallbackHandler(c *gin.Context) {
	params := CallbackParams{
		Code:  c.Query("code"),
		State: c.Query("state"),
		Error: c.Query("error"),
	}

	outcome, err := h.service.Callback(c.Request.Context(), session.Read(c), params)
	if err != nil {
		apperror.Send(c, err)
		return
	}

	h.redirect(c, outcome)
}

// RefreshHandler godoc
// @Summary      Refresh the access token
// @Tags         auth
// @Produce      json
// @Success      200 {object} TokenResponse
// @Failure      400 {object} map[string]string
// @Failure      401 {object} map[string]string
// @Failure      500 {object} map[string]string
// @Router       /auth/refresh [post]
func (h *AuthHandler) RefreshHandler(c *gin.Context) {
	resp, mutations, err := h.service.Refresh(c.Request.Context(), session.Read(c))
	if err != nil {
		apperror.Send(c, err)
		return
	}

	h.cookies.Apply(c, mutations)
	c.JSON(http.StatusOK, resp)
}

// LogoutHandler godoc
// @Summary      Log out
// @Description  Clears all session cookies
// @Tags         auth
// @Produce      json
// @Success      200 {object} LogoutResponse
// @Router       /auth/logout [post]
func (h *AuthHandler) LogoutHandler(c *gin.Context) {
	resp, mutations := h.service.Logout()

	h.cookies.Apply(c, mutations)
	c.JSON(http.StatusOK, resp)
}

// MeHandler godoc
// @Summary      Current user
// @Tags         auth
// @Produce      json
// @Success      200 {object} UserProfile
// @Failure      401 {object} map[string]string
// @Failure      500 {object} map[string]string
// @Router       /auth/me [get]
func (h *AuthHandler) MeHandler(c *gin.Context) {
	profile, err := h.service.Me(c.Request.Context(), session.Read(c))
	if err != nil {
		apperror.Send(c, err)
		return
	}

	c.JSON(http.StatusOK, profile)
}

// CheckHandler godoc
// @Summary      Check authentication
// @Description  Reports whether an access token cookie is present
// @Tags         auth
// @Produce      json
// @Success      200 {object} CheckResponse
// @Router       /auth/check [get]
func (h *AuthHandler) CheckHandler(c *gin.Context) {
	c.JSON(http.StatusOK, h.service.Check(session.Read(c)))
}

func (h *AuthHandler) redirect(c *gin.Context, outcome *Outcome) {
	h.cookies.Apply(c, outcome.Mutations)
	c.Redirect(http.StatusFound, outcome.RedirectURL)
}
