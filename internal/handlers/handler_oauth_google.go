package handlers

import (
	"log/slog"
	"net/http"

	portssvc "github.com/SscSPs/utang_ledger/internal/core/ports/services"
	"github.com/SscSPs/utang_ledger/internal/dto"
	"github.com/SscSPs/utang_ledger/internal/middleware"
	"github.com/SscSPs/utang_ledger/internal/utils"
	"github.com/gin-gonic/gin"
)

const (
	oauthStateCookie = "utang_oauth_state"
	oauthStateMaxAge = 10 * 60
)

// GoogleOAuthHandler handles Google sign-in.
type GoogleOAuthHandler struct {
	google  portssvc.GoogleIdentitySvc
	session portssvc.SessionSvcFacade
}

// NewGoogleOAuthHandler creates a new instance of GoogleOAuthHandler.
func NewGoogleOAuthHandler(google portssvc.GoogleIdentitySvc, session portssvc.SessionSvcFacade) *GoogleOAuthHandler {
	return &GoogleOAuthHandler{google: google, session: session}
}

// registerGoogleRoutes registers the Google routes under the auth group.
func registerGoogleRoutes(auth *gin.RouterGroup, services *portssvc.ServiceContainer) {
	h := NewGoogleOAuthHandler(services.Google, services.Session)
	google := auth.Group("/google", h.requireEnabled)
	{
		google.POST("", h.SignInWithIDToken)
		google.GET("/login", h.Login)
		google.POST("/callback", h.Callback)
	}
}

func (h *GoogleOAuthHandler) requireEnabled(c *gin.Context) {
	if h.google == nil || !h.google.Enabled() {
		c.AbortWithStatusJSON(http.StatusNotFound, ErrorResponse{Error: "Google sign-in is not enabled"})
		return
	}
	c.Next()
}

// SignInWithIDToken godoc
// @Summary Sign in with a Google ID token
// @Description Validates an ID token obtained by the client and returns an application JWT.
// @Tags oauth
// @Accept json
// @Produce json
// @Param token body dto.GoogleIDTokenRequest true "Google ID token"
// @Success 200 {object} dto.LoginResponse
// @Failure 400 {object} ErrorResponse
// @Failure 401 {object} ErrorResponse
// @Router /auth/google [post]
func (h *GoogleOAuthHandler) SignInWithIDToken(c *gin.Context) {
	var req dto.GoogleIDTokenRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Invalid request body"})
		return
	}
	identity, err := h.google.VerifyIDToken(c.Request.Context(), req.IDToken)
	if err != nil {
		middleware.GetLoggerFromCtx(c.Request.Context()).Warn("Google ID token rejected", slog.String("error", err.Error()))
		respondError(c, err)
		return
	}
	h.signIn(c, *identity)
}

// Login godoc
// @Summary Start the Google authorization-code flow
// @Description Redirects to the Google consent screen. The state is kept in a short-lived cookie.
// @Tags oauth
// @Success 307
// @Router /auth/google/login [get]
func (h *GoogleOAuthHandler) Login(c *gin.Context) {
	state, err := utils.GenerateSecureRandomString(32)
	if err != nil {
		respondError(c, err)
		return
	}
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(oauthStateCookie, state, oauthStateMaxAge, "/", "", c.Request.TLS != nil, true)
	c.Redirect(http.StatusTemporaryRedirect, h.google.LoginURL(state))
}

// Callback godoc
// @Summary Finish the Google authorization-code flow
// @Description Exchanges the code returned by Google and returns an application JWT.
// @Tags oauth
// @Accept json
// @Produce json
// @Param callback body dto.GoogleCallbackRequest true "Code and state"
// @Success 200 {object} dto.LoginResponse
// @Failure 400 {object} ErrorResponse
// @Failure 401 {object} ErrorResponse
// @Router /auth/google/callback [post]
func (h *GoogleOAuthHandler) Callback(c *gin.Context) {
	var req dto.GoogleCallbackRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Invalid request body"})
		return
	}
	expected, err := c.Cookie(oauthStateCookie)
	if err != nil || expected == "" || expected != req.State {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "OAuth state mismatch"})
		return
	}
	c.SetCookie(oauthStateCookie, "", -1, "/", "", c.Request.TLS != nil, true)

	identity, err := h.google.ExchangeCode(c.Request.Context(), req.Code)
	if err != nil {
		middleware.GetLoggerFromCtx(c.Request.Context()).Warn("Google code exchange failed", slog.String("error", err.Error()))
		respondError(c, err)
		return
	}
	h.signIn(c, *identity)
}

func (h *GoogleOAuthHandler) signIn(c *gin.Context, identity portssvc.ExternalIdentity) {
	session, err := h.session.SignInWithIdentity(c.Request.Context(), identity)
	if err != nil {
		respondError(c, err)
		return
	}
	middleware.GetLoggerFromCtx(c.Request.Context()).Info("User signed in with Google", slog.String("user_id", session.User.UserID))
	c.JSON(http.StatusOK, loginResponse(session))
}
