package auth

import (
	"crypto/rand"
	"encoding/base64"
	"errors"
	"net/http"
	"net/url"
	"strings"

	"log/slog"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/salama968/LearnTube/internal/features/user"
	"github.com/salama968/LearnTube/pkg/config"
	"github.com/salama968/LearnTube/pkg/response"
)

const oauthStateCookie = "oauth_state"

// Handler processes authentication HTTP requests.
type Handler struct {
	db     *gorm.DB
	logger *slog.Logger
	cfg    *config.Config
	google *GoogleOAuth
}

// NewHandler constructs an auth handler instance.
func NewHandler(db *gorm.DB, logger *slog.Logger, cfg *config.Config) *Handler {
	return &Handler{
		db:     db,
		logger: logger,
		cfg:    cfg,
		google: NewGoogleOAuth(cfg.Google),
	}
}

// Register creates a new account.
func (h *Handler) Register(c *gin.Context) {
	var req struct {
		Name     string `json:"name" binding:"required"`
		Email    string `json:"email" binding:"required,email"`
		Password string `json:"password" binding:"required"`
	}

	if err := c.ShouldBindJSON(&req); err != nil {
		response.ErrorWithLog(h.logger, c, http.StatusBadRequest, "invalid registration payload", err)
		return
	}

	authResp, err := Register(h.db.WithContext(c.Request.Context()), RegisterInput{
		Name:     req.Name,
		Email:    req.Email,
		Password: req.Password,
	}, TokenConfigFrom(h.cfg))
	if err != nil {
		h.respondError(c, err, "registration failed")
		return
	}

	response.Created(c, authResp, "Registration successful")
}

// Login authenticates a user and returns JWT tokens.
func (h *Handler) Login(c *gin.Context) {
	var req struct {
		Email    string `json:"email" binding:"required"`
		Password string `json:"password" binding:"required"`
	}

	if err := c.ShouldBindJSON(&req); err != nil {
		response.ErrorWithLog(h.logger, c, http.StatusBadRequest, "invalid login payload", err)
		return
	}

	authResp, err := Login(h.db.WithContext(c.Request.Context()), LoginInput{
		Email:    req.Email,
		Password: req.Password,
	}, TokenConfigFrom(h.cfg))
	if err != nil {
		h.respondError(c, err, "login failed")
		return
	}

	response.Success(c, http.StatusOK, authResp, "Login successful", nil)
}

// Logout clears the user's refresh token.
func (h *Handler) Logout(c *gin.Context) {
	authHeader := c.GetHeader("Authorization")
	token := strings.TrimSpace(strings.TrimPrefix(authHeader, "Bearer "))
	if token == "" {
		response.ErrorWithLog(h.logger, c, http.StatusUnauthorized, "no access token provided", nil)
		return
	}

	if err := Logout(h.db.WithContext(c.Request.Context()), token, TokenConfigFrom(h.cfg)); err != nil {
		h.respondError(c, err, "logout failed")
		return
	}

	response.Success(c, http.StatusOK, true, "Logout successful", nil)
}

// RefreshToken exchanges a valid refresh token for a new token pair.
func (h *Handler) RefreshToken(c *gin.Context) {
	var req struct {
		RefreshToken string `json:"refreshToken" binding:"required"`
	}

	if err := c.ShouldBindJSON(&req); err != nil {
		response.ErrorWithLog(h.logger, c, http.StatusBadRequest, "invalid refresh payload", err)
		return
	}

	authResp, err := RefreshToken(h.db.WithContext(c.Request.Context()), req.RefreshToken, TokenConfigFrom(h.cfg))
	if err != nil {
		h.respondError(c, err, "token refresh failed")
		return
	}

	response.Success(c, http.StatusOK, authResp, "Token refreshed", nil)
}

// GoogleLogin redirects the browser to the Google consent page.
func (h *Handler) GoogleLogin(c *gin.Context) {
	state, err := randomState()
	if err != nil {
		response.ErrorWithLog(h.logger, c, http.StatusInternalServerError, "failed to start oauth flow", err)
		return
	}

	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(oauthStateCookie, state, 600, "/", "", h.cfg.Env == "production", true)
	c.Redirect(http.StatusTemporaryRedirect, h.google.AuthURL(state))
}

// GoogleCallback completes the OAuth flow and redirects to the frontend
// with the token pair in the URL fragment.
func (h *Handler) GoogleCallback(c *gin.Context) {
	state := c.Query("state")
	cookieState, err := c.Cookie(oauthStateCookie)
	if err != nil || state == "" || state != cookieState {
		response.ErrorWithLog(h.logger, c, http.StatusBadRequest, "oauth state mismatch", ErrInvalidState)
		return
	}
	c.SetCookie(oauthStateCookie, "", -1, "/", "", h.cfg.Env == "production", true)

	code := c.Query("code")
	if code == "" {
		response.ErrorWithLog(h.logger, c, http.StatusBadRequest, "missing authorization code", nil)
		return
	}

	profile, err := h.google.Exchange(c.Request.Context(), code)
	if err != nil {
		response.ErrorWithLog(h.logger, c, http.StatusBadGateway, "google sign-in failed", err)
		return
	}

	authResp, err := LoginWithGoogle(h.db.WithContext(c.Request.Context()), profile, TokenConfigFrom(h.cfg))
	if err != nil {
		h.respondError(c, err, "google sign-in failed")
		return
	}

	if h.cfg.Google.FrontendURL != "" {
		fragment := url.Values{
			"accessToken":  {authResp.AccessToken},
			"refreshToken": {authResp.RefreshToken},
		}
		c.Redirect(http.StatusTemporaryRedirect, h.cfg.Google.FrontendURL+"/auth/callback#"+fragment.Encode())
		return
	}

	response.Success(c, http.StatusOK, authResp, "Login successful", nil)
}

func (h *Handler) respondError(c *gin.Context, err error, fallback string) {
	switch {
	case errors.Is(err, ErrMissingFields),
		errors.Is(err, ErrInvalidEmail),
		errors.Is(err, ErrWeakPassword),
		errors.Is(err, user.ErrInvalidPassword):
		response.ErrorWithLog(h.logger, c, http.StatusBadRequest, err.Error(), err)
	case errors.Is(err, user.ErrEmailTaken):
		response.ErrorWithLog(h.logger, c, http.StatusConflict, err.Error(), err)
	case errors.Is(err, ErrInvalidCredentials), errors.Is(err, ErrInvalidToken):
		response.ErrorWithLog(h.logger, c, http.StatusUnauthorized, err.Error(), err)
	default:
		response.ErrorWithLog(h.logger, c, http.StatusInternalServerError, fallback, err)
	}
}

func randomState() (string, error) {
	buf := make([]byte, 24)
	if _, err := rand.Read(buf); err != nil {
		return "", err
	}
	return base64.RawURLEncoding.EncodeToString(buf), nil
}
