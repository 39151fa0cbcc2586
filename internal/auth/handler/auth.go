package handler

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"encoding/json"
	"net/http"
	"net/url"
	"time"

	"github.com/julienschmidt/httprouter"
	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"

	"travelbook/internal/auth/service"
	"travelbook/pkg/config"
	apperrors "travelbook/pkg/errors"
	httputil "travelbook/pkg/http"
	"travelbook/pkg/logger"
)

const (
	stateCookie    = "oauth_state"
	stateCookieTTL = 10 * time.Minute
	userinfoURL    = "https://www.googleapis.com/oauth2/v2/userinfo"
)

type AuthHandler struct {
	service service.AuthService
	oauth   *oauth2.Config
	cfg     *config.Config
	log     *logger.Logger
}

func NewAuthHandler(svc service.AuthService, cfg *config.Config) *AuthHandler {
	var oc *oauth2.Config
	if cfg.GoogleClientID != "" {
		oc = &oauth2.Config{
			ClientID:     cfg.GoogleClientID,
			ClientSecret: cfg.GoogleClientSecret,
			RedirectURL:  cfg.GoogleRedirectURL,
			Scopes:       []string{"openid", "email", "profile"},
			Endpoint:     google.Endpoint,
		}
	}
	return &AuthHandler{
		service: svc,
		oauth:   oc,
		cfg:     cfg,
		log:     cfg.Log,
	}
}

func (h *AuthHandler) Register(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	var input service.RegisterInput
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		h.writeError(w, "Register", apperrors.InvalidInput("Invalid request body"))
		return
	}

	result, err := h.service.Register(r.Context(), &input)
	if err != nil {
		h.writeError(w, "Register", err)
		return
	}

	if err := httputil.WriteCreated(w, result); err != nil {
		h.log.Error("failed to write created response", "handler", "Register", "error", err)
	}
}

func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	var input service.LoginInput
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		h.writeError(w, "Login", apperrors.InvalidInput("Invalid request body"))
		return
	}

	result, err := h.service.Login(r.Context(), &input)
	if err != nil {
		h.writeError(w, "Login", err)
		return
	}

	if err := httputil.WriteSuccess(w, result); err != nil {
		h.log.Error("failed to write success response", "handler", "Login", "error", err)
	}
}

// GoogleLogin redirects the browser to Google's consent page with a
// one-time state value bound to a cookie.
func (h *AuthHandler) GoogleLogin(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	if h.oauth == nil {
		h.writeError(w, "GoogleLogin", apperrors.Unavailable("google sign-in"))
		return
	}

	state, err := randomState()
	if err != nil {
		h.writeError(w, "GoogleLogin", apperrors.Internal("Failed to start Google sign-in", err))
		return
	}

	http.SetCookie(w, &http.Cookie{
		Name:     stateCookie,
		Value:    state,
		Path:     "/api/auth/google",
		MaxAge:   int(stateCookieTTL.Seconds()),
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})

	http.Redirect(w, r, h.oauth.AuthCodeURL(state), http.StatusTemporaryRedirect)
}

func (h *AuthHandler) GoogleCallback(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	if h.oauth == nil {
		h.writeError(w, "GoogleCallback", apperrors.Unavailable("google sign-in"))
		return
	}

	cookie, err := r.Cookie(stateCookie)
	if err != nil || cookie.Value == "" || cookie.Value != r.URL.Query().Get("state") {
		h.writeError(w, "GoogleCallback", apperrors.Unauthorized("Invalid OAuth state"))
		return
	}

	code := r.URL.Query().Get("code")
	if code == "" {
		h.writeError(w, "GoogleCallback", apperrors.Unauthorized("Missing authorization code"))
		return
	}

	tok, err := h.oauth.Exchange(r.Context(), code)
	if err != nil {
		h.log.Warn("Google code exchange failed", "error", err)
		h.writeError(w, "GoogleCallback", apperrors.Unauthorized("Google sign-in failed"))
		return
	}

	profile, err := h.fetchProfile(r.Context(), tok)
	if err != nil {
		h.log.Warn("Google profile fetch failed", "error", err)
		h.writeError(w, "GoogleCallback", apperrors.Unauthorized("Google sign-in failed"))
		return
	}

	result, err := h.service.LoginGoogle(r.Context(), profile.Email, profile.Name)
	if err != nil {
		h.writeError(w, "GoogleCallback", err)
		return
	}

	redirect := h.cfg.OAuthSuccessURL + "?token=" + url.QueryEscape(result.Token)
	http.Redirect(w, r, redirect, http.StatusTemporaryRedirect)
}

type googleProfile struct {
	Email string `json:"email"`
	Name  string `json:"name"`
}

func (h *AuthHandler) fetchProfile(ctx context.Context, tok *oauth2.Token) (*googleProfile, error) {
	resp, err := h.oauth.Client(ctx, tok).Get(userinfoURL)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	var profile googleProfile
	if err := json.NewDecoder(resp.Body).Decode(&profile); err != nil {
		return nil, err
	}
	return &profile, nil
}

func (h *AuthHandler) writeError(w http.ResponseWriter, handler string, err error) {
	if writeErr := httputil.WriteError(w, err); writeErr != nil {
		h.log.Error("failed to write error response", "handler", handler, "error", writeErr)
	}
}

func randomState() (string, error) {
	buf := make([]byte, 16)
	if _, err := rand.Read(buf); err != nil {
		return "", err
	}
	return hex.EncodeToString(buf), nil
}

func (h *AuthHandler) RegisterRoutes(router *httprouter.Router) {
	router.POST("/api/auth/register", h.Register)
	router.POST("/api/auth/login", h.Login)
	router.GET("/api/auth/google", h.GoogleLogin)
	router.GET("/api/auth/google/callback", h.GoogleCallback)
}
