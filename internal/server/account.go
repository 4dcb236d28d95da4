package server

import (
	"errors"
	"net/http"

	"github.com/charmbracelet/log"

	"github.com/evanshandler/jukebox/internal/auth"
	"github.com/evanshandler/jukebox/internal/models"
	"github.com/evanshandler/jukebox/internal/repositories"
	"github.com/evanshandler/jukebox/internal/session"
	"github.com/evanshandler/jukebox/internal/shared"
	"github.com/evanshandler/jukebox/internal/web"
)

// AccountHandler serves the login, signup and logout flows.
type AccountHandler struct {
	renderer *web.Renderer
	users    *repositories.UserRepository
	sessions *session.Manager
	cfg      shared.SessionConfig
	logger   *log.Logger
	mux      *http.ServeMux
}

// NewAccountHandler creates an AccountHandler with the given collaborators.
func NewAccountHandler(renderer *web.Renderer, users *repositories.UserRepository, sessions *session.Manager, cfg shared.SessionConfig, logger *log.Logger) *AccountHandler {
	h := &AccountHandler{
		renderer: renderer,
		users:    users,
		sessions: sessions,
		cfg:      cfg,
		logger:   logger,
		mux:      http.NewServeMux(),
	}

	h.mux.HandleFunc("GET /login", h.loginPage)
	h.mux.HandleFunc("POST /login", h.login)
	h.mux.HandleFunc("GET /signup", h.signupPage)
	h.mux.HandleFunc("POST /register", h.register)
	h.mux.HandleFunc("GET /logout", h.logout)

	return h
}

// Routes returns the HTTP routes this handler serves.
func (h *AccountHandler) Routes() []string {
	return []string{"/login", "/signup", "/register", "/logout"}
}

// ServeHTTP dispatches to the account sub-routes.
func (h *AccountHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	h.mux.ServeHTTP(w, r)
}

func (h *AccountHandler) loginPage(w http.ResponseWriter, r *http.Request) {
	renderPage(w, h.renderer, h.logger, "login", baseView(r))
}

// login validates credentials and opens a fresh session.
func (h *AccountHandler) login(w http.ResponseWriter, r *http.Request) {
	username := r.FormValue("username")
	password := r.FormValue("password")

	user, exists, err := h.users.FindByUsername(username)
	if err != nil {
		h.logger.Error("login lookup failed", "err", err)
		renderError(w, r, h.renderer, h.logger, http.StatusInternalServerError, "Something broke while signing you in.")
		return
	}

	// Unknown account and wrong password get the same answer.
	if !exists || !auth.VerifyPassword(user.PasswordHash(), password) {
		h.logger.Warn("login rejected", "username", username, "err", shared.ErrAuthFailed)
		view := baseView(r)
		view.Error = "Invalid username or password."
		renderView(w, h.renderer, h.logger, "login", view, http.StatusUnauthorized)
		return
	}

	h.openSession(w, r, user)
}

func (h *AccountHandler) signupPage(w http.ResponseWriter, r *http.Request) {
	renderPage(w, h.renderer, h.logger, "signup", baseView(r))
}

// register creates an account and logs it straight in.
func (h *AccountHandler) register(w http.ResponseWriter, r *http.Request) {
	username := r.FormValue("username")
	password := r.FormValue("password")
	premium := r.FormValue("isPremium") != ""

	hash, err := auth.HashPassword(password)
	if err != nil {
		if errors.Is(err, shared.ErrWeakCredentials) {
			h.signupError(w, r, "Passwords need at least 8 characters.")
			return
		}
		h.logger.Error("failed to hash password", "err", err)
		renderError(w, r, h.renderer, h.logger, http.StatusInternalServerError, "Something broke while creating your account.")
		return
	}

	user := models.NewUser(0, username, hash, premium)
	if err := h.users.Create(user); err != nil {
		switch {
		case errors.Is(err, shared.ErrDuplicateAccount):
			h.signupError(w, r, "That username is taken.")
		case errors.Is(err, shared.ErrInvalidInput):
			h.signupError(w, r, "Usernames must be alphanumeric.")
		default:
			h.logger.Error("failed to create account", "err", err)
			renderError(w, r, h.renderer, h.logger, http.StatusInternalServerError, "Something broke while creating your account.")
		}
		return
	}

	h.logger.Info("account created", "username", user.Username(), "premium", user.Premium())
	h.openSession(w, r, user)
}

// logout invalidates the presented token and clears account cookies.
// Repeating a logout is harmless.
func (h *AccountHandler) logout(w http.ResponseWriter, r *http.Request) {
	if token, ok := cookieValue(r, sessionCookie); ok {
		h.sessions.Invalidate(token)
	}

	clearAccountCookies(w)
	http.Redirect(w, r, "/login", http.StatusSeeOther)
}

// openSession registers a session for user, issues the account cookies and
// lands on the home page.
func (h *AccountHandler) openSession(w http.ResponseWriter, r *http.Request, user *models.User) {
	token, err := h.sessions.Create(user.Username(), h.cfg.TTL())
	if err != nil {
		h.logger.Error("failed to create session", "err", err)
		renderError(w, r, h.renderer, h.logger, http.StatusInternalServerError, "Something broke while signing you in.")
		return
	}

	auth, ok := h.sessions.Authenticate(token)
	if !ok {
		h.logger.Error("freshly created session is not live", "username", user.Username())
		renderError(w, r, h.renderer, h.logger, http.StatusInternalServerError, "Something broke while signing you in.")
		return
	}

	h.sessions.SetCurrentIdentity(user.Username())

	setSessionToken(w, auth.Token, auth.Session.ExpiresAt(), h.cfg.SecureCookies)
	setCookie(w, usernameCookie, user.Username(), h.cfg.SecureCookies)
	setCookie(w, currentUserCookie, currentUserValue(user.Username(), user.Premium()), h.cfg.SecureCookies)

	h.logger.Info("login succeeded", "username", user.Username())
	http.Redirect(w, r, "/home", http.StatusSeeOther)
}

func (h *AccountHandler) signupError(w http.ResponseWriter, r *http.Request, message string) {
	view := baseView(r)
	view.Error = message
	renderView(w, h.renderer, h.logger, "signup", view, http.StatusBadRequest)
}
