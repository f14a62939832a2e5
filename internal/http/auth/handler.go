package auth

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/MrJamesThe3rd/finboard/internal/auth"
	"github.com/MrJamesThe3rd/finboard/internal/http/api"
	"github.com/MrJamesThe3rd/finboard/internal/user"
)

type Handler struct {
	auth     *auth.Service
	users    *user.Service
	cookies  *Cookies
	limiter  *Limiter
	recorder auth.Recorder
}

// NewHandler builds the auth handler. recorder may be nil.
func NewHandler(authSvc *auth.Service, users *user.Service, cookies *Cookies, limiter *Limiter, recorder auth.Recorder) *Handler {
	if recorder == nil {
		recorder = nopRecorder{}
	}

	return &Handler{
		auth:     authSvc,
		users:    users,
		cookies:  cookies,
		limiter:  limiter,
		recorder: recorder,
	}
}

// Routes mounts the public auth endpoints and the authenticated user
// endpoints on r.
func (h *Handler) Routes(r chi.Router) {
	r.Post("/register", h.register)
	r.With(h.RateLimit).Post("/login", h.login)
	r.Post("/logout", h.logout)

	r.Group(func(r chi.Router) {
		r.Use(h.RequireSession)
		r.Get("/user", h.currentUser)
		r.Get("/profile", h.currentUser)
		r.Put("/profile", h.updateProfile)
	})
}

type userResponse struct {
	ID        int64     `json:"id"`
	Email     string    `json:"email"`
	Username  *string   `json:"username"`
	FirstName *string   `json:"first_name"`
	LastName  *string   `json:"last_name"`
	Phone     *string   `json:"phone"`
	CreatedAt time.Time `json:"created_at"`
}

func toUserResponse(p user.Profile) userResponse {
	return userResponse{
		ID:        p.ID,
		Email:     p.Email,
		Username:  p.Username,
		FirstName: p.FirstName,
		LastName:  p.LastName,
		Phone:     p.Phone,
		CreatedAt: p.CreatedAt,
	}
}

type registerRequest struct {
	Email     string  `json:"email"`
	Password  string  `json:"password"`
	Username  *string `json:"username,omitempty"`
	FirstName *string `json:"first_name,omitempty"`
	LastName  *string `json:"last_name,omitempty"`
	Phone     *string `json:"phone,omitempty"`
}

func (h *Handler) register(w http.ResponseWriter, r *http.Request) {
	var req registerRequest
	if err := api.Decode(r, &req); err != nil {
		api.Error(w, r, err)
		return
	}

	res, err := h.auth.Register(r.Context(), auth.RegisterParams{
		Email:     req.Email,
		Password:  req.Password,
		Username:  req.Username,
		FirstName: req.FirstName,
		LastName:  req.LastName,
		Phone:     req.Phone,
	})
	if err != nil {
		api.Error(w, r, err)
		return
	}

	h.issue(w, r, http.StatusCreated, res)
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

func (h *Handler) login(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := api.Decode(r, &req); err != nil {
		api.Error(w, r, err)
		return
	}

	res, err := h.auth.Login(r.Context(), auth.LoginParams{Email: req.Email, Password: req.Password})
	if err != nil {
		api.Error(w, r, err)
		return
	}

	h.issue(w, r, http.StatusOK, res)
}

func (h *Handler) issue(w http.ResponseWriter, r *http.Request, status int, res auth.Result) {
	if err := h.cookies.Set(w, res.Session); err != nil {
		h.auth.Logout(res.Session.ID)
		api.Error(w, r, err)

		return
	}

	api.JSON(w, status, toUserResponse(res.User))
}

func (h *Handler) logout(w http.ResponseWriter, r *http.Request) {
	if sessionID, err := h.cookies.SessionID(r); err == nil {
		h.auth.Logout(sessionID)
	}

	h.cookies.Clear(w)
	w.WriteHeader(http.StatusOK)
}

func (h *Handler) currentUser(w http.ResponseWriter, r *http.Request) {
	profile, ok := api.CurrentUser(r.Context())
	if !ok {
		api.Error(w, r, auth.ErrUnauthenticated)
		return
	}

	api.JSON(w, http.StatusOK, toUserResponse(profile))
}

type updateProfileRequest struct {
	Username  *string `json:"username,omitempty"`
	FirstName *string `json:"first_name,omitempty"`
	LastName  *string `json:"last_name,omitempty"`
	Phone     *string `json:"phone,omitempty"`
	// Accepted so older clients keep working; never applied.
	Password *string `json:"password,omitempty"`
}

func (h *Handler) updateProfile(w http.ResponseWriter, r *http.Request) {
	var req updateProfileRequest
	if err := api.Decode(r, &req); err != nil {
		api.Error(w, r, err)
		return
	}

	profile, err := h.users.UpdateProfile(r.Context(), api.UserID(r.Context()), user.UpdateParams{
		Username:  req.Username,
		FirstName: req.FirstName,
		LastName:  req.LastName,
		Phone:     req.Phone,
	})
	if err != nil {
		api.Error(w, r, err)
		return
	}

	api.JSON(w, http.StatusOK, toUserResponse(profile))
}

type nopRecorder struct{}

func (nopRecorder) Registered()         {}
func (nopRecorder) LoginAttempt(string) {}
