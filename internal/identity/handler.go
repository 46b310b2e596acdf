package identity

import (
	"encoding/json"
	"fmt"
	"net"
	"net/http"
	"reflect"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"
	"github.com/pagekeep/pagekeep/internal/domain"
	"github.com/pagekeep/pagekeep/internal/pkg/httputil"
)

// LoginThrottle contains per-IP login rate limit settings.
type LoginThrottle struct {
	PerMinute int
	Burst     int
}

// Handler handles HTTP requests for the identity module.
type Handler struct {
	service      *Service
	validator    *validator.Validate
	loginLimiter *ipLimiter
}

// NewHandler creates a new identity handler.
func NewHandler(service *Service, throttle LoginThrottle) *Handler {
	v := validator.New()
	// Report field names as they appear on the wire.
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})

	if throttle.PerMinute <= 0 {
		throttle.PerMinute = 10
	}
	if throttle.Burst <= 0 {
		throttle.Burst = throttle.PerMinute
	}

	return &Handler{
		service:      service,
		validator:    v,
		loginLimiter: newIPLimiter(throttle.PerMinute, throttle.Burst),
	}
}

// RegisterRoutes registers identity routes.
func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Route("/users", func(r chi.Router) {
		r.Post("/register", h.Register)
		r.Post("/login", h.Login)
	})
}

// RegisterRequest represents the registration request body.
type RegisterRequest struct {
	Name     string `json:"name" validate:"required"`
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
	Role     string `json:"role" validate:"omitempty,oneof=root-admin admin user"`
}

// Register handles POST /users/register.
func (h *Handler) Register(w http.ResponseWriter, r *http.Request) {
	var req RegisterRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httputil.Error(w, http.StatusBadRequest, "invalid json")
		return
	}

	if err := h.validator.Struct(req); err != nil {
		httputil.Error(w, http.StatusBadRequest, firstFieldMessage(err))
		return
	}

	user, err := h.service.Register(r.Context(), RegisterInput{
		Name:     req.Name,
		Email:    req.Email,
		Password: req.Password,
		Role:     domain.Role(req.Role),
	})
	if err != nil {
		h.handleServiceError(w, r, err)
		return
	}

	httputil.Success(w, http.StatusCreated, user)
}

// LoginRequest represents the login request body.
type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// Login handles POST /users/login.
func (h *Handler) Login(w http.ResponseWriter, r *http.Request) {
	if !h.loginLimiter.allow(clientIP(r)) {
		httputil.Error(w, http.StatusTooManyRequests, "Too many login attempts, try again later")
		return
	}

	var req LoginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httputil.Error(w, http.StatusBadRequest, "invalid json")
		return
	}

	if err := h.validator.Struct(req); err != nil {
		httputil.Error(w, http.StatusBadRequest, firstFieldMessage(err))
		return
	}

	token, err := h.service.Login(r.Context(), req.Email, req.Password)
	if err != nil {
		h.handleServiceError(w, r, err)
		return
	}

	httputil.JSON(w, http.StatusOK, map[string]interface{}{
		"success": true,
		"token":   token,
	})
}

func (h *Handler) handleServiceError(w http.ResponseWriter, r *http.Request, err error) {
	httputil.HandleError(r.Context(), w, err, []httputil.ErrorMapping{
		{Error: ErrEmailExists, Status: http.StatusBadRequest},
		{Error: ErrUserNotFound, Status: http.StatusNotFound},
		{Error: ErrInvalidPassword, Status: http.StatusBadRequest},
	})
}

// firstFieldMessage renders the first validation failure as a short
// client-facing message, e.g. `"email" is required`.
func firstFieldMessage(err error) string {
	validationErrors, ok := err.(validator.ValidationErrors)
	if !ok || len(validationErrors) == 0 {
		return "validation error"
	}

	e := validationErrors[0]
	switch e.Tag() {
	case "required":
		return fmt.Sprintf("%q is required", e.Field())
	case "email":
		return fmt.Sprintf("%q must be a valid email", e.Field())
	case "oneof":
		return fmt.Sprintf("%q must be one of [%s]", e.Field(), strings.ReplaceAll(e.Param(), " ", ", "))
	default:
		return fmt.Sprintf("%q is invalid", e.Field())
	}
}

func clientIP(r *http.Request) string {
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}
