package handler

import (
	"errors"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"user-signup-service/internal/usecase/user"
	pkgerrors "user-signup-service/pkg/errors"
	"user-signup-service/pkg/logger"
)

// UserBasePath is the prefix of every user route.
const UserBasePath = "/api/user"

// UserHandler handles HTTP requests for user operations
type UserHandler struct {
	uc  user.Usecase
	log *zap.Logger
}

// NewUserHandler creates a new UserHandler instance
func NewUserHandler(uc user.Usecase, log *zap.Logger) *UserHandler {
	return &UserHandler{
		uc:  uc,
		log: log,
	}
}

// SignupRequest represents the HTTP request body for a signup.
// Field checks are left to the usecase validator so every violation is reported together.
type SignupRequest struct {
	Name     string `json:"name" example:"Bruce Wayne"`
	Email    string `json:"email" example:"bwayne@wayneenterprises.com"`
	CPF      string `json:"cpf" example:"27854636419"`
	Birthday string `json:"birthday" example:"1972-02-19"`
}

// UserResponse represents the HTTP response for user data
type UserResponse struct {
	ID       int64  `json:"id"`
	Name     string `json:"name"`
	Email    string `json:"email"`
	CPF      string `json:"cpf"`
	Birthday string `json:"birthday"`
}

// FieldError is one rejected field of a request
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// ErrorResponse represents an error response
type ErrorResponse struct {
	TimeStamp time.Time    `json:"timeStamp"`
	Status    int          `json:"status"`
	Message   string       `json:"message"`
	Errors    []FieldError `json:"errors,omitempty"`
}

// AbortWithError writes an error body with the given status and stops the chain.
func AbortWithError(c *gin.Context, status int, message string) {
	c.AbortWithStatusJSON(status, ErrorResponse{
		TimeStamp: time.Now().UTC(),
		Status:    status,
		Message:   message,
	})
}

// Signup handles POST /api/user/signup
func (h *UserHandler) Signup(c *gin.Context) {
	log := logger.WithContext(c.Request.Context(), h.log)

	var req SignupRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		log.Warn("Invalid signup request", zap.Error(err))
		AbortWithError(c, http.StatusBadRequest, "malformed request body")
		return
	}

	birthday, err := parseBirthday(req.Birthday)
	if err != nil {
		log.Warn("Invalid birthday", zap.String("birthday", req.Birthday), zap.Error(err))
		h.handleError(c, pkgerrors.NewValidationError(pkgerrors.Violation{
			Field:   "birthday",
			Message: "must be a date in the format yyyy-MM-dd",
		}))
		return
	}

	created, err := h.uc.Register(c.Request.Context(), user.RegisterUserRequest{
		Name:     req.Name,
		Email:    req.Email,
		CPF:      req.CPF,
		Birthday: birthday,
	})
	if err != nil {
		h.handleError(c, err)
		return
	}

	c.Header("Location", UserBasePath+"/"+strconv.FormatInt(created.ID, 10))
	c.Status(http.StatusCreated)
}

// GetUser handles GET /api/user/:id
func (h *UserHandler) GetUser(c *gin.Context) {
	log := logger.WithContext(c.Request.Context(), h.log)

	idStr := c.Param("id")
	id, err := strconv.ParseInt(idStr, 10, 64)
	if err != nil {
		log.Warn("Invalid user ID", zap.String("id", idStr), zap.Error(err))
		AbortWithError(c, http.StatusBadRequest, "User ID must be a valid number")
		return
	}

	resp, err := h.uc.GetUser(c.Request.Context(), user.GetUserRequest{ID: id})
	if err != nil {
		h.handleError(c, err)
		return
	}

	c.JSON(http.StatusOK, UserResponse{
		ID:       resp.ID,
		Name:     resp.Name,
		Email:    resp.Email,
		CPF:      resp.CPF,
		Birthday: resp.Birthday.Format(time.DateOnly),
	})
}

// parseBirthday reads a calendar date. An absent birthday is the zero time and
// is reported by the validator alongside the other fields.
func parseBirthday(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, nil
	}
	return time.Parse(time.DateOnly, s)
}

// handleError converts usecase errors to HTTP responses by type
func (h *UserHandler) handleError(c *gin.Context, err error) {
	log := logger.WithContext(c.Request.Context(), h.log)

	var (
		validationErr *pkgerrors.ValidationError
		uniqueErr     *pkgerrors.UniqueViolationError
		notFoundErr   *pkgerrors.NotFoundError
	)

	switch {
	case errors.As(err, &validationErr):
		log.Warn("Request rejected", zap.Error(err))
		fields := make([]FieldError, len(validationErr.Violations))
		for i, v := range validationErr.Violations {
			fields[i] = FieldError{Field: v.Field, Message: v.Message}
		}
		c.AbortWithStatusJSON(validationErr.HTTPStatus(), ErrorResponse{
			TimeStamp: time.Now().UTC(),
			Status:    validationErr.HTTPStatus(),
			Message:   "Validation failed",
			Errors:    fields,
		})
	case errors.As(err, &uniqueErr):
		log.Warn("Request rejected", zap.Error(err))
		AbortWithError(c, uniqueErr.HTTPStatus(), uniqueErr.Error())
	case errors.As(err, &notFoundErr):
		log.Info("Lookup missed", zap.Error(err))
		AbortWithError(c, notFoundErr.HTTPStatus(), notFoundErr.Error())
	default:
		log.Error("Request failed", zap.Error(err))
		AbortWithError(c, http.StatusInternalServerError, "An internal error occurred")
	}
}
