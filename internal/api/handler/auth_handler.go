package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/pawhaven/canine-care/internal/core/domain"
	"github.com/pawhaven/canine-care/internal/core/ports"
)

type AuthHandler struct {
	authService ports.AuthService
}

func NewAuthHandler(authService ports.AuthService) *AuthHandler {
	return &AuthHandler{authService: authService}
}

type registerRequest struct {
	Username string `json:"username" validate:"required"`
	Password string `json:"password" validate:"required,min=8"`
	Email    string `json:"email,omitempty" validate:"omitempty,email"`
	Role     string `json:"role" validate:"required,oneof=administrator owner"`
}

type loginRequest struct {
	Username string `json:"username" validate:"required"`
	Password string `json:"password" validate:"required"`
}

type changePasswordRequest struct {
	CurrentPassword string `json:"current_password" validate:"required"`
	NewPassword     string `json:"new_password" validate:"required"`
}

type authResponse struct {
	Token string        `json:"token,omitempty"`
	Owner *domain.Owner `json:"owner,omitempty"`
}

// Register creates a new owner account.
func (h *AuthHandler) Register(c echo.Context) error {
	var req registerRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	owner, err := h.authService.Register(c.Request().Context(), req.Username, req.Password, req.Email, req.Role)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, authResponse{Owner: owner})
}

// Login authenticates an owner, loads their scoped store, and returns a JWT.
func (h *AuthHandler) Login(c echo.Context) error {
	var req loginRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	token, owner, err := h.authService.Login(c.Request().Context(), req.Username, req.Password)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, authResponse{Token: token, Owner: owner})
}

// ChangePassword rotates the acting owner's credential.
func (h *AuthHandler) ChangePassword(c echo.Context) error {
	actor, err := ctxActor(c)
	if err != nil {
		return err
	}

	var req changePasswordRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	if err := h.authService.ChangePassword(c.Request().Context(), actor.ID, req.CurrentPassword, req.NewPassword); err != nil {
		return err
	}
	return c.NoContent(http.StatusNoContent)
}

// Logout revokes the mirrored session and clears the store.
func (h *AuthHandler) Logout(c echo.Context) error {
	actor, err := ctxActor(c)
	if err != nil {
		return err
	}
	if err := h.authService.Logout(c.Request().Context(), actor.ID); err != nil {
		return err
	}
	return c.NoContent(http.StatusNoContent)
}

// Restore revalidates a mirrored session and reloads the store.
func (h *AuthHandler) Restore(c echo.Context) error {
	actor, err := ctxActor(c)
	if err != nil {
		return err
	}
	owner, err := h.authService.Restore(c.Request().Context(), actor.ID)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, authResponse{Owner: owner})
}
