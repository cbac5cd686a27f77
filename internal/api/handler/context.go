package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/pawhaven/canine-care/internal/core/domain"
)

// ctxActor rebuilds the acting owner from the claims injected by the Auth
// middleware and fast-fails before any service call: a missing role means the
// middleware never ran, a non-admin without an id is structurally valid but
// operationally unusable.
func ctxActor(c echo.Context) (*domain.Owner, error) {
	role, _ := c.Get("role").(string)
	if role == "" {
		return nil, echo.NewHTTPError(http.StatusUnauthorized, "missing authentication claims")
	}

	ownerID, _ := c.Get("owner_id").(string)
	if role != domain.RoleAdministrator && ownerID == "" {
		return nil, echo.NewHTTPError(http.StatusUnauthorized, "token missing owner identity")
	}

	username, _ := c.Get("username").(string)
	return &domain.Owner{ID: ownerID, Username: username, Role: role}, nil
}
