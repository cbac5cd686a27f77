package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/pawhaven/canine-care/internal/core/domain"
	"github.com/pawhaven/canine-care/internal/core/service"
)

// SharedHandler serves the record families that are not owned by a canine:
// vet profiles and contacts. They are visible to every authenticated actor.
type SharedHandler[T domain.Record[T]] struct {
	family *service.SharedFamily[T]
}

func NewSharedHandler[T domain.Record[T]](family *service.SharedFamily[T]) *SharedHandler[T] {
	return &SharedHandler[T]{family: family}
}

func (h *SharedHandler[T]) Register(g *echo.Group, path string) {
	g.GET("/"+path, h.List)
	g.POST("/"+path, h.Create)
	g.GET("/"+path+"/:id", h.Get)
	g.PUT("/"+path+"/:id", h.Update)
	g.DELETE("/"+path+"/:id", h.Delete)
}

func (h *SharedHandler[T]) List(c echo.Context) error {
	if _, err := ctxActor(c); err != nil {
		return err
	}
	return c.JSON(http.StatusOK, h.family.List())
}

func (h *SharedHandler[T]) Get(c echo.Context) error {
	if _, err := ctxActor(c); err != nil {
		return err
	}
	e, err := h.family.Get(c.Param("id"))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, e)
}

func (h *SharedHandler[T]) Create(c echo.Context) error {
	if _, err := ctxActor(c); err != nil {
		return err
	}
	e, err := h.bind(c)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, h.family.Create(c.Request().Context(), e))
}

// Update expects the full record representation.
func (h *SharedHandler[T]) Update(c echo.Context) error {
	if _, err := ctxActor(c); err != nil {
		return err
	}
	e, err := h.bind(c)
	if err != nil {
		return err
	}
	updated, err := h.family.Update(c.Request().Context(), c.Param("id"), func(T) T { return e })
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, updated)
}

func (h *SharedHandler[T]) Delete(c echo.Context) error {
	if _, err := ctxActor(c); err != nil {
		return err
	}
	h.family.Delete(c.Request().Context(), c.Param("id"))
	return c.NoContent(http.StatusNoContent)
}

func (h *SharedHandler[T]) bind(c echo.Context) (T, error) {
	var e T
	if err := c.Bind(&e); err != nil {
		return e, echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&e); err != nil {
		return e, echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	return e, nil
}
