package handler

import (
	"fmt"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/pawhaven/canine-care/internal/core/domain"
	"github.com/pawhaven/canine-care/internal/core/service"
)

// RecordsHandler serves one dependent record family. The nine families share
// the same CRUD shape, so the handler is generic over the record type: the
// request body binds straight to the domain record and is validated through
// its struct tags.
type RecordsHandler[T domain.Record[T]] struct {
	family *service.Family[T]
}

func NewRecordsHandler[T domain.Record[T]](family *service.Family[T]) *RecordsHandler[T] {
	return &RecordsHandler[T]{family: family}
}

// Register mounts the family's routes: list/create nested under the owning
// canine, item operations flat.
//
//	GET    /canines/:canine_id/<path>
//	POST   /canines/:canine_id/<path>
//	GET    /<path>/:id
//	PUT    /<path>/:id
//	DELETE /<path>/:id
func (h *RecordsHandler[T]) Register(g *echo.Group, path string) {
	g.GET("/canines/:canine_id/"+path, h.ListByCanine)
	g.POST("/canines/:canine_id/"+path, h.Create)
	g.GET("/"+path+"/:id", h.Get)
	g.PUT("/"+path+"/:id", h.Update)
	g.DELETE("/"+path+"/:id", h.Delete)
}

func (h *RecordsHandler[T]) ListByCanine(c echo.Context) error {
	actor, err := ctxActor(c)
	if err != nil {
		return err
	}
	rows, err := h.family.ByCanine(actor, c.Param("canine_id"))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, rows)
}

func (h *RecordsHandler[T]) Get(c echo.Context) error {
	actor, err := ctxActor(c)
	if err != nil {
		return err
	}
	e, err := h.family.Get(actor, c.Param("id"))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, e)
}

func (h *RecordsHandler[T]) Create(c echo.Context) error {
	actor, err := ctxActor(c)
	if err != nil {
		return err
	}

	e, err := h.bind(c)
	if err != nil {
		return err
	}
	if e.ParentID() != c.Param("canine_id") {
		return fmt.Errorf("%w: canine_id must match the route", domain.ErrValidation)
	}

	created, err := h.family.Create(c.Request().Context(), actor, e)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, created)
}

// Update expects the full record representation, canine_id included.
func (h *RecordsHandler[T]) Update(c echo.Context) error {
	actor, err := ctxActor(c)
	if err != nil {
		return err
	}

	e, err := h.bind(c)
	if err != nil {
		return err
	}

	updated, err := h.family.Update(c.Request().Context(), actor, c.Param("id"), func(T) T { return e })
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, updated)
}

func (h *RecordsHandler[T]) Delete(c echo.Context) error {
	actor, err := ctxActor(c)
	if err != nil {
		return err
	}
	if err := h.family.Delete(c.Request().Context(), actor, c.Param("id")); err != nil {
		return err
	}
	return c.NoContent(http.StatusNoContent)
}

func (h *RecordsHandler[T]) bind(c echo.Context) (T, error) {
	var e T
	if err := c.Bind(&e); err != nil {
		return e, echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&e); err != nil {
		return e, echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	return e, nil
}
