package handler

import (
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/pawhaven/canine-care/internal/core/domain"
	"github.com/pawhaven/canine-care/internal/core/service"
)

// CanineHandler handles HTTP requests for canine profiles, including the
// cascading delete.
type CanineHandler struct {
	records *service.RecordsService
}

func NewCanineHandler(records *service.RecordsService) *CanineHandler {
	return &CanineHandler{records: records}
}

type canineRequest struct {
	Name      string     `json:"name" validate:"required"`
	Breed     string     `json:"breed,omitempty"`
	Sex       string     `json:"sex,omitempty" validate:"omitempty,oneof=male female unknown"`
	BirthDate *time.Time `json:"birth_date,omitempty"`
	WeightKg  float64    `json:"weight_kg,omitempty"`
	Microchip string     `json:"microchip,omitempty"`
	OwnerID   string     `json:"owner_id,omitempty"`
}

type noteRequest struct {
	Text string `json:"text" validate:"required"`
}

// List returns the profiles visible to the actor.
func (h *CanineHandler) List(c echo.Context) error {
	actor, err := ctxActor(c)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, h.records.ListCanines(actor))
}

// Get returns one profile.
func (h *CanineHandler) Get(c echo.Context) error {
	actor, err := ctxActor(c)
	if err != nil {
		return err
	}
	profile, err := h.records.GetCanine(actor, c.Param("canine_id"))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, profile)
}

// Create stores a new profile. The response reflects local state immediately,
// whether or not the remote backend confirmed.
func (h *CanineHandler) Create(c echo.Context) error {
	actor, err := ctxActor(c)
	if err != nil {
		return err
	}

	var req canineRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	profile, err := h.records.CreateCanine(c.Request().Context(), actor, domain.CanineProfile{
		OwnerID:   req.OwnerID,
		Name:      req.Name,
		Breed:     req.Breed,
		Sex:       domain.Sex(req.Sex),
		BirthDate: req.BirthDate,
		WeightKg:  req.WeightKg,
		Microchip: req.Microchip,
	})
	if err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, profile)
}

// Update replaces the profile's descriptive attributes.
func (h *CanineHandler) Update(c echo.Context) error {
	actor, err := ctxActor(c)
	if err != nil {
		return err
	}

	var req canineRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	profile, err := h.records.UpdateCanine(c.Request().Context(), actor, c.Param("canine_id"), func(cur domain.CanineProfile) domain.CanineProfile {
		cur.Name = req.Name
		cur.Breed = req.Breed
		cur.Sex = domain.Sex(req.Sex)
		cur.BirthDate = req.BirthDate
		cur.WeightKg = req.WeightKg
		cur.Microchip = req.Microchip
		if req.OwnerID != "" {
			cur.OwnerID = req.OwnerID
		}
		return cur
	})
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, profile)
}

// AddNote appends a note to the profile.
func (h *CanineHandler) AddNote(c echo.Context) error {
	actor, err := ctxActor(c)
	if err != nil {
		return err
	}

	var req noteRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	profile, err := h.records.AddCanineNote(c.Request().Context(), actor, c.Param("canine_id"), req.Text)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, profile)
}

// Delete removes the profile and cascades across every dependent family.
func (h *CanineHandler) Delete(c echo.Context) error {
	actor, err := ctxActor(c)
	if err != nil {
		return err
	}
	if err := h.records.DeleteCanine(c.Request().Context(), actor, c.Param("canine_id")); err != nil {
		return err
	}
	return c.NoContent(http.StatusNoContent)
}
