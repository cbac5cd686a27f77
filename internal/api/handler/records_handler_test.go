package handler

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/pawhaven/canine-care/internal/core/domain"
	"github.com/pawhaven/canine-care/internal/core/ports"
	"github.com/pawhaven/canine-care/internal/core/service"
	"github.com/pawhaven/canine-care/internal/store"
)

// The handlers run against the real service stack with unconfigured gateways,
// so every mutation exercises the local fallback path.
func newRecordsFixture(t *testing.T) (*service.RecordsService, *store.Store) {
	t.Helper()
	st := store.New()
	svc := service.NewRecordsService(st, ports.UnconfiguredGateways(), nil, zerolog.Nop())
	st.Canines.Add(domain.CanineProfile{RecordMeta: domain.RecordMeta{ID: "canine-rex"}, OwnerID: "owner-ana", Name: "Rex"})
	return svc, st
}

func newRecordsContext(t *testing.T, method, path, body string) (echo.Context, *httptest.ResponseRecorder) {
	t.Helper()
	e := echo.New()
	e.Validator = NewValidator()
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	return e.NewContext(req, rec), rec
}

func TestRecordsHandler_Create_FallsBackLocally(t *testing.T) {
	svc, st := newRecordsFixture(t)
	h := NewRecordsHandler(svc.Nutrition)

	c, rec := newRecordsContext(t, http.MethodPost, "/",
		`{"canine_id":"canine-rex","food_type":"dry","calories":80}`)
	c.SetParamNames("canine_id")
	c.SetParamValues("canine-rex")
	asActor(c, "owner-ana", domain.RoleOwner)

	if err := h.Create(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d", rec.Code)
	}

	var resp domain.NutritionEntry
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("invalid json: %v", err)
	}
	if !strings.HasPrefix(resp.ID, "nutrition-") {
		t.Errorf("expected local id, got %q", resp.ID)
	}
	if resp.Calories != 80 {
		t.Errorf("payload lost in transit: %+v", resp)
	}
	if st.Nutrition.Len() != 1 {
		t.Errorf("record must land in the store, got %d", st.Nutrition.Len())
	}
}

func TestRecordsHandler_Create_PathBodyMismatch(t *testing.T) {
	svc, _ := newRecordsFixture(t)
	h := NewRecordsHandler(svc.Nutrition)

	c, _ := newRecordsContext(t, http.MethodPost, "/",
		`{"canine_id":"canine-other","food_type":"dry"}`)
	c.SetParamNames("canine_id")
	c.SetParamValues("canine-rex")
	asActor(c, "owner-ana", domain.RoleOwner)

	if err := h.Create(c); !errors.Is(err, domain.ErrValidation) {
		t.Fatalf("expected ErrValidation on mismatched canine_id, got %v", err)
	}
}

func TestRecordsHandler_Create_MissingRequiredField(t *testing.T) {
	svc, _ := newRecordsFixture(t)
	h := NewRecordsHandler(svc.Nutrition)

	c, _ := newRecordsContext(t, http.MethodPost, "/", `{"canine_id":"canine-rex"}`)
	c.SetParamNames("canine_id")
	c.SetParamValues("canine-rex")
	asActor(c, "owner-ana", domain.RoleOwner)

	err := h.Create(c)
	var he *echo.HTTPError
	if !errors.As(err, &he) || he.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 without food_type, got %v", err)
	}
}

func TestRecordsHandler_ListByCanine_ChecksVisibility(t *testing.T) {
	svc, st := newRecordsFixture(t)
	st.Nutrition.Add(domain.NutritionEntry{RecordMeta: domain.RecordMeta{ID: "n1"}, CanineID: "canine-rex"})
	h := NewRecordsHandler(svc.Nutrition)

	c, rec := newRecordsContext(t, http.MethodGet, "/", "")
	c.SetParamNames("canine_id")
	c.SetParamValues("canine-rex")
	asActor(c, "owner-ana", domain.RoleOwner)

	if err := h.ListByCanine(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}

	// Another owner is rejected outright.
	c2, _ := newRecordsContext(t, http.MethodGet, "/", "")
	c2.SetParamNames("canine_id")
	c2.SetParamValues("canine-rex")
	asActor(c2, "owner-bruno", domain.RoleOwner)

	if err := h.ListByCanine(c2); !errors.Is(err, domain.ErrForbidden) {
		t.Fatalf("expected ErrForbidden, got %v", err)
	}
}

func TestRecordsHandler_Update_FullReplacement(t *testing.T) {
	svc, st := newRecordsFixture(t)
	st.Nutrition.Add(domain.NutritionEntry{RecordMeta: domain.RecordMeta{ID: "n1"}, CanineID: "canine-rex", FoodType: "dry", Calories: 80})
	h := NewRecordsHandler(svc.Nutrition)

	c, rec := newRecordsContext(t, http.MethodPut, "/",
		`{"canine_id":"canine-rex","food_type":"wet","calories":120}`)
	c.SetParamNames("id")
	c.SetParamValues("n1")
	asActor(c, "owner-ana", domain.RoleOwner)

	if err := h.Update(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	got, _ := st.Nutrition.Get("n1")
	if got.FoodType != "wet" || got.Calories != 120 {
		t.Errorf("update must replace the record, got %+v", got)
	}
	if st.Nutrition.Len() != 1 {
		t.Errorf("update must not duplicate, got %d rows", st.Nutrition.Len())
	}
}

func TestRecordsHandler_Delete(t *testing.T) {
	svc, st := newRecordsFixture(t)
	st.Nutrition.Add(domain.NutritionEntry{RecordMeta: domain.RecordMeta{ID: "n1"}, CanineID: "canine-rex"})
	h := NewRecordsHandler(svc.Nutrition)

	c, rec := newRecordsContext(t, http.MethodDelete, "/", "")
	c.SetParamNames("id")
	c.SetParamValues("n1")
	asActor(c, "owner-ana", domain.RoleOwner)

	if err := h.Delete(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusNoContent {
		t.Fatalf("expected 204, got %d", rec.Code)
	}
	if st.Nutrition.Len() != 0 {
		t.Error("record must be gone")
	}
}
