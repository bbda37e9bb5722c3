package controllers

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/wakelni/wakelni-backend/api/middleware"
	"github.com/wakelni/wakelni-backend/internal/dishes"
)

type stubDishService struct {
	listResult *dishes.ListResult
	dish       *dishes.DishDTO
	mine       []dishes.DishDTO
	err        error

	lastParams  dishes.ListParams
	lastActorID uuid.UUID
}

func (s *stubDishService) List(ctx context.Context, params dishes.ListParams) (*dishes.ListResult, error) {
	s.lastParams = params
	return s.listResult, s.err
}

func (s *stubDishService) Get(ctx context.Context, dishID, actorID uuid.UUID) (*dishes.DishDTO, error) {
	s.lastActorID = actorID
	return s.dish, s.err
}

func (s *stubDishService) Mine(ctx context.Context, cookID uuid.UUID) ([]dishes.DishDTO, error) {
	return s.mine, s.err
}

func (s *stubDishService) Create(ctx context.Context, cookID uuid.UUID, req dishes.CreateDishRequest) (*dishes.DishDTO, error) {
	return s.dish, s.err
}

func (s *stubDishService) Update(ctx context.Context, cookID, dishID uuid.UUID, req dishes.UpdateDishRequest) (*dishes.DishDTO, error) {
	return s.dish, s.err
}

func (s *stubDishService) Delete(ctx context.Context, cookID, dishID uuid.UUID) error {
	return s.err
}

func TestDishListForwardsFilters(t *testing.T) {
	svc := &stubDishService{listResult: &dishes.ListResult{Items: []dishes.DishDTO{{Name: "Couscous royal"}}}}
	handler := DishList(svc, nil)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/dishes?city=Montreal&limit=10&cursor=abc", nil)
	resp := httptest.NewRecorder()

	handler.ServeHTTP(resp, req)
	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d", resp.Code)
	}
	if svc.lastParams.City != "Montreal" || svc.lastParams.Limit != 10 || svc.lastParams.Cursor != "abc" {
		t.Fatalf("unexpected params %+v", svc.lastParams)
	}

	var envelope struct {
		Data dishes.ListResult `json:"data"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&envelope); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if len(envelope.Data.Items) != 1 || envelope.Data.Items[0].Name != "Couscous royal" {
		t.Fatalf("unexpected payload %+v", envelope.Data.Items)
	}
}

func TestDishListRejectsBadLimit(t *testing.T) {
	handler := DishList(&stubDishService{}, nil)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/dishes?limit=oops", nil)
	resp := httptest.NewRecorder()

	handler.ServeHTTP(resp, req)
	if resp.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 got %d", resp.Code)
	}
}

func TestDishGetAnonymousActor(t *testing.T) {
	svc := &stubDishService{dish: &dishes.DishDTO{ID: uuid.New(), Name: "Tajine"}}
	handler := DishGet(svc, nil)

	rctx := chi.NewRouteContext()
	rctx.URLParams.Add("dishId", svc.dish.ID.String())
	req := httptest.NewRequest(http.MethodGet, "/api/v1/dishes/"+svc.dish.ID.String(), nil)
	req = req.WithContext(context.WithValue(req.Context(), chi.RouteCtxKey, rctx))
	resp := httptest.NewRecorder()

	handler.ServeHTTP(resp, req)
	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d", resp.Code)
	}
	if svc.lastActorID != uuid.Nil {
		t.Fatalf("expected nil actor for anonymous request got %s", svc.lastActorID)
	}
}

func TestDishGetInvalidID(t *testing.T) {
	handler := DishGet(&stubDishService{}, nil)

	rctx := chi.NewRouteContext()
	rctx.URLParams.Add("dishId", "not-a-uuid")
	req := httptest.NewRequest(http.MethodGet, "/api/v1/dishes/not-a-uuid", nil)
	req = req.WithContext(context.WithValue(req.Context(), chi.RouteCtxKey, rctx))
	resp := httptest.NewRecorder()

	handler.ServeHTTP(resp, req)
	if resp.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 got %d", resp.Code)
	}
}

func TestDishCreateSuccess(t *testing.T) {
	cookID := uuid.New()
	svc := &stubDishService{dish: &dishes.DishDTO{ID: uuid.New(), CookID: cookID, Name: "Harira", Price: "8.50"}}
	handler := DishCreate(svc, nil)

	body := []byte(`{"name":"Harira","price":"8.50","stock":4,"city":"Montreal"}`)
	req := httptest.NewRequest(http.MethodPost, "/api/v1/dishes", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	req = req.WithContext(middleware.WithUserID(req.Context(), cookID.String()))
	resp := httptest.NewRecorder()

	handler.ServeHTTP(resp, req)
	if resp.Code != http.StatusCreated {
		t.Fatalf("expected 201 got %d", resp.Code)
	}
}

func TestDishCreateRequiresAuth(t *testing.T) {
	handler := DishCreate(&stubDishService{}, nil)

	req := httptest.NewRequest(http.MethodPost, "/api/v1/dishes", bytes.NewReader([]byte(`{"name":"Harira","price":"8.50"}`)))
	req.Header.Set("Content-Type", "application/json")
	resp := httptest.NewRecorder()

	handler.ServeHTTP(resp, req)
	if resp.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 got %d", resp.Code)
	}
}

func TestDishCreateInvalidPayload(t *testing.T) {
	handler := DishCreate(&stubDishService{}, nil)

	req := httptest.NewRequest(http.MethodPost, "/api/v1/dishes", bytes.NewReader([]byte(`{"name":"Harira"}`)))
	req.Header.Set("Content-Type", "application/json")
	req = req.WithContext(middleware.WithUserID(req.Context(), uuid.NewString()))
	resp := httptest.NewRecorder()

	handler.ServeHTTP(resp, req)
	if resp.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 got %d", resp.Code)
	}
}
