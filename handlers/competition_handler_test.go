package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/contestly/competition-hub/models"
	"github.com/contestly/competition-hub/services"
	"github.com/contestly/competition-hub/storage"
	"github.com/go-chi/chi/v5"
)

type stubCompetitionService struct {
	listFn func(ctx context.Context, filter services.CompetitionFilter) ([]models.Competition, error)
	getFn  func(ctx context.Context, id int) (*models.Competition, error)
	seedFn func(ctx context.Context) ([]models.Competition, error)
}

func (s *stubCompetitionService) Create(ctx context.Context, input services.CompetitionInput) (*models.Competition, error) {
	return nil, services.ErrCompetitionFieldsRequired
}

func (s *stubCompetitionService) Update(ctx context.Context, id int, input services.CompetitionInput) (*models.Competition, error) {
	return nil, services.ErrCompetitionNotFound
}

func (s *stubCompetitionService) Archive(ctx context.Context, id int) (*models.Competition, error) {
	return nil, services.ErrCompetitionNotFound
}

func (s *stubCompetitionService) Delete(ctx context.Context, id int) error {
	return services.ErrCompetitionNotFound
}

func (s *stubCompetitionService) Get(ctx context.Context, id int) (*models.Competition, error) {
	return s.getFn(ctx, id)
}

func (s *stubCompetitionService) List(ctx context.Context, filter services.CompetitionFilter) ([]models.Competition, error) {
	return s.listFn(ctx, filter)
}

func (s *stubCompetitionService) Seed(ctx context.Context) ([]models.Competition, error) {
	return s.seedFn(ctx)
}

func (s *stubCompetitionService) UploadImage(ctx context.Context, id int, file storage.UploadFile) (*models.Competition, error) {
	return nil, services.ErrCompetitionNotFound
}

func newCompetitionRouter(svc services.CompetitionService) *chi.Mux {
	h := NewCompetitionHandler(svc)
	r := chi.NewRouter()
	r.Get("/competitions", h.ListHandler)
	r.Get("/competitions/{competitionID}", h.GetByIDHandler)
	r.Post("/admin/seed", h.SeedHandler)
	return r
}

func TestListHandlerParsesFilterParams(t *testing.T) {
	var captured services.CompetitionFilter
	svc := &stubCompetitionService{
		listFn: func(ctx context.Context, filter services.CompetitionFilter) ([]models.Competition, error) {
			captured = filter
			return []models.Competition{{ID: 1, Title: "One"}}, nil
		},
	}
	router := newCompetitionRouter(svc)

	req := httptest.NewRequest(http.MethodGet,
		"/competitions?search=logo&categories=Design,Writing&types=Skill&requirements=Free&requirements=Email&status=active", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200: %s", rec.Code, rec.Body.String())
	}
	if captured.Search != "logo" {
		t.Errorf("search = %q, want logo", captured.Search)
	}
	if len(captured.Categories) != 2 || captured.Categories[0] != "Design" || captured.Categories[1] != "Writing" {
		t.Errorf("categories = %v, want [Design Writing]", captured.Categories)
	}
	if len(captured.Requirements) != 2 {
		t.Errorf("requirements = %v, want two tokens", captured.Requirements)
	}
	if captured.Status == nil || *captured.Status != models.CompetitionActive {
		t.Errorf("status = %v, want active", captured.Status)
	}

	var body struct {
		Competitions []models.Competition `json:"competitions"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode body: %v", err)
	}
	if len(body.Competitions) != 1 || body.Competitions[0].Title != "One" {
		t.Errorf("body = %+v, want the stubbed competition", body)
	}
}

func TestListHandlerRejectsUnknownStatus(t *testing.T) {
	router := newCompetitionRouter(&stubCompetitionService{
		listFn: func(ctx context.Context, filter services.CompetitionFilter) ([]models.Competition, error) {
			t.Fatal("List must not be called for an invalid status")
			return nil, nil
		},
	})

	req := httptest.NewRequest(http.MethodGet, "/competitions?status=paused", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", rec.Code)
	}
}

func TestServiceErrorStatusMapping(t *testing.T) {
	router := newCompetitionRouter(&stubCompetitionService{
		getFn: func(ctx context.Context, id int) (*models.Competition, error) {
			return nil, services.ErrCompetitionNotFound
		},
		seedFn: func(ctx context.Context) ([]models.Competition, error) {
			return nil, services.ErrAlreadySeeded
		},
	})

	req := httptest.NewRequest(http.MethodGet, "/competitions/7", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	if rec.Code != http.StatusNotFound {
		t.Errorf("missing competition status = %d, want 404", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), "error") {
		t.Errorf("error body = %s, want an error envelope", rec.Body.String())
	}

	req = httptest.NewRequest(http.MethodPost, "/admin/seed", nil)
	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	if rec.Code != http.StatusConflict {
		t.Errorf("repeat seed status = %d, want 409", rec.Code)
	}

	req = httptest.NewRequest(http.MethodGet, "/competitions/not-a-number", nil)
	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	if rec.Code != http.StatusBadRequest {
		t.Errorf("bad id status = %d, want 400", rec.Code)
	}
}
