package handler_test

import (
	"bytes"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"

	"github.com/repocat/repocat/internal/auth"
	"github.com/repocat/repocat/internal/handler"
	"github.com/repocat/repocat/internal/handler/dto"
	"github.com/repocat/repocat/internal/service"
	"github.com/repocat/repocat/internal/testutil"
)

// newCatalogRouter builds a router around a memory-backed catalog with a
// stub identity middleware that trusts the X-Test-User header.
func newCatalogRouter(t *testing.T) *chi.Mux {
	t.Helper()

	st := testutil.NewMemStore()
	svc := service.NewCatalogService(st, nil, nil)
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	h := handler.NewCatalogHandler(svc, logger)

	r := chi.NewRouter()
	r.Route("/api/v1", func(r chi.Router) {
		r.Use(func(next http.Handler) http.Handler {
			return http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
				if user := req.Header.Get("X-Test-User"); user != "" {
					req = req.WithContext(auth.ContextWithIdentity(req.Context(), user))
				}
				next.ServeHTTP(w, req)
			})
		})
		r.Route("/repositories", func(r chi.Router) {
			r.Get("/", h.List)
			r.Post("/", h.Create)
			r.Get("/{id}", h.Get)
			r.Patch("/{id}", h.Update)
			r.Delete("/{id}", h.Delete)
		})
	})

	return r
}

func doJSON(t *testing.T, r http.Handler, method, path, user string, body any) *httptest.ResponseRecorder {
	t.Helper()

	var reader io.Reader
	if body != nil {
		buf, err := json.Marshal(body)
		if err != nil {
			t.Fatalf("marshal body: %v", err)
		}
		reader = bytes.NewReader(buf)
	}

	req := httptest.NewRequest(method, path, reader)
	if user != "" {
		req.Header.Set("X-Test-User", user)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	return rec
}

func decodeBody[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var out T
	if err := json.Unmarshal(rec.Body.Bytes(), &out); err != nil {
		t.Fatalf("decode response %q: %v", rec.Body.String(), err)
	}
	return out
}

func TestCatalogHandler_List_Empty(t *testing.T) {
	r := newCatalogRouter(t)

	rec := doJSON(t, r, http.MethodGet, "/api/v1/repositories", "user-1", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want %d", rec.Code, http.StatusOK)
	}

	resp := decodeBody[dto.RepositoryListResponse](t, rec)
	if resp.Repositories == nil {
		t.Fatal("expected non-nil repositories list")
	}
	if len(resp.Repositories) != 0 {
		t.Fatalf("expected empty list, got %d entries", len(resp.Repositories))
	}
	// The wire form must carry an empty array, not null.
	if !strings.Contains(rec.Body.String(), `"repositories":[]`) {
		t.Errorf("body = %s, want empty array", rec.Body.String())
	}
}

func TestCatalogHandler_Create(t *testing.T) {
	r := newCatalogRouter(t)

	rec := doJSON(t, r, http.MethodPost, "/api/v1/repositories", "user-1", dto.CreateRepositoryRequest{
		Name:        "toolbox",
		Description: testutil.StrPtr("shared tooling"),
	})
	if rec.Code != http.StatusCreated {
		t.Fatalf("status = %d, want %d: %s", rec.Code, http.StatusCreated, rec.Body.String())
	}

	resp := decodeBody[dto.RepositoryResponse](t, rec)
	if resp.ID == "" {
		t.Error("expected generated ID")
	}
	if resp.Owner != "user-1" {
		t.Errorf("owner = %q, want %q", resp.Owner, "user-1")
	}
	if resp.Name != "toolbox" {
		t.Errorf("name = %q, want %q", resp.Name, "toolbox")
	}
	if resp.Version != nil {
		t.Errorf("expected absent version, got %q", *resp.Version)
	}
	// Absent optionals are omitted from the payload entirely.
	if strings.Contains(rec.Body.String(), "version") {
		t.Errorf("body = %s, should omit unset version", rec.Body.String())
	}

	listRec := doJSON(t, r, http.MethodGet, "/api/v1/repositories", "user-1", nil)
	list := decodeBody[dto.RepositoryListResponse](t, listRec)
	if len(list.Repositories) != 1 || list.Repositories[0].ID != resp.ID {
		t.Fatalf("created repository missing from listing: %+v", list.Repositories)
	}
}

func TestCatalogHandler_Create_NameConflict(t *testing.T) {
	r := newCatalogRouter(t)

	first := doJSON(t, r, http.MethodPost, "/api/v1/repositories", "user-1", dto.CreateRepositoryRequest{Name: "toolbox"})
	if first.Code != http.StatusCreated {
		t.Fatalf("first create: status = %d", first.Code)
	}

	second := doJSON(t, r, http.MethodPost, "/api/v1/repositories", "user-1", dto.CreateRepositoryRequest{Name: "toolbox"})
	if second.Code != http.StatusConflict {
		t.Fatalf("duplicate create: status = %d, want %d", second.Code, http.StatusConflict)
	}
	errResp := decodeBody[dto.ErrorResponse](t, second)
	if errResp.Code != "NAME_TAKEN" {
		t.Errorf("code = %q, want NAME_TAKEN", errResp.Code)
	}

	// A different owner may reuse the name.
	other := doJSON(t, r, http.MethodPost, "/api/v1/repositories", "user-2", dto.CreateRepositoryRequest{Name: "toolbox"})
	if other.Code != http.StatusCreated {
		t.Fatalf("cross-owner create: status = %d, want %d", other.Code, http.StatusCreated)
	}
}

func TestCatalogHandler_Create_Invalid(t *testing.T) {
	r := newCatalogRouter(t)

	cases := []struct {
		name string
		body string
	}{
		{"empty name", `{"name":""}`},
		{"whitespace name", `{"name":"   "}`},
		{"malformed json", `{"name":`},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodPost, "/api/v1/repositories", strings.NewReader(tc.body))
			req.Header.Set("X-Test-User", "user-1")
			req.Header.Set("Content-Type", "application/json")
			rec := httptest.NewRecorder()
			r.ServeHTTP(rec, req)

			if rec.Code != http.StatusBadRequest {
				t.Fatalf("status = %d, want %d", rec.Code, http.StatusBadRequest)
			}
		})
	}
}

func TestCatalogHandler_List_OwnerScoped(t *testing.T) {
	r := newCatalogRouter(t)

	doJSON(t, r, http.MethodPost, "/api/v1/repositories", "user-1", dto.CreateRepositoryRequest{Name: "mine"})
	doJSON(t, r, http.MethodPost, "/api/v1/repositories", "user-2", dto.CreateRepositoryRequest{Name: "theirs"})

	rec := doJSON(t, r, http.MethodGet, "/api/v1/repositories?owner=me", "user-1", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want %d", rec.Code, http.StatusOK)
	}
	resp := decodeBody[dto.RepositoryListResponse](t, rec)
	if len(resp.Repositories) != 1 || resp.Repositories[0].Name != "mine" {
		t.Fatalf("expected only the caller's repository, got %+v", resp.Repositories)
	}

	all := decodeBody[dto.RepositoryListResponse](t, doJSON(t, r, http.MethodGet, "/api/v1/repositories", "user-1", nil))
	if len(all.Repositories) != 2 {
		t.Fatalf("expected full catalog of 2, got %d", len(all.Repositories))
	}
}

func TestCatalogHandler_Get(t *testing.T) {
	r := newCatalogRouter(t)

	created := decodeBody[dto.RepositoryResponse](t,
		doJSON(t, r, http.MethodPost, "/api/v1/repositories", "user-1", dto.CreateRepositoryRequest{Name: "toolbox"}))

	rec := doJSON(t, r, http.MethodGet, "/api/v1/repositories/"+created.ID, "user-1", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want %d", rec.Code, http.StatusOK)
	}
	got := decodeBody[dto.RepositoryResponse](t, rec)
	if got.ID != created.ID {
		t.Errorf("ID = %q, want %q", got.ID, created.ID)
	}

	missing := doJSON(t, r, http.MethodGet, "/api/v1/repositories/does-not-exist", "user-1", nil)
	if missing.Code != http.StatusNotFound {
		t.Fatalf("status = %d, want %d", missing.Code, http.StatusNotFound)
	}
	errResp := decodeBody[dto.ErrorResponse](t, missing)
	if errResp.Code != "REPOSITORY_NOT_FOUND" {
		t.Errorf("code = %q, want REPOSITORY_NOT_FOUND", errResp.Code)
	}
}

func TestCatalogHandler_Update(t *testing.T) {
	r := newCatalogRouter(t)

	created := decodeBody[dto.RepositoryResponse](t,
		doJSON(t, r, http.MethodPost, "/api/v1/repositories", "user-1", dto.CreateRepositoryRequest{Name: "toolbox"}))

	rec := doJSON(t, r, http.MethodPatch, "/api/v1/repositories/"+created.ID, "user-1", dto.UpdateRepositoryRequest{
		Name:        testutil.StrPtr("renamed"),
		Description: testutil.StrPtr("now with docs"),
	})
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want %d: %s", rec.Code, http.StatusOK, rec.Body.String())
	}
	updated := decodeBody[dto.RepositoryResponse](t, rec)
	if updated.Name != "renamed" {
		t.Errorf("name = %q, want %q", updated.Name, "renamed")
	}
	if updated.Description == nil || *updated.Description != "now with docs" {
		t.Errorf("description = %v, want %q", updated.Description, "now with docs")
	}

	// Someone else's repository must not be editable.
	forbidden := doJSON(t, r, http.MethodPatch, "/api/v1/repositories/"+created.ID, "user-2", dto.UpdateRepositoryRequest{
		Name: testutil.StrPtr("hijacked"),
	})
	if forbidden.Code != http.StatusForbidden {
		t.Fatalf("status = %d, want %d", forbidden.Code, http.StatusForbidden)
	}
}

func TestCatalogHandler_Update_RenameConflict(t *testing.T) {
	r := newCatalogRouter(t)

	doJSON(t, r, http.MethodPost, "/api/v1/repositories", "user-1", dto.CreateRepositoryRequest{Name: "taken"})
	created := decodeBody[dto.RepositoryResponse](t,
		doJSON(t, r, http.MethodPost, "/api/v1/repositories", "user-1", dto.CreateRepositoryRequest{Name: "other"}))

	rec := doJSON(t, r, http.MethodPatch, "/api/v1/repositories/"+created.ID, "user-1", dto.UpdateRepositoryRequest{
		Name: testutil.StrPtr("taken"),
	})
	if rec.Code != http.StatusConflict {
		t.Fatalf("status = %d, want %d", rec.Code, http.StatusConflict)
	}
}

func TestCatalogHandler_Delete(t *testing.T) {
	r := newCatalogRouter(t)

	created := decodeBody[dto.RepositoryResponse](t,
		doJSON(t, r, http.MethodPost, "/api/v1/repositories", "user-1", dto.CreateRepositoryRequest{Name: "toolbox"}))

	forbidden := doJSON(t, r, http.MethodDelete, "/api/v1/repositories/"+created.ID, "user-2", nil)
	if forbidden.Code != http.StatusForbidden {
		t.Fatalf("status = %d, want %d", forbidden.Code, http.StatusForbidden)
	}

	rec := doJSON(t, r, http.MethodDelete, "/api/v1/repositories/"+created.ID, "user-1", nil)
	if rec.Code != http.StatusNoContent {
		t.Fatalf("status = %d, want %d", rec.Code, http.StatusNoContent)
	}

	gone := doJSON(t, r, http.MethodGet, "/api/v1/repositories/"+created.ID, "user-1", nil)
	if gone.Code != http.StatusNotFound {
		t.Fatalf("status = %d, want %d", gone.Code, http.StatusNotFound)
	}
}
