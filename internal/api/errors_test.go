package api

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/KrishnaGrg1/Roamly-Backend/internal/middleware"
)

func TestWriteError(t *testing.T) {
	rr := httptest.NewRecorder()
	ctx := context.Background()

	WriteError(rr, ctx, http.StatusNotFound, ErrCodeNotFound, "post not found")

	if rr.Code != http.StatusNotFound {
		t.Fatalf("status = %d, want 404", rr.Code)
	}
	if ct := rr.Header().Get("Content-Type"); ct != "application/json; charset=utf-8" {
		t.Errorf("Content-Type = %q, want application/json", ct)
	}

	var resp ErrorResponse
	if err := json.Unmarshal(rr.Body.Bytes(), &resp); err != nil {
		t.Fatalf("failed to decode body: %v", err)
	}
	if resp.Error.Code != ErrCodeNotFound {
		t.Errorf("code = %q, want %q", resp.Error.Code, ErrCodeNotFound)
	}
	if resp.Error.Message != "post not found" {
		t.Errorf("message = %q, want %q", resp.Error.Message, "post not found")
	}
}

func TestWriteErrorSetsContextCode(t *testing.T) {
	rr := httptest.NewRecorder()
	ctx := middleware.SetErrorCode(context.Background(), "")

	WriteError(rr, ctx, http.StatusBadRequest, ErrCodeValidation, "limit must be a number")

	if got := middleware.GetErrorCode(ctx); got != ErrCodeValidation {
		t.Errorf("error code in context = %q, want %q", got, ErrCodeValidation)
	}
}

func TestWriteJSON(t *testing.T) {
	rr := httptest.NewRecorder()

	WriteJSON(rr, context.Background(), http.StatusCreated, map[string]string{"id": "abc"})

	if rr.Code != http.StatusCreated {
		t.Fatalf("status = %d, want 201", rr.Code)
	}
	var body map[string]string
	if err := json.Unmarshal(rr.Body.Bytes(), &body); err != nil {
		t.Fatalf("failed to decode body: %v", err)
	}
	if body["id"] != "abc" {
		t.Errorf("id = %q, want abc", body["id"])
	}
}
