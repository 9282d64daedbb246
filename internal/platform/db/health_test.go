package db

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/labstack/echo/v4"
)

func TestHealthHandler_MemoryBackend(t *testing.T) {
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/health/db", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	if err := HealthHandler(nil)(c); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Errorf("expected 200, got %d", rec.Code)
	}

	var body map[string]interface{}
	json.Unmarshal(rec.Body.Bytes(), &body)
	if body["backend"] != "memory" {
		t.Errorf("expected memory backend, got %v", body["backend"])
	}
}

func TestConstraintViolated(t *testing.T) {
	err := &pgconn.PgError{Code: UniqueViolation, ConstraintName: "accounts_phone_key"}
	wrapped := errors.Join(errors.New("insert account"), err)

	if !ConstraintViolated(wrapped, UniqueViolation, "accounts_phone_key") {
		t.Error("expected wrapped unique violation to match")
	}
	if !ConstraintViolated(err, UniqueViolation, "") {
		t.Error("expected empty constraint to match any")
	}
	if ConstraintViolated(err, UniqueViolation, "other_key") {
		t.Error("expected constraint name mismatch")
	}
	if ConstraintViolated(err, ForeignKeyViolation, "") {
		t.Error("expected code mismatch")
	}
	if ConstraintViolated(errors.New("plain"), UniqueViolation, "") {
		t.Error("plain errors never match")
	}
}
