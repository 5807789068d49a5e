package responses

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	pkgerrors "github.com/kisanbazar/kisanbazar-backend/pkg/errors"
	"github.com/kisanbazar/kisanbazar-backend/pkg/types"
)

func TestWriteSuccess(t *testing.T) {
	w := httptest.NewRecorder()
	WriteSuccess(w, map[string]string{"hello": "world"})

	if got := w.Code; got != http.StatusOK {
		t.Fatalf("expected status 200 but got %d", got)
	}

	var body types.SuccessEnvelope
	if err := json.NewDecoder(w.Body).Decode(&body); err != nil {
		t.Fatalf("failed to decode success envelope: %v", err)
	}
	if !body.Success {
		t.Fatalf("expected success true")
	}
	if body.Data.(map[string]any)["hello"] != "world" {
		t.Fatalf("unexpected payload %v", body.Data)
	}
	if body.Count != nil {
		t.Fatalf("count should be omitted for non-list responses")
	}
}

func TestWriteListSetsCount(t *testing.T) {
	w := httptest.NewRecorder()
	WriteList(w, []string{"a", "b", "c"}, 3)

	var body types.SuccessEnvelope
	if err := json.NewDecoder(w.Body).Decode(&body); err != nil {
		t.Fatalf("failed to decode success envelope: %v", err)
	}
	if body.Count == nil || *body.Count != 3 {
		t.Fatalf("expected count 3, got %v", body.Count)
	}
}

func TestWriteErrorMapsTypedError(t *testing.T) {
	w := httptest.NewRecorder()
	err := pkgerrors.New(pkgerrors.CodeValidation, "bad input").
		WithDetails(map[string]string{"field": "demo"})
	WriteError(context.Background(), nil, w, err)

	if got := w.Code; got != http.StatusBadRequest {
		t.Fatalf("expected status 400 but got %d", got)
	}

	var body types.ErrorEnvelope
	if err := json.NewDecoder(w.Body).Decode(&body); err != nil {
		t.Fatalf("failed to decode error envelope: %v", err)
	}
	if body.Success {
		t.Fatalf("expected success false")
	}
	if body.Error != string(pkgerrors.CodeValidation) {
		t.Fatalf("unexpected code %s", body.Error)
	}
	if body.Message != "bad input" {
		t.Fatalf("unexpected message %q", body.Message)
	}
	if body.Details == nil {
		t.Fatalf("expected details in public payload")
	}
}

func TestWriteErrorDefaultsToInternalForUntrustedErrors(t *testing.T) {
	w := httptest.NewRecorder()
	WriteError(context.Background(), nil, w, errors.New("boom"))

	if got := w.Code; got != http.StatusInternalServerError {
		t.Fatalf("expected status 500 but got %d", got)
	}

	var body types.ErrorEnvelope
	if err := json.NewDecoder(w.Body).Decode(&body); err != nil {
		t.Fatalf("failed to decode error envelope: %v", err)
	}
	if body.Error != string(pkgerrors.CodeInternal) {
		t.Fatalf("unexpected code %s", body.Error)
	}
	if body.Message != "internal server error" {
		t.Fatalf("internal message should not leak cause, got %q", body.Message)
	}
	if body.Details != nil {
		t.Fatalf("details should be omitted for internal errors")
	}
}
