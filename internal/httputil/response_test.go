package httputil

import (
	"encoding/json"
	"net/http/httptest"
	"strings"
	"testing"
)

func TestWriteJSONEnvelope(t *testing.T) {
	rec := httptest.NewRecorder()
	WriteJSON(rec, 200, map[string]int{"n": 3})

	if ct := rec.Header().Get("Content-Type"); ct != "application/json" {
		t.Errorf("content type = %q", ct)
	}
	var resp Response
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("invalid json: %v", err)
	}
	if !resp.Success || resp.Error != "" {
		t.Errorf("envelope = %+v", resp)
	}
}

func TestWriteErrorEnvelope(t *testing.T) {
	rec := httptest.NewRecorder()
	WriteError(rec, 404, "content not found")

	if rec.Code != 404 {
		t.Errorf("status = %d", rec.Code)
	}
	var resp Response
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("invalid json: %v", err)
	}
	if resp.Success || resp.Error != "content not found" {
		t.Errorf("envelope = %+v", resp)
	}
	if resp.Data != nil {
		t.Errorf("error envelope should omit data, got %v", resp.Data)
	}
}

func TestReadJSON(t *testing.T) {
	req := httptest.NewRequest("POST", "/", strings.NewReader(`{"name":"ok"}`))
	var body struct {
		Name string `json:"name"`
	}
	if err := ReadJSON(req, &body); err != nil {
		t.Fatalf("ReadJSON: %v", err)
	}
	if body.Name != "ok" {
		t.Errorf("name = %q", body.Name)
	}

	req = httptest.NewRequest("POST", "/", strings.NewReader(`{broken`))
	if err := ReadJSON(req, &body); err == nil {
		t.Error("malformed body should error")
	}
}
