package http

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"testing"
)

func TestCreateRoomEndpoint(t *testing.T) {
	ts, _, st := startTestServer(t)

	resp, err := ts.Client().Post(ts.URL+"/api/rooms", "application/json", nil)
	if err != nil {
		t.Fatalf("create room request failed: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("expected status 201, got %d", resp.StatusCode)
	}

	var created CreateRoomResponse
	if err := json.NewDecoder(resp.Body).Decode(&created); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if len(created.RoomID) != 8 {
		t.Errorf("expected 8-char room id, got %q", created.RoomID)
	}

	exists, err := st.Exists(context.Background(), created.RoomID)
	if err != nil {
		t.Fatalf("exists: %v", err)
	}
	if !exists {
		t.Error("created room should be persisted")
	}
}

func TestGetRoomEndpoint(t *testing.T) {
	ts, _, st := startTestServer(t)

	room, err := st.CreateRoom(context.Background())
	if err != nil {
		t.Fatalf("create room: %v", err)
	}
	if err := st.UpdateCode(context.Background(), room.RoomID, "print(1)"); err != nil {
		t.Fatalf("update code: %v", err)
	}

	resp, err := ts.Client().Get(ts.URL + "/api/rooms/" + room.RoomID)
	if err != nil {
		t.Fatalf("get room request failed: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected status 200, got %d", resp.StatusCode)
	}

	var got RoomResponse
	if err := json.NewDecoder(resp.Body).Decode(&got); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if got.RoomID != room.RoomID {
		t.Errorf("expected roomId %q, got %q", room.RoomID, got.RoomID)
	}
	if got.Code != "print(1)" {
		t.Errorf("expected code 'print(1)', got %q", got.Code)
	}

	// Unknown room returns 404.
	resp2, err := ts.Client().Get(ts.URL + "/api/rooms/nonexist1")
	if err != nil {
		t.Fatalf("get unknown room request failed: %v", err)
	}
	defer resp2.Body.Close()

	if resp2.StatusCode != http.StatusNotFound {
		t.Errorf("expected status 404, got %d", resp2.StatusCode)
	}
}

func TestAutocompleteEndpoint(t *testing.T) {
	ts, _, _ := startTestServer(t)

	body := bytes.NewBufferString(`{"code":"x = 1","cursorPosition":5,"language":"python"}`)
	resp, err := ts.Client().Post(ts.URL+"/api/autocomplete", "application/json", body)
	if err != nil {
		t.Fatalf("autocomplete request failed: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected status 200, got %d", resp.StatusCode)
	}

	var got AutocompleteResponse
	if err := json.NewDecoder(resp.Body).Decode(&got); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if got.Suggestion != "# AI generated code here" {
		t.Errorf("unexpected suggestion %q", got.Suggestion)
	}
	if got.Confidence != 0.85 {
		t.Errorf("unexpected confidence %v", got.Confidence)
	}
}

func TestAutocompleteValidation(t *testing.T) {
	ts, _, _ := startTestServer(t)

	tests := []struct {
		name string
		body string
	}{
		{"missing cursorPosition", `{"code":"x","language":"python"}`},
		{"negative cursorPosition", `{"code":"x","cursorPosition":-1,"language":"python"}`},
		{"missing language", `{"code":"x","cursorPosition":0}`},
		{"not json", `{{{`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp, err := ts.Client().Post(ts.URL+"/api/autocomplete", "application/json", bytes.NewBufferString(tt.body))
			if err != nil {
				t.Fatalf("request failed: %v", err)
			}
			defer resp.Body.Close()

			if resp.StatusCode != http.StatusBadRequest {
				t.Errorf("expected status 400, got %d", resp.StatusCode)
			}
		})
	}
}

func TestAutocompleteCursorZeroAllowed(t *testing.T) {
	ts, _, _ := startTestServer(t)

	body := bytes.NewBufferString(`{"code":"","cursorPosition":0,"language":"go"}`)
	resp, err := ts.Client().Post(ts.URL+"/api/autocomplete", "application/json", body)
	if err != nil {
		t.Fatalf("request failed: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		t.Fatalf("cursorPosition 0 must be valid, got status %d", resp.StatusCode)
	}
}

func TestHealthEndpoints(t *testing.T) {
	ts, _, _ := startTestServer(t)

	for _, path := range []string{"/", "/health"} {
		resp, err := ts.Client().Get(ts.URL + path)
		if err != nil {
			t.Fatalf("request %s failed: %v", path, err)
		}
		resp.Body.Close()

		if resp.StatusCode != http.StatusOK {
			t.Errorf("%s: expected status 200, got %d", path, resp.StatusCode)
		}
	}
}
