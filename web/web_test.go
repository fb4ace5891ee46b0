package web

import (
	"io"
	"io/fs"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

func TestHandler(t *testing.T) {
	tests := []struct {
		path        string
		wantStatus  int
		wantContent string
	}{
		{"/", http.StatusOK, `id="ingredients"`},
		{"/scripts/app.js", http.StatusOK, "/api/axios/recipes"},
		{"/styles/main.css", http.StatusOK, "--i"},
		{"/missing.js", http.StatusNotFound, ""},
	}

	h := Handler()
	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			rr := httptest.NewRecorder()
			h.ServeHTTP(rr, httptest.NewRequest("GET", tt.path, nil))

			if rr.Code != tt.wantStatus {
				t.Fatalf("expected status %d, got %d", tt.wantStatus, rr.Code)
			}
			body, _ := io.ReadAll(rr.Body)
			if !strings.Contains(string(body), tt.wantContent) {
				t.Errorf("expected body to contain %q", tt.wantContent)
			}
		})
	}
}

// Text check only; the submit cycle itself is exercised by the kitchen.Controller tests.
func TestAppScript_ContainsAnswerAndReenableBranches(t *testing.T) {
	data, err := fs.ReadFile(Static(), "scripts/app.js")
	if err != nil {
		t.Fatalf("read app.js: %v", err)
	}
	script := string(data)

	for _, want := range []string{`trimmed === "false"`, "finally", "ingredients.disabled = false", `"--i"`} {
		if !strings.Contains(script, want) {
			t.Errorf("app.js is missing %q", want)
		}
	}
}
