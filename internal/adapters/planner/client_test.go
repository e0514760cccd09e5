package planner

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/daywise/core/internal/infrastructure/config"
	"github.com/daywise/core/internal/infrastructure/logger"
	"github.com/daywise/core/internal/scheduling"
)

func TestStripCodeFence(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{name: "plain", input: `{"a":1}`, want: `{"a":1}`},
		{name: "json fence", input: "```json\n{\"a\":1}\n```", want: `{"a":1}`},
		{name: "bare fence", input: "```\n{\"a\":1}\n```", want: `{"a":1}`},
		{name: "whitespace", input: "  {\"a\":1}  ", want: `{"a":1}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := stripCodeFence(tt.input); got != tt.want {
				t.Errorf("stripCodeFence(%q): got %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}

func TestBuildUserPromptIncludesTasks(t *testing.T) {
	req := scheduling.Request{Tasks: []scheduling.TaskInput{
		{Name: "Write report", Importance: "high", EstimatedTime: 90, Deadline: "2026-09-01T17:00:00Z"},
		{Name: "Email follow-ups", Importance: "low", EstimatedTime: 30},
	}}

	prompt, err := buildUserPrompt(req)
	if err != nil {
		t.Fatalf("buildUserPrompt failed: %v", err)
	}

	for _, want := range []string{"Write report", "Email follow-ups", "90 minutes", "2026-09-01T17:00:00Z", "Input JSON:"} {
		if !strings.Contains(prompt, want) {
			t.Errorf("prompt missing %q", want)
		}
	}
}

func TestSystemPromptReturnLogic(t *testing.T) {
	// The model must be told to return the partial schedule with
	// isPossible=true when only some tasks fit, and to reserve
	// isPossible=false for when nothing can be placed at all.
	for _, want := range []string{
		"Fit as many tasks as possible",
		"partial schedule",
		`still with "isPossible": true`,
		"not a single task can be placed",
	} {
		if !strings.Contains(systemPrompt, want) {
			t.Errorf("system prompt missing %q", want)
		}
	}
}

func TestSuggestParsesChatResponse(t *testing.T) {
	scheduleJSON := `{"schedule":[{"name":"a","startTime":"09:00","endTime":"10:00"}],"isPossible":true}`

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/chat/completions" {
			t.Errorf("path: got %q", r.URL.Path)
		}
		if got := r.Header.Get("Authorization"); got != "Bearer test-key" {
			t.Errorf("authorization header: got %q", got)
		}

		var body map[string]interface{}
		if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
			t.Errorf("request body not JSON: %v", err)
		}
		if body["model"] != "test-model" {
			t.Errorf("model: got %v", body["model"])
		}

		json.NewEncoder(w).Encode(map[string]interface{}{
			"choices": []map[string]interface{}{
				{"message": map[string]string{"content": "```json\n" + scheduleJSON + "\n```"}},
			},
		})
	}))
	defer srv.Close()

	client := NewClient(config.PlannerConfig{
		BaseURL: srv.URL,
		APIKey:  "test-key",
		Model:   "test-model",
		Timeout: 5 * time.Second,
	}, logger.NewNop())

	raw, err := client.Suggest(context.Background(), scheduling.Request{Tasks: []scheduling.TaskInput{{Name: "a", EstimatedTime: 60}}})
	if err != nil {
		t.Fatalf("Suggest failed: %v", err)
	}
	if string(raw) != scheduleJSON {
		t.Errorf("raw payload: got %s", raw)
	}
}

func TestSuggestSurfacesAPIError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTooManyRequests)
		w.Write([]byte(`{"error":{"message":"rate limited","type":"rate_limit"}}`))
	}))
	defer srv.Close()

	client := NewClient(config.PlannerConfig{BaseURL: srv.URL, Model: "m", Timeout: 5 * time.Second}, logger.NewNop())

	_, err := client.Suggest(context.Background(), scheduling.Request{Tasks: []scheduling.TaskInput{{Name: "a", EstimatedTime: 60}}})
	if err == nil {
		t.Fatal("expected error for non-200 response")
	}
}
