// Package planner implements the external scheduler against an
// OpenAI-compatible chat completions endpoint. Its output is untrusted raw
// JSON; callers are expected to run it through the scheduling validator.
package planner

import (
	"bytes"
	"encoding/json"
	"fmt"
	"text/template"

	"github.com/daywise/core/internal/scheduling"
)

const systemPrompt = `You are an expert day planner. Given a list of tasks, create an optimal schedule for a single day.

Rules:
- Order tasks chronologically. Earlier deadlines and higher importance come first.
- All times use 24-hour "HH:MM" format, for example "09:00" or "14:30".
- Assume a working day from 09:00 to 17:00 unless deadlines require going beyond it.
- Fit as many tasks as possible.
- Insert short breaks of 10 to 15 minutes between long stretches of work. Name them "Break".
- Every task's scheduled slot must cover its estimated duration in minutes.

Respond with a single JSON object and nothing else, in this exact shape:
{"schedule": [{"name": "...", "startTime": "HH:MM", "endTime": "HH:MM"}], "isPossible": true}

Return logic:
- If every task fits, return the full schedule with "isPossible": true.
- If only some tasks fit, return the partial schedule of those that do fit, still with "isPossible": true.
- Only when not a single task can be placed (for example, one task alone is longer than the day), return:
{"schedule": [], "isPossible": false, "error": "a short explanation of why nothing could be scheduled"}`

const userPromptTemplate = `Create an optimal schedule for the following tasks:

{{range .Tasks}}- {{.Name}} (importance: {{.Importance}}, estimated: {{.EstimatedTime}} minutes{{if .Deadline}}, deadline: {{.Deadline}}{{end}}){{if .Description}}
  {{.Description}}{{end}}
{{end}}`

var userTmpl = template.Must(template.New("user").Parse(userPromptTemplate))

// buildUserPrompt renders the task list into the user message. Task fields are
// also attached verbatim as JSON so the model sees the exact input contract.
func buildUserPrompt(req scheduling.Request) (string, error) {
	var buf bytes.Buffer
	if err := userTmpl.Execute(&buf, req); err != nil {
		return "", fmt.Errorf("render prompt: %w", err)
	}

	raw, err := json.Marshal(req)
	if err != nil {
		return "", fmt.Errorf("marshal request: %w", err)
	}
	buf.WriteString("\nInput JSON:\n")
	buf.Write(raw)

	return buf.String(), nil
}
