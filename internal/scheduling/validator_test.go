package scheduling

import (
	"encoding/json"
	"testing"

	"github.com/daywise/core/internal/infrastructure/logger"
)

func newTestValidator(opts ...ValidatorOption) *Validator {
	return NewValidator(logger.NewNop(), opts...)
}

func TestValidateAcceptsWellFormedSchedule(t *testing.T) {
	raw := json.RawMessage(`{
		"schedule": [
			{"name": "Write report", "startTime": "09:00", "endTime": "10:30"},
			{"name": "Break", "startTime": "10:30", "endTime": "10:45"}
		],
		"isPossible": true
	}`)

	got := newTestValidator().Validate(raw)

	if !got.IsPossible {
		t.Error("isPossible: got false")
	}
	if got.Error != "" {
		t.Errorf("error: got %q, want empty", got.Error)
	}
	if len(got.Items) != 2 {
		t.Fatalf("items: got %d, want 2", len(got.Items))
	}
	if got.Items[0].Name != "Write report" || got.Items[1].Name != "Break" {
		t.Errorf("item names: got %q, %q", got.Items[0].Name, got.Items[1].Name)
	}
}

func TestValidateAcceptsExplicitFailure(t *testing.T) {
	raw := json.RawMessage(`{"schedule": [], "isPossible": false, "error": "tasks exceed one day"}`)

	got := newTestValidator().Validate(raw)

	if got.IsPossible {
		t.Error("isPossible: got true")
	}
	if got.Error != "tasks exceed one day" {
		t.Errorf("error: got %q", got.Error)
	}
	if len(got.Items) != 0 {
		t.Errorf("items: got %d, want 0", len(got.Items))
	}
}

func TestValidateRejectsMalformedPayloads(t *testing.T) {
	tests := []struct {
		name string
		raw  string
	}{
		{name: "not json", raw: `the model rambled instead of returning JSON`},
		{name: "missing isPossible", raw: `{"schedule": []}`},
		{name: "missing schedule", raw: `{"isPossible": true}`},
		{name: "schedule not array", raw: `{"schedule": "none", "isPossible": true}`},
		{name: "item missing name", raw: `{"schedule": [{"startTime": "09:00", "endTime": "10:00"}], "isPossible": true}`},
		{name: "non-padded hour", raw: `{"schedule": [{"name": "a", "startTime": "9:00", "endTime": "10:00"}], "isPossible": true}`},
		{name: "hour out of range", raw: `{"schedule": [{"name": "a", "startTime": "24:00", "endTime": "25:00"}], "isPossible": true}`},
		{name: "start after end", raw: `{"schedule": [{"name": "a", "startTime": "11:00", "endTime": "09:00"}], "isPossible": true}`},
		{name: "start equals end", raw: `{"schedule": [{"name": "a", "startTime": "09:00", "endTime": "09:00"}], "isPossible": true}`},
		{name: "impossible but has items", raw: `{"schedule": [{"name": "a", "startTime": "09:00", "endTime": "10:00"}], "isPossible": false}`},
		{name: "isPossible as string", raw: `{"schedule": [], "isPossible": "yes"}`},
	}

	v := newTestValidator()
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := v.Validate(json.RawMessage(tt.raw))

			if got.IsPossible {
				t.Error("rejected payload produced isPossible=true")
			}
			if got.Error == "" {
				t.Error("rejected payload produced no error message")
			}
			if got.Items == nil || len(got.Items) != 0 {
				t.Errorf("rejected payload items: got %#v, want empty slice", got.Items)
			}
		})
	}
}

func TestValidateDiscardsPlannerSuppliedIDs(t *testing.T) {
	raw := json.RawMessage(`{
		"schedule": [
			{"id": "evil", "name": "a", "startTime": "09:00", "endTime": "10:00"},
			{"id": "evil", "name": "b", "startTime": "10:00", "endTime": "11:00"}
		],
		"isPossible": true
	}`)

	got := newTestValidator().Validate(raw)
	if len(got.Items) != 2 {
		t.Fatalf("items: got %d, want 2", len(got.Items))
	}
	for i, item := range got.Items {
		if item.ID != "" {
			t.Errorf("item %d kept planner-supplied id %q", i, item.ID)
		}
	}

	// Reconciliation after validation assigns fresh, distinct ids.
	reconciled := Reconcile(got)
	if reconciled.Items[0].ID == "" || reconciled.Items[0].ID == "evil" {
		t.Errorf("item 0 id after reconcile: %q", reconciled.Items[0].ID)
	}
	if reconciled.Items[0].ID == reconciled.Items[1].ID {
		t.Errorf("duplicate ids after reconcile: %q", reconciled.Items[0].ID)
	}
}

func TestValidateRejectionIsConsistent(t *testing.T) {
	got := newTestValidator().Validate(json.RawMessage(`not json`))
	if !got.Consistent() {
		t.Error("canonical failure schedule violates its own invariant")
	}
}

func TestValidateNilItemsBecomeEmptySlice(t *testing.T) {
	got := newTestValidator().Validate(json.RawMessage(`{"schedule": [], "isPossible": true}`))
	if got.Items == nil {
		t.Error("items: got nil, want empty slice")
	}
}

func TestValidateStrictOrdering(t *testing.T) {
	outOfOrder := json.RawMessage(`{
		"schedule": [
			{"name": "b", "startTime": "11:00", "endTime": "12:00"},
			{"name": "a", "startTime": "09:00", "endTime": "10:00"}
		],
		"isPossible": true
	}`)
	overlapping := json.RawMessage(`{
		"schedule": [
			{"name": "a", "startTime": "09:00", "endTime": "10:30"},
			{"name": "b", "startTime": "10:00", "endTime": "11:00"}
		],
		"isPossible": true
	}`)

	// Default mode tolerates both, as long as each item is well formed.
	lenient := newTestValidator()
	if got := lenient.Validate(outOfOrder); !got.IsPossible {
		t.Error("default mode rejected out-of-order items")
	}
	if got := lenient.Validate(overlapping); !got.IsPossible {
		t.Error("default mode rejected overlapping items")
	}

	strict := newTestValidator(WithStrictOrdering())
	if got := strict.Validate(outOfOrder); got.IsPossible {
		t.Error("strict mode accepted out-of-order items")
	}
	if got := strict.Validate(overlapping); got.IsPossible {
		t.Error("strict mode accepted overlapping items")
	}

	backToBack := json.RawMessage(`{
		"schedule": [
			{"name": "a", "startTime": "09:00", "endTime": "10:00"},
			{"name": "b", "startTime": "10:00", "endTime": "11:00"}
		],
		"isPossible": true
	}`)
	if got := strict.Validate(backToBack); !got.IsPossible {
		t.Error("strict mode rejected back-to-back items")
	}
}

func TestFailureShape(t *testing.T) {
	got := Failure("planner unreachable")

	if got.IsPossible {
		t.Error("isPossible: got true")
	}
	if got.Error != "planner unreachable" {
		t.Errorf("error: got %q", got.Error)
	}
	if got.Items == nil || len(got.Items) != 0 {
		t.Errorf("items: got %#v, want empty slice", got.Items)
	}
	if !got.Consistent() {
		t.Error("failure schedule violates the cross-field invariant")
	}
}
