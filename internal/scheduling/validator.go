package scheduling

import (
	"encoding/json"
	"fmt"
	"sort"

	"github.com/santhosh-tekuri/jsonschema/v5"

	"github.com/daywise/core/internal/domain/entities"
	"github.com/daywise/core/internal/infrastructure/logger"
)

// responseSchema mirrors the planner's output contract. Shape violations are
// caught here before any field is trusted.
const responseSchema = `{
	"type": "object",
	"required": ["schedule", "isPossible"],
	"properties": {
		"schedule": {
			"type": "array",
			"items": {
				"type": "object",
				"required": ["name", "startTime", "endTime"],
				"properties": {
					"name": {"type": "string"},
					"startTime": {"type": "string", "pattern": "^([01][0-9]|2[0-3]):([0-5][0-9])$"},
					"endTime": {"type": "string", "pattern": "^([01][0-9]|2[0-3]):([0-5][0-9])$"}
				}
			}
		},
		"isPossible": {"type": "boolean"},
		"error": {"type": "string"}
	}
}`

var compiledResponseSchema = jsonschema.MustCompileString("schedule-response.json", responseSchema)

// Validator is the single funnel between the untrusted planner output and the
// rest of the system. It never returns an error to the caller: any failure
// collapses to the canonical error schedule.
type Validator struct {
	logger *logger.Logger
	strict bool
}

// ValidatorOption configures a Validator.
type ValidatorOption func(*Validator)

// WithStrictOrdering additionally rejects schedules whose items are not in
// non-decreasing start-time order or whose intervals overlap. The planner is
// asked for chronological output, but the default mode only checks per-item
// shape and tolerates ordering slips.
func WithStrictOrdering() ValidatorOption {
	return func(v *Validator) { v.strict = true }
}

// NewValidator creates a validator for raw planner responses.
func NewValidator(log *logger.Logger, opts ...ValidatorOption) *Validator {
	v := &Validator{logger: log}
	for _, opt := range opts {
		opt(v)
	}
	return v
}

// Failure is the canonical explicit-error schedule substituted for any
// planner or validation failure.
func Failure(diagnostic string) entities.Schedule {
	return entities.Schedule{
		Items:      []entities.ScheduleItem{},
		IsPossible: false,
		Error:      diagnostic,
	}
}

// Validate checks a raw planner payload against the output contract and
// returns a well-formed schedule. On any violation it logs the offending
// payload and returns the canonical error schedule; it never repairs a
// partially valid response.
func (v *Validator) Validate(raw json.RawMessage) entities.Schedule {
	var decoded interface{}
	if err := json.Unmarshal(raw, &decoded); err != nil {
		return v.reject(raw, fmt.Errorf("response is not valid JSON: %w", err))
	}

	if err := compiledResponseSchema.Validate(decoded); err != nil {
		return v.reject(raw, fmt.Errorf("response violates output schema: %w", err))
	}

	var schedule entities.Schedule
	if err := json.Unmarshal(raw, &schedule); err != nil {
		return v.reject(raw, fmt.Errorf("decode response: %w", err))
	}

	for i := range schedule.Items {
		// Item ids are assigned during reconciliation; any the planner sends
		// along are discarded, never trusted.
		schedule.Items[i].ID = ""
		if err := schedule.Items[i].ValidateTimes(); err != nil {
			return v.reject(raw, fmt.Errorf("item %q: %w", schedule.Items[i].Name, err))
		}
	}

	if !schedule.Consistent() {
		return v.reject(raw, fmt.Errorf("schedule reported impossible but contains %d items", len(schedule.Items)))
	}

	if v.strict {
		if err := checkOrdering(schedule.Items); err != nil {
			return v.reject(raw, err)
		}
	}

	if schedule.Items == nil {
		schedule.Items = []entities.ScheduleItem{}
	}

	return schedule
}

func (v *Validator) reject(raw json.RawMessage, cause error) entities.Schedule {
	if v.logger != nil {
		// The raw payload is logged for diagnosis, never surfaced to users.
		v.logger.Warnw("Planner response rejected", "reason", cause.Error(), "payload", string(raw))
	}
	return Failure("scheduler returned an invalid response")
}

// checkOrdering enforces non-decreasing start times and non-overlapping
// [start, end) intervals across items.
func checkOrdering(items []entities.ScheduleItem) error {
	if !sort.SliceIsSorted(items, func(i, j int) bool {
		return items[i].StartTime < items[j].StartTime
	}) {
		return fmt.Errorf("items are not in chronological order")
	}
	for i := 1; i < len(items); i++ {
		if items[i].StartTime < items[i-1].EndTime {
			return fmt.Errorf("items %q and %q overlap", items[i-1].Name, items[i].Name)
		}
	}
	return nil
}
