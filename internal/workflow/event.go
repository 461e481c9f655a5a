// Package workflow holds the on-chain workflow domain model: the
// workflow-creation event delivered by the indexer's webhook push, and the
// client for the external prompt-to-workflow parsing service.
package workflow

import (
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
)

// ErrMalformedEvent indicates a webhook event payload that is structurally
// valid JSON but is missing the fields a workflow-creation event must carry.
// This is a parse failure, not a negative match.
var ErrMalformedEvent = errors.New("malformed workflow event payload")

// CreateEventType returns the fully qualified event type identifier emitted
// by the workflow module deployed at moduleAddress.
func CreateEventType(moduleAddress string) string {
	return fmt.Sprintf("%s::workflow::CreateWorkflowEvent", moduleAddress)
}

// CreatedEvent is a workflow-creation event extracted from a webhook
// delivery.
type CreatedEvent struct {
	ID uint64 // On-chain workflow identifier
}

// ParseCreatedEvent extracts a CreatedEvent from the raw event data of a
// single webhook message. The workflow identifier arrives either as a JSON
// number or as a decimal string, depending on the indexer's serialization of
// Move u64 values.
func ParseCreatedEvent(data json.RawMessage) (CreatedEvent, error) {
	var payload struct {
		ID json.RawMessage `json:"id"`
	}
	if err := json.Unmarshal(data, &payload); err != nil {
		return CreatedEvent{}, fmt.Errorf("%w: %v", ErrMalformedEvent, err)
	}

	if len(payload.ID) == 0 {
		return CreatedEvent{}, fmt.Errorf("%w: missing workflow id", ErrMalformedEvent)
	}

	raw := string(payload.ID)
	if unquoted, err := strconv.Unquote(raw); err == nil {
		raw = unquoted
	}

	id, err := strconv.ParseUint(raw, 10, 64)
	if err != nil {
		return CreatedEvent{}, fmt.Errorf("%w: invalid workflow id %q", ErrMalformedEvent, raw)
	}

	return CreatedEvent{ID: id}, nil
}
