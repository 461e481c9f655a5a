package aptos

import (
	"encoding/json"
	"fmt"
	"strconv"

	"github.com/aptos-labs/aptos-go-sdk/api"
)

// entryFunctionPayload extracts the entry-function payload from a user
// transaction, when present. Script and multisig payloads are not trigger
// candidates and yield ok == false.
func entryFunctionPayload(payload *api.TransactionPayload) (*api.TransactionPayloadEntryFunction, bool) {
	if payload == nil {
		return nil, false
	}

	entry, ok := payload.Inner.(*api.TransactionPayloadEntryFunction)
	return entry, ok
}

// argumentString renders one entry-function argument the way the node's JSON
// API does: Move u64/u128 values arrive as decimal strings, addresses as hex
// strings, smaller integers occasionally as JSON numbers.
func argumentString(arg any) string {
	switch v := arg.(type) {
	case string:
		return v
	case json.Number:
		return v.String()
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64)
	case bool:
		return strconv.FormatBool(v)
	default:
		return fmt.Sprint(v)
	}
}

// marshalEventData re-encodes an event's decoded payload as raw JSON for the
// domain record. Encoding a value that was just decoded from JSON cannot
// fail; a nil payload stays nil.
func marshalEventData(data map[string]any) json.RawMessage {
	if data == nil {
		return nil
	}

	raw, err := json.Marshal(data)
	if err != nil {
		return nil
	}

	return raw
}
