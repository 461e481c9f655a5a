package webhook

import "encoding/json"

// deliveryPayload models the indexer's webhook push body. A delivery carries
// exactly one event envelope; each message inside holds one raw event payload.
type deliveryPayload struct {
	Event struct {
		EventType string `json:"eventType"`
		Messages  []struct {
			Data json.RawMessage `json:"data"`
		} `json:"messages"`
	} `json:"event"`
}
