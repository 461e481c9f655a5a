package workflow

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"github.com/hashicorp/go-retryablehttp"
)

// ErrPromptRejected indicates the parsing service understood the request but
// could not turn the prompt into a workflow definition.
var ErrPromptRejected = errors.New("prompt rejected by parsing service")

// ParsedWorkflow is the structured output of the external natural-language
// parsing service. Trigger and Actions are opaque to the engine: they are
// embedded verbatim into the workflow-creation transaction payload and never
// interpreted locally.
type ParsedWorkflow struct {
	Trigger json.RawMessage `json:"trigger"`
	Actions json.RawMessage `json:"actions"`
}

// PromptParser converts a natural-language automation prompt into a
// structured workflow definition via an external text-to-structure service.
type PromptParser interface {
	Parse(ctx context.Context, prompt string) (ParsedWorkflow, error)
}

type promptParser struct {
	endpoint string
	client   *retryablehttp.Client
}

var _ PromptParser = (*promptParser)(nil)

// NewPromptParser builds a PromptParser that POSTs prompts to the hosted
// parsing endpoint using the given retrying HTTP client.
func NewPromptParser(client *retryablehttp.Client, endpoint string) *promptParser {
	return &promptParser{
		endpoint: endpoint,
		client:   client,
	}
}

func (p *promptParser) Parse(ctx context.Context, prompt string) (ParsedWorkflow, error) {
	body, err := json.Marshal(map[string]string{"prompt": prompt})
	if err != nil {
		return ParsedWorkflow{}, err
	}

	req, err := retryablehttp.NewRequestWithContext(ctx, http.MethodPost, p.endpoint, body)
	if err != nil {
		return ParsedWorkflow{}, err
	}
	req.Header.Set("Content-Type", "application/json")

	res, err := p.client.Do(req)
	if err != nil {
		return ParsedWorkflow{}, err
	}
	defer res.Body.Close()

	var parsed struct {
		ParsedWorkflow
		Error string `json:"error"`
	}
	if err := json.NewDecoder(res.Body).Decode(&parsed); err != nil {
		return ParsedWorkflow{}, err
	}

	if parsed.Error != "" {
		return ParsedWorkflow{}, fmt.Errorf("%w: %s", ErrPromptRejected, parsed.Error)
	}

	if res.StatusCode != http.StatusOK {
		return ParsedWorkflow{}, fmt.Errorf("parsing service returned status %d", res.StatusCode)
	}

	return parsed.ParsedWorkflow, nil
}
