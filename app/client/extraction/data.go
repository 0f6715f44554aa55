package extraction

import "context"

// FallbackReply is used when the backend answers without a reply text.
const FallbackReply = "Done."

// Result is the typed decoding of one extraction round trip. UpdatedForm is
// nil when the backend sent no structured update; its keys are passed through
// unvalidated, filtering them against the schema is the record store's job.
type Result struct {
	Reply       string
	UpdatedForm map[string]string
}

// Extractor turns one user message into a reply and an optional partial
// record update. Both the HTTP client and the builtin engine satisfy it.
type Extractor interface {
	Extract(ctx context.Context, message string) (*Result, error)
}

type chatRequest struct {
	Message string `json:"message"`
}

type chatResponse struct {
	Reply       string            `json:"reply"`
	UpdatedForm map[string]string `json:"updated_form"`
}
