package payos

import (
	"encoding/json"
	"strings"
)

// rawBody keeps JSON bodies as they are and wraps anything else as a JSON string,
// so callers can always embed the result in a JSON response.
func rawBody(body []byte) json.RawMessage {
	if len(body) == 0 {
		return nil
	}
	if json.Valid(body) {
		return json.RawMessage(body)
	}
	quoted, err := json.Marshal(strings.TrimSpace(string(body)))
	if err != nil {
		return nil
	}
	return json.RawMessage(quoted)
}
