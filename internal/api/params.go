package api

import "encoding/json"

// Params is a string-keyed JSON object used interchangeably as a
// query-parameter bag or a request body.
type Params map[string]any

// DecodeParams parses free-form text into Params. All parse failures come
// back as KindInvalidInput; nothing escapes as a raw json error.
func DecodeParams(text string) (Params, error) {
	var v any
	if err := json.Unmarshal([]byte(text), &v); err != nil {
		return nil, &Error{Kind: KindInvalidInput, Message: "malformed JSON"}
	}
	obj, ok := v.(map[string]any)
	if !ok {
		return nil, &Error{Kind: KindInvalidInput, Message: "root must be an object"}
	}
	return Params(obj), nil
}
