package models

import "encoding/json"

// Resource is the persisted diagram content, one-to-one with its project
// and created atomically with it. Code is the schema source text; Model is
// the structured representation derived from it, owned by the parser and
// opaque to this core.
type Resource struct {
	ID        string          `json:"id" db:"id"`
	ProjectID string          `json:"project_id" db:"project_id"`
	Code      string          `json:"code" db:"code"`
	Model     json.RawMessage `json:"model" db:"model"`
}

// EmptyModel is the parsed-model placeholder stored until the parser runs.
var EmptyModel = json.RawMessage(`{}`)
