package domain

import "time"

// AuditFields holds standard audit information for domain entities.
type AuditFields struct {
	CreatedAt     time.Time `json:"createdAt"`
	CreatedBy     string    `json:"createdBy"`
	LastUpdatedAt time.Time `json:"lastUpdatedAt"`
	LastUpdatedBy string    `json:"lastUpdatedBy"`
}

// Context is an open-ended, string-keyed map used for transaction metadata and
// business context. Values are restricted by convention to JSON-representable
// kinds (string, number, bool, nested map/list); unknown keys round-trip
// unchanged through the store.
type Context map[string]interface{}

// GetString returns the string value stored under key, or "" when the key is
// absent or holds a non-string value.
func (c Context) GetString(key string) string {
	if c == nil {
		return ""
	}
	if v, ok := c[key].(string); ok {
		return v
	}
	return ""
}

// Clone returns a shallow copy of the context. Nil maps clone to nil.
func (c Context) Clone() Context {
	if c == nil {
		return nil
	}
	out := make(Context, len(c))
	for k, v := range c {
		out[k] = v
	}
	return out
}
