package item

import (
	"strconv"

	"github.com/goccy/go-json"
)

// JSON keys of the fields the store understands. Every other key is payload.
const (
	KeyID        = "id"
	KeyReplyToID = "reply_to_id"
	KeyIsFirst   = "is_first"
)

// Item is one message-like node of the reply tree.
type Item struct {
	ID        string // Unique within the tree when uniqueness is enforced
	ReplyToID string // Parent id, ignored when IsFirst is set
	IsFirst   bool   // Root flag

	// Payload carries every other field of the incoming record. It is opaque
	// to the store and handed unchanged to the render collaborator.
	Payload map[string]any
}

// Link connects a placed reply to the item it replies to.
type Link struct {
	Source string `json:"source"`
	Target string `json:"target"`
}

// IsRoot reports whether the item can anchor the tree. An item with an empty
// id never counts as a root.
func (it Item) IsRoot() bool {
	return it.IsFirst && it.ID != ""
}

// Text returns the payload value stored under key as a string, or "" when it
// is missing or not a scalar.
func (it Item) Text(key string) string {
	switch v := it.Payload[key].(type) {
	case string:
		return v
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64)
	case bool:
		return strconv.FormatBool(v)
	case json.Number:
		return v.String()
	}
	return ""
}

// MarshalJSON flattens the payload next to the known fields.
func (it Item) MarshalJSON() ([]byte, error) {
	m := make(map[string]any, len(it.Payload)+3)
	for k, v := range it.Payload {
		m[k] = v
	}
	m[KeyID] = it.ID
	if it.ReplyToID != "" {
		m[KeyReplyToID] = it.ReplyToID
	}
	if it.IsFirst {
		m[KeyIsFirst] = true
	}
	return json.Marshal(m)
}

// UnmarshalJSON accepts ids as strings or numbers. A missing or null field
// leaves the zero value. Unknown fields land in Payload.
func (it *Item) UnmarshalJSON(data []byte) error {
	var raw map[string]any
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	*it = Item{
		ID:        scalarString(raw[KeyID]),
		ReplyToID: scalarString(raw[KeyReplyToID]),
		IsFirst:   truthy(raw[KeyIsFirst]),
	}
	delete(raw, KeyID)
	delete(raw, KeyReplyToID)
	delete(raw, KeyIsFirst)
	if len(raw) > 0 {
		it.Payload = raw
	}
	return nil
}

func scalarString(v any) string {
	switch x := v.(type) {
	case string:
		return x
	case float64:
		return strconv.FormatFloat(x, 'f', -1, 64)
	case json.Number:
		return x.String()
	}
	return ""
}

func truthy(v any) bool {
	switch x := v.(type) {
	case bool:
		return x
	case string:
		b, _ := strconv.ParseBool(x)
		return b
	case float64:
		return x != 0
	}
	return false
}
