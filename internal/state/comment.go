package state

import (
	"encoding/json"
	"fmt"
	"strconv"
)

// Comment is an opaque comment record. Reducers never look inside it; the
// accessors below exist for display only.
type Comment map[string]any

var (
	authorKeys = []string{"name", "author", "email", "user"}
	bodyKeys   = []string{"body", "text", "content"}
)

// InitialComments is the value of the comments slice before any fetch.
func InitialComments() []Comment {
	return []Comment{}
}

// Field returns the value stored under key rendered as text.
func (c Comment) Field(key string) (string, bool) {
	v, ok := c[key]
	if !ok || v == nil {
		return "", false
	}
	switch val := v.(type) {
	case string:
		return val, true
	case float64:
		return strconv.FormatFloat(val, 'f', -1, 64), true
	case json.Number:
		return val.String(), true
	case bool:
		return strconv.FormatBool(val), true
	case int:
		return strconv.Itoa(val), true
	default:
		data, err := json.Marshal(val)
		if err != nil {
			return fmt.Sprint(val), true
		}
		return string(data), true
	}
}

// ID returns the record's id field, if any.
func (c Comment) ID() string {
	id, _ := c.Field("id")
	return id
}

// Author returns the first populated author-like field.
func (c Comment) Author() string {
	return c.first(authorKeys)
}

// Body returns the first populated body-like field. Records without one are
// shown as their JSON encoding.
func (c Comment) Body() string {
	if body := c.first(bodyKeys); body != "" {
		return body
	}
	data, err := json.Marshal(c)
	if err != nil {
		return ""
	}
	return string(data)
}

func (c Comment) first(keys []string) string {
	for _, key := range keys {
		if v, ok := c.Field(key); ok && v != "" {
			return v
		}
	}
	return ""
}
