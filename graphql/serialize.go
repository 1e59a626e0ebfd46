package graphql

import (
	jsoniter "github.com/json-iterator/go"
)

// jsonAPI is configured compatibly with encoding/json so that custom
// MarshalJSON implementations on scalar wrapper types (schemabuilder.ID,
// schemabuilder.Timestamp, and friends) keep working unchanged, while giving
// response serialization jsoniter's faster reflection-free fast paths on
// the hot path of encoding a resolved query result.
var jsonAPI = jsoniter.ConfigCompatibleWithStandardLibrary

// orderedMap accumulates a selection set's resolved fields in selection
// order and marshals back out in that order, since the GraphQL response
// spec requires field order to mirror the query rather than the
// unspecified order Go's map type would produce.
type orderedMap struct {
	keys   []string
	values map[string]interface{}
}

func newOrderedMap() *orderedMap {
	return &orderedMap{values: map[string]interface{}{}}
}

func (m *orderedMap) set(key string, value interface{}) {
	if _, exists := m.values[key]; !exists {
		m.keys = append(m.keys, key)
	}
	m.values[key] = value
}

func (m *orderedMap) MarshalJSON() ([]byte, error) {
	buf := append([]byte(nil), '{')
	for i, key := range m.keys {
		if i > 0 {
			buf = append(buf, ',')
		}
		keyJSON, err := jsonAPI.Marshal(key)
		if err != nil {
			return nil, err
		}
		buf = append(buf, keyJSON...)
		buf = append(buf, ':')
		valueJSON, err := jsonAPI.Marshal(m.values[key])
		if err != nil {
			return nil, err
		}
		buf = append(buf, valueJSON...)
	}
	buf = append(buf, '}')
	return buf, nil
}

// SerializeResponse encodes an Executor result (or an httpResponse wrapping
// one) the same way the HTTP handler does, exposed so other transports
// (a WebSocket subscription frame, a test) can reuse the same encoding
// rules without reaching into package internals.
func SerializeResponse(value interface{}) ([]byte, error) {
	return jsonAPI.Marshal(value)
}
