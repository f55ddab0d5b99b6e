package compact

import (
	"bytes"
	"encoding/json"
)

// MarshalJSON serializes the map as a JSON object in iteration order, so
// sorted and insertion-ordered maps produce correspondingly ordered
// documents. Non-string keys are rendered through their JSON form and
// quoted, the way encoding/json renders builtin map keys.
func (m *Map[K, V]) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	first := true
	var err error
	m.Range(func(k K, v V) bool {
		var kb, vb []byte
		if kb, err = json.Marshal(k); err != nil {
			return false
		}
		if vb, err = json.Marshal(v); err != nil {
			return false
		}
		if !first {
			buf.WriteByte(',')
		}
		first = false
		if len(kb) > 0 && kb[0] == '"' {
			buf.Write(kb)
		} else {
			buf.WriteByte('"')
			buf.Write(kb)
			buf.WriteByte('"')
		}
		buf.WriteByte(':')
		buf.Write(vb)
		return true
	})
	if err != nil {
		return nil, err
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// UnmarshalJSON decodes a JSON object and stores its entries. Existing
// entries not named by the document are kept; document order is not
// significant on input.
func (m *Map[K, V]) UnmarshalJSON(data []byte) error {
	var a map[K]V
	if err := json.Unmarshal(data, &a); err != nil {
		return err
	}
	m.FromMap(a)
	return nil
}
