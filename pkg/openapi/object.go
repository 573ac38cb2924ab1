package openapi

import (
	"bytes"
	"encoding/json"
	"maps"
	"reflect"
	"strings"
)

// Raw holds every member of a decoded JSON object, including the ones the
// typed model does not know about. Encoding starts from Raw and overlays the
// typed fields, so unknown members such as servers, parameters or x-*
// extensions pass through unchanged.
type Raw map[string]json.RawMessage

// decodeObject fills v, a pointer to a json-tagged struct, and returns the
// object members. Numbers are kept as json.Number so they re-encode with their
// original spelling.
func decodeObject(data []byte, v any) (Raw, error) {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()
	if err := dec.Decode(v); err != nil {
		return nil, err
	}
	var raw Raw
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, err
	}
	return raw, nil
}

// encodeObject overlays the json-tagged fields of the struct value v onto a
// copy of raw. Zero fields are written only when the member was present
// on decode, which keeps explicit false and empty values intact.
func encodeObject(v any, raw Raw) (Raw, error) {
	out := make(Raw, len(raw))
	maps.Copy(out, raw)

	rv := reflect.ValueOf(v)
	rt := rv.Type()
	for i := range rt.NumField() {
		name := memberName(rt.Field(i))
		if name == "" {
			continue
		}
		fv := rv.Field(i)
		if _, present := raw[name]; !present && fv.IsZero() {
			continue
		}
		data, err := json.Marshal(fv.Interface())
		if err != nil {
			return nil, err
		}
		out[name] = data
	}
	return out, nil
}

func memberName(f reflect.StructField) string {
	if !f.IsExported() {
		return ""
	}
	tag := f.Tag.Get("json")
	if tag == "-" {
		return ""
	}
	name, _, _ := strings.Cut(tag, ",")
	if name == "" {
		return f.Name
	}
	return name
}

func marshalObject(v any, raw Raw) ([]byte, error) {
	out, err := encodeObject(v, raw)
	if err != nil {
		return nil, err
	}
	return json.Marshal(out)
}
