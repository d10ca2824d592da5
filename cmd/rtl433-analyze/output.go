package main

import (
	"bytes"
	"encoding/json"

	"github.com/snewz/rtl-433/pkg/rtl433"
)

// orderedRecord marshals fields in the driver's declared output order.
type orderedRecord struct {
	keys   []string
	fields map[string]any
}

func orderedFields(result rtl433.Result) orderedRecord {
	return orderedRecord{keys: result.Record.Keys(), fields: result.Fields}
}

func (o orderedRecord) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, k := range o.keys {
		if i > 0 {
			buf.WriteByte(',')
		}
		key, err := json.Marshal(k)
		if err != nil {
			return nil, err
		}
		val, err := json.Marshal(o.fields[k])
		if err != nil {
			return nil, err
		}
		buf.Write(key)
		buf.WriteByte(':')
		buf.Write(val)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}
