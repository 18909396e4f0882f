package api

import (
	"bytes"
	"encoding/json"
	"fmt"

	"google.golang.org/protobuf/types/known/structpb"
)

// decode maps a Struct document onto a message type through its JSON tags.
// Unknown fields are rejected so a misspelled key is not silently ignored.
func decode(in *structpb.Struct, dst interface{}) error {
	data, err := json.Marshal(in.AsMap())
	if err != nil {
		return fmt.Errorf("%w: %w", errInvalidRequest, err)
	}

	dec := json.NewDecoder(bytes.NewReader(data))
	dec.DisallowUnknownFields()
	if err := dec.Decode(dst); err != nil {
		return fmt.Errorf("%w: %w", errInvalidRequest, err)
	}
	return nil
}

// encode turns a message into a Struct document.
func encode(src interface{}) (*structpb.Struct, error) {
	data, err := json.Marshal(src)
	if err != nil {
		return nil, fmt.Errorf("encode message: %w", err)
	}

	var doc map[string]interface{}
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("encode message: %w", err)
	}
	return structpb.NewStruct(doc)
}
