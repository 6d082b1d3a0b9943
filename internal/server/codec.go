package server

import (
	"encoding/json"
	"fmt"
)

// jsonCodec replaces connect's protobuf-backed JSON codec so plain Go
// structs can travel as messages.
type jsonCodec struct{}

func (jsonCodec) Name() string { return "json" }

func (jsonCodec) Marshal(msg any) ([]byte, error) {
	return json.Marshal(msg)
}

func (jsonCodec) Unmarshal(data []byte, msg any) error {
	if len(data) == 0 {
		return nil
	}
	if err := json.Unmarshal(data, msg); err != nil {
		return fmt.Errorf("invalid request body: %w", err)
	}
	return nil
}
