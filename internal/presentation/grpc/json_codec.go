package grpc

import (
	"encoding/json"
	"fmt"

	"google.golang.org/grpc/encoding"
)

// CodecName is the content subtype clients select to talk to the deal desk
// service. The DTOs in internal/application/dto are the wire messages.
const CodecName = "json"

func init() {
	encoding.RegisterCodec(dtoCodec{})
}

type dtoCodec struct{}

func (dtoCodec) Marshal(v any) ([]byte, error) {
	b, err := json.Marshal(v)
	if err != nil {
		return nil, fmt.Errorf("encode %T: %w", v, err)
	}
	return b, nil
}

func (dtoCodec) Unmarshal(data []byte, v any) error {
	if len(data) == 0 {
		return nil
	}
	if err := json.Unmarshal(data, v); err != nil {
		return fmt.Errorf("decode %T: %w", v, err)
	}
	return nil
}

func (dtoCodec) Name() string { return CodecName }
