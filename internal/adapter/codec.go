package adapter

import (
	"encoding/json"

	"github.com/gowebpki/jcs"
)

// Codec defines JSON encoding operations to enable mocking.
// Canonicalize produces RFC 8785 (JCS) output so identical documents always hash the same.
//
//go:generate mockgen -source=codec.go -destination=../mocks/codec.go -package=mocks -mock_names=Codec=MockCodec
type Codec interface {
	Marshal(v interface{}) ([]byte, error)
	Unmarshal(data []byte, v interface{}) error
	Canonicalize(v interface{}) ([]byte, error)
}

// RealCodec implements Codec using encoding/json and jcs
type RealCodec struct{}

// NewCodec creates a new real codec
func NewCodec() Codec {
	return &RealCodec{}
}

func (c *RealCodec) Marshal(v interface{}) ([]byte, error) {
	return json.Marshal(v)
}

func (c *RealCodec) Unmarshal(data []byte, v interface{}) error {
	return json.Unmarshal(data, v)
}

func (c *RealCodec) Canonicalize(v interface{}) ([]byte, error) {
	data, err := json.Marshal(v)
	if err != nil {
		return nil, err
	}
	return jcs.Transform(data)
}
