package oauth2client

import (
	jsoniter "github.com/json-iterator/go"
)

// CodecConfig controls how request bodies are encoded and responses decoded.
type CodecConfig struct {
	// EscapeHTML escapes <, > and & inside encoded strings.
	EscapeHTML bool
	// SortMapKeys writes map keys in sorted order.
	SortMapKeys bool
	// UseNumber decodes JSON numbers as json.Number instead of float64.
	UseNumber bool
}

// DefaultCodecConfig keeps numeric ids exact and produces stable output.
func DefaultCodecConfig() CodecConfig {
	return CodecConfig{SortMapKeys: true, UseNumber: true}
}

// Codec is the JSON serializer owned by a client. Each client carries its
// own; there is no package-level serializer state.
type Codec struct {
	api jsoniter.API
}

// NewCodec freezes cfg into a Codec.
func NewCodec(cfg CodecConfig) *Codec {
	return &Codec{api: jsoniter.Config{
		EscapeHTML:             cfg.EscapeHTML,
		SortMapKeys:            cfg.SortMapKeys,
		UseNumber:              cfg.UseNumber,
		ValidateJsonRawMessage: true,
	}.Froze()}
}

func (c *Codec) Marshal(v interface{}) ([]byte, error) {
	return c.api.Marshal(v)
}

func (c *Codec) Unmarshal(data []byte, v interface{}) error {
	return c.api.Unmarshal(data, v)
}

// Valid reports whether data is well-formed JSON.
func (c *Codec) Valid(data []byte) bool {
	return c.api.Valid(data)
}

// get looks up a path inside an encoded document without decoding all of it.
func (c *Codec) get(data []byte, path ...interface{}) jsoniter.Any {
	return c.api.Get(data, path...)
}
