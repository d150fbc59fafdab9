package codec

import "github.com/vmihailenco/msgpack/v5"

// Msgpack serializes payloads using vmihailenco/msgpack/v5. The zero value
// is ready to use.
//
// Msgpack is compact and fast; be mindful of struct tag differences vs JSON.
// The wire record types carry explicit `msgpack` tags.
type Msgpack struct{}

func (Msgpack) ContentType() string             { return "application/msgpack" }
func (Msgpack) Marshal(v any) ([]byte, error)   { return msgpack.Marshal(v) }
func (Msgpack) Unmarshal(b []byte, v any) error { return msgpack.Unmarshal(b, v) }
