// Package codec provides the payload codecs spoken on the RPC channel. A
// Codec pairs with a content type so client and service can negotiate the
// encoding per request.
package codec

// Codec encodes/decodes RPC payloads to []byte.
type Codec interface {
	// ContentType is the MIME type announced on the wire.
	ContentType() string
	Marshal(v any) ([]byte, error)
	Unmarshal(b []byte, v any) error
}
