package codec

import "encoding/json"

type JSON struct{}

func (JSON) ContentType() string              { return "application/json" }
func (JSON) Marshal(v any) ([]byte, error)    { return json.Marshal(v) }
func (JSON) Unmarshal(b []byte, v any) error  { return json.Unmarshal(b, v) }
