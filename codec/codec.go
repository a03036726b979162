// Package codec centralizes snapshot encoding.
//
// Codec selection is a compatibility boundary: snapshot files written by one
// codec are only readable by the same codec. The persistence engine derives
// slot file names from the codec's extension so mixed-codec directories stay
// unambiguous.
package codec

// Codec encodes/decodes values.
// Implementations must be safe for concurrent use.
type Codec interface {
	Marshal(v any) ([]byte, error)
	Unmarshal(data []byte, v any) error
	Name() string
	Ext() string
}

// ByName returns a built-in codec by its stable name.
func ByName(name string) (Codec, bool) {
	switch name {
	case "json":
		return JSON{}, true
	case "gzip-json":
		return GzipJSON{}, true
	default:
		return nil, false
	}
}

// Default is the codec used when none is configured.
var Default Codec = JSON{}
