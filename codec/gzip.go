package codec

import (
	"bytes"
	"encoding/json"
	"io"

	"github.com/klauspost/compress/gzip"
)

// GzipJSON is a JSON codec with gzip compression applied to the encoded
// bytes. Useful when snapshots hold large conversation texts and disk or
// bandwidth matters more than direct inspectability.
type GzipJSON struct {
	// Level is the gzip compression level; 0 selects gzip.DefaultCompression.
	Level int
}

// Marshal encodes the value to gzip-compressed JSON.
func (c GzipJSON) Marshal(v any) ([]byte, error) {
	raw, err := json.Marshal(v)
	if err != nil {
		return nil, err
	}
	level := c.Level
	if level == 0 {
		level = gzip.DefaultCompression
	}
	var buf bytes.Buffer
	zw, err := gzip.NewWriterLevel(&buf, level)
	if err != nil {
		return nil, err
	}
	if _, err := zw.Write(raw); err != nil {
		zw.Close()
		return nil, err
	}
	if err := zw.Close(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// Unmarshal decompresses the data and decodes the contained JSON into v.
func (c GzipJSON) Unmarshal(data []byte, v any) error {
	zr, err := gzip.NewReader(bytes.NewReader(data))
	if err != nil {
		return err
	}
	defer zr.Close()
	raw, err := io.ReadAll(zr)
	if err != nil {
		return err
	}
	return json.Unmarshal(raw, v)
}

// Name returns the unique name of the codec ("gzip-json").
func (c GzipJSON) Name() string { return "gzip-json" }

// Ext returns the file extension for snapshots written with this codec.
func (c GzipJSON) Ext() string { return ".json.gz" }
