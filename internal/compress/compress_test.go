package compress

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRoundTrip(t *testing.T) {
	payload := bytes.Repeat([]byte(`{"id":"doc-a","title":"On-call runbook","version":3}`), 50)

	codecs := []Compress{NewNop(), NewGZip(), NewBrotli(), NewLZ4()}

	for _, codec := range codecs {
		t.Run(codec.Name(), func(t *testing.T) {
			encoded, err := codec.Encode(payload)
			require.NoError(t, err)

			decoded, err := codec.Decode(encoded)
			require.NoError(t, err)
			assert.Equal(t, payload, decoded)
		})
	}
}

func TestByName(t *testing.T) {
	tests := []struct {
		name string
		want string
	}{
		{"gzip", "gzip"},
		{"brotli", "brotli"},
		{"lz4", "lz4"},
		{"nop", "nop"},
		{"unknown falls back to gzip", "gzip"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ByName(tt.name).Name())
		})
	}
}
