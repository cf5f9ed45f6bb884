package codec

import (
	"testing"

	"github.com/stretchr/testify/require"
)

type document struct {
	Name     string `cbor:"name"`
	LastSeen int64  `cbor:"last_seen"`
}

func TestMarshal_IsDeterministic(t *testing.T) {
	req := require.New(t)
	doc := document{Name: "Ana", LastSeen: 15000}

	first, err := Marshal(doc)
	req.NoError(err)
	second, err := Marshal(doc)
	req.NoError(err)
	req.Equal(first, second)

	var decoded document
	req.NoError(Unmarshal(first, &decoded))
	req.Equal(doc, decoded)
}

func TestUnmarshal_IgnoresUnknownFields(t *testing.T) {
	req := require.New(t)
	data, err := Marshal(map[string]any{"name": "Ana", "last_seen": 1, "device": "web"})
	req.NoError(err)

	var decoded document
	req.NoError(Unmarshal(data, &decoded))
	req.Equal("Ana", decoded.Name)
}
