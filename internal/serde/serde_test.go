package serde

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kafka-dispatcher/kafka-dispatcher/pkg/errors"
)

type buildEvent struct {
	ID     string `json:"id"`
	Status string `json:"status"`
	Tries  int    `json:"tries"`
}

func TestString(t *testing.T) {
	var s Serializer[string] = String{}

	v, err := s.Deserialize(nil)
	require.NoError(t, err)
	assert.Equal(t, "", v)

	v, err = s.Deserialize([]byte("order-42"))
	require.NoError(t, err)
	assert.Equal(t, "order-42", v)

	b, err := s.Serialize("order-42")
	require.NoError(t, err)
	assert.Equal(t, []byte("order-42"), b)
}

func TestBytes(t *testing.T) {
	var s Serializer[[]byte] = Bytes{}

	v, err := s.Deserialize([]byte{0x1, 0x2})
	require.NoError(t, err)
	assert.Equal(t, []byte{0x1, 0x2}, v)
}

func TestJSON_Deserialize(t *testing.T) {
	var s Serializer[buildEvent] = JSON[buildEvent]{}

	v, err := s.Deserialize([]byte(`{"id":"b-1","status":"failed","tries":2}`))
	require.NoError(t, err)
	assert.Equal(t, buildEvent{ID: "b-1", Status: "failed", Tries: 2}, v)
}

func TestJSON_DeserializeEmptyIsZero(t *testing.T) {
	s := JSON[buildEvent]{}

	v, err := s.Deserialize(nil)
	require.NoError(t, err)
	assert.Equal(t, buildEvent{}, v)

	v, err = s.Deserialize([]byte("  "))
	require.NoError(t, err)
	assert.Equal(t, buildEvent{}, v)
}

func TestJSON_DeserializeInvalid(t *testing.T) {
	_, err := JSON[buildEvent]{}.Deserialize([]byte(`{"id":`))
	require.Error(t, err)
	assert.Equal(t, errors.ErrCodeDeserialize, errors.CodeOf(err))
}

func TestJSON_SerializeNoTrailingNewline(t *testing.T) {
	b, err := JSON[buildEvent]{}.Serialize(buildEvent{ID: "b-2", Status: "ok"})
	require.NoError(t, err)
	assert.JSONEq(t, `{"id":"b-2","status":"ok","tries":0}`, string(b))
	assert.NotEqual(t, byte('\n'), b[len(b)-1])
}

func TestJSON_RawMessage(t *testing.T) {
	v, err := JSON[json.RawMessage]{}.Deserialize([]byte(`{"a":[1,2]}`))
	require.NoError(t, err)
	assert.JSONEq(t, `{"a":[1,2]}`, string(v))
}
