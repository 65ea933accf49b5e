package pool

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestGetBuffer_IsReset(t *testing.T) {
	buf := GetBuffer()
	buf.WriteString("stale")
	PutBuffer(buf)

	again := GetBuffer()
	assert.Equal(t, 0, again.Len())
	PutBuffer(again)
}

func TestCopyBytes_Independent(t *testing.T) {
	buf := GetBuffer()
	buf.WriteString(`{"id":1}`)

	out := CopyBytes(buf)
	buf.Reset()
	buf.WriteString("overwritten")

	assert.Equal(t, `{"id":1}`, string(out))
	PutBuffer(buf)
}

func TestPutBuffer_NilIsNoop(t *testing.T) {
	assert.NotPanics(t, func() { PutBuffer(nil) })
}
