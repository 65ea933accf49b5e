package pool

import (
	"bytes"
	"sync"
)

// 超过此容量的buffer不放回池中，避免单条大消息长期占用内存
const maxPooledCap = 1 << 20

// BufferPool 字节缓冲池
var BufferPool = sync.Pool{
	New: func() any {
		return new(bytes.Buffer)
	},
}

// GetBuffer 从池中获取buffer
func GetBuffer() *bytes.Buffer {
	buf := BufferPool.Get().(*bytes.Buffer)
	buf.Reset()
	return buf
}

// PutBuffer 将buffer放回池中
func PutBuffer(buf *bytes.Buffer) {
	if buf == nil || buf.Cap() > maxPooledCap {
		return
	}
	BufferPool.Put(buf)
}

// CopyBytes 复制buffer内容，调用方可在之后安全地PutBuffer
func CopyBytes(buf *bytes.Buffer) []byte {
	out := make([]byte, buf.Len())
	copy(out, buf.Bytes())
	return out
}
