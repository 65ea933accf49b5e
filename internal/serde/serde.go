// Package serde 提供消息key/value的序列化器
package serde

import (
	"bytes"

	"github.com/bytedance/sonic"

	"github.com/kafka-dispatcher/kafka-dispatcher/pkg/errors"
	"github.com/kafka-dispatcher/kafka-dispatcher/pkg/pool"
)

// Serializer key/value序列化器接口，由调用方注入消费者
type Serializer[T any] interface {
	Serialize(v T) ([]byte, error)
	Deserialize(data []byte) (T, error)
}

// String 字符串序列化器
type String struct{}

func (String) Serialize(v string) ([]byte, error) {
	return []byte(v), nil
}

func (String) Deserialize(data []byte) (string, error) {
	return string(data), nil
}

// Bytes 原始字节序列化器，不做转换
type Bytes struct{}

func (Bytes) Serialize(v []byte) ([]byte, error) {
	return v, nil
}

func (Bytes) Deserialize(data []byte) ([]byte, error) {
	return data, nil
}

// JSON 基于sonic的JSON序列化器
type JSON[T any] struct{}

// Serialize 编码为JSON（不含结尾换行）
func (JSON[T]) Serialize(v T) ([]byte, error) {
	buf := pool.GetBuffer()
	defer pool.PutBuffer(buf)

	if err := sonic.ConfigDefault.NewEncoder(buf).Encode(v); err != nil {
		return nil, errors.Wrap(errors.ErrCodeSerialize, "failed to encode json", err)
	}

	// Encoder总会追加换行
	if b := buf.Bytes(); len(b) > 0 && b[len(b)-1] == '\n' {
		buf.Truncate(len(b) - 1)
	}

	return pool.CopyBytes(buf), nil
}

// Deserialize 解码JSON；空消息（含tombstone）返回零值
func (JSON[T]) Deserialize(data []byte) (T, error) {
	var v T
	if len(bytes.TrimSpace(data)) == 0 {
		return v, nil
	}

	if err := sonic.Unmarshal(data, &v); err != nil {
		return v, errors.Wrap(errors.ErrCodeDeserialize, "failed to decode json", err)
	}
	return v, nil
}
