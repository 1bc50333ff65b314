package render

import (
	"bytes"
	"encoding/json"
	"fmt"
)

// Object 保持键插入顺序的 JSON 对象
// 后端返回的 sources/signals 等映射要求按插入顺序渲染，
// 标准 map 无序，所以用 token 流解码并记录键顺序
type Object struct {
	keys   []string
	values map[string]any
}

// NewObject 创建空对象
func NewObject() *Object {
	return &Object{values: make(map[string]any)}
}

// Set 设置键值，保持首次插入顺序
func (o *Object) Set(key string, value any) *Object {
	if o.values == nil {
		o.values = make(map[string]any)
	}
	if _, exists := o.values[key]; !exists {
		o.keys = append(o.keys, key)
	}
	o.values[key] = value
	return o
}

// Get 获取键值
func (o *Object) Get(key string) (any, bool) {
	if o == nil || o.values == nil {
		return nil, false
	}
	v, ok := o.values[key]
	return v, ok
}

// Has 判断键是否存在
func (o *Object) Has(key string) bool {
	_, ok := o.Get(key)
	return ok
}

// Keys 按插入顺序返回所有键
func (o *Object) Keys() []string {
	if o == nil {
		return nil
	}
	return o.keys
}

// Len 键数量
func (o *Object) Len() int {
	if o == nil {
		return 0
	}
	return len(o.keys)
}

// MarshalJSON 按插入顺序编码，嵌套的 *Object 递归保序
func (o *Object) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, key := range o.keys {
		if i > 0 {
			buf.WriteByte(',')
		}
		keyJSON, err := json.Marshal(key)
		if err != nil {
			return nil, err
		}
		buf.Write(keyJSON)
		buf.WriteByte(':')
		valueJSON, err := json.Marshal(o.values[key])
		if err != nil {
			return nil, err
		}
		buf.Write(valueJSON)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// UnmarshalJSON 按 token 流解码，嵌套对象同样保序
func (o *Object) UnmarshalJSON(data []byte) error {
	dec := json.NewDecoder(bytes.NewReader(data))
	tok, err := dec.Token()
	if err != nil {
		return err
	}
	if d, ok := tok.(json.Delim); !ok || d != '{' {
		return fmt.Errorf("expected JSON object, got %v", tok)
	}
	return o.decodeFields(dec)
}

// decodeFields 解码对象字段直到收尾的 '}'
func (o *Object) decodeFields(dec *json.Decoder) error {
	o.keys = o.keys[:0]
	o.values = make(map[string]any)

	for dec.More() {
		keyTok, err := dec.Token()
		if err != nil {
			return err
		}
		key, ok := keyTok.(string)
		if !ok {
			return fmt.Errorf("expected object key, got %v", keyTok)
		}
		value, err := decodeValue(dec)
		if err != nil {
			return err
		}
		o.Set(key, value)
	}

	// 消费收尾的 '}'
	_, err := dec.Token()
	return err
}

// decodeValue 解码任意 JSON 值，对象解码为 *Object
func decodeValue(dec *json.Decoder) (any, error) {
	tok, err := dec.Token()
	if err != nil {
		return nil, err
	}

	switch t := tok.(type) {
	case json.Delim:
		switch t {
		case '{':
			obj := NewObject()
			if err := obj.decodeFields(dec); err != nil {
				return nil, err
			}
			return obj, nil
		case '[':
			var arr []any
			for dec.More() {
				item, err := decodeValue(dec)
				if err != nil {
					return nil, err
				}
				arr = append(arr, item)
			}
			if _, err := dec.Token(); err != nil { // ']'
				return nil, err
			}
			return arr, nil
		}
		return nil, fmt.Errorf("unexpected delimiter %v", t)
	default:
		// string / float64 / bool / nil
		return tok, nil
	}
}

// DecodeObject 将 JSON 字节解码为保序对象
func DecodeObject(data []byte) (*Object, error) {
	obj := NewObject()
	if err := json.Unmarshal(data, obj); err != nil {
		return nil, err
	}
	return obj, nil
}
