package query

import (
	"fmt"
	"strconv"
	"strings"
)

// Key - ключ кэша: упорядоченный кортеж примитивов (ресурс + параметры).
// Два ключа равны, если совпадает их каноническая запись.
type Key []any

// NewKey создает ключ и приводит целые типы к int64, чтобы
// Key{"videos", 1} и Key{"videos", int64(1)} адресовали одну запись.
// Допустимы string, bool и целые типы; остальное - ошибка программиста.
func NewKey(parts ...any) Key {
	k := make(Key, 0, len(parts))
	for _, p := range parts {
		k = append(k, normalize(p))
	}
	return k
}

func normalize(p any) any {
	switch v := p.(type) {
	case string, bool, int64:
		return v
	case int:
		return int64(v)
	case int8:
		return int64(v)
	case int16:
		return int64(v)
	case int32:
		return int64(v)
	case uint:
		return int64(v)
	case uint8:
		return int64(v)
	case uint16:
		return int64(v)
	case uint32:
		return int64(v)
	default:
		panic(fmt.Sprintf("query: unsupported key part %T", p))
	}
}

// String возвращает каноническую запись ключа
func (k Key) String() string {
	var b strings.Builder
	b.WriteByte('[')
	for i, p := range k {
		if i > 0 {
			b.WriteByte(',')
		}
		writePart(&b, normalize(p))
	}
	b.WriteByte(']')
	return b.String()
}

func writePart(b *strings.Builder, p any) {
	switch v := p.(type) {
	case string:
		b.WriteString(strconv.Quote(v))
	case int64:
		b.WriteString(strconv.FormatInt(v, 10))
	case bool:
		b.WriteString(strconv.FormatBool(v))
	}
}

// Equal сравнивает ключи структурно
func (k Key) Equal(other Key) bool {
	return len(k) == len(other) && k.HasPrefix(other)
}

// HasPrefix сообщает, начинается ли ключ с prefix (поэлементно).
// Пустой префикс совпадает с любым ключом.
func (k Key) HasPrefix(prefix Key) bool {
	if len(prefix) > len(k) {
		return false
	}
	for i := range prefix {
		if normalize(k[i]) != normalize(prefix[i]) {
			return false
		}
	}
	return true
}
