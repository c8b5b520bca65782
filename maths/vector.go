package maths

import (
	"fmt"
	"strings"
)

// Vector 稠密向量。
type Vector[T Number] struct {
	data []T
}

// NewVector 创建指定长度的零向量。
func NewVector[T Number](n int) *Vector[T] {
	if n < 0 {
		panic(fmt.Sprintf("vector length out of range: %d", n))
	}
	return &Vector[T]{data: make([]T, n)}
}

// Len 返回向量长度。
func (v *Vector[T]) Len() int { return len(v.data) }

// Get 获取指定位置元素值（越界panic）。
func (v *Vector[T]) Get(i int) T {
	return v.data[i]
}

// Set 设置指定位置元素值（越界panic）。
func (v *Vector[T]) Set(i int, x T) {
	v.data[i] = x
}

// Increment 增量更新向量元素（value累加，越界panic）。
func (v *Vector[T]) Increment(i int, x T) {
	v.data[i] += x
}

// Zero 清空向量为零向量。
func (v *Vector[T]) Zero() {
	clear(v.data)
}

// Copy 复制自身数据到目标向量（长度不匹配panic）。
func (v *Vector[T]) Copy(dst *Vector[T]) {
	if len(dst.data) != len(v.data) {
		panic(fmt.Sprintf("length mismatch: source %d, target %d", len(v.data), len(dst.data)))
	}
	copy(dst.data, v.data)
}

// String 返回向量的字符串表示。
func (v *Vector[T]) String() string {
	var sb strings.Builder
	sb.WriteString("[")
	for i, x := range v.data {
		if i > 0 {
			sb.WriteString(" ")
		}
		fmt.Fprintf(&sb, "%10.4g", x)
	}
	sb.WriteString("]")
	return sb.String()
}
