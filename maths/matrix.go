package maths

import (
	"fmt"
	"strings"
)

// Matrix 稠密矩阵（行主序存储）。
type Matrix[T Number] struct {
	rows, cols int
	data       []T
}

// NewMatrix 创建指定维度的零矩阵。
func NewMatrix[T Number](rows, cols int) *Matrix[T] {
	if rows < 0 || cols < 0 {
		panic(fmt.Sprintf("matrix dimension out of range: %dx%d", rows, cols))
	}
	return &Matrix[T]{rows: rows, cols: cols, data: make([]T, rows*cols)}
}

// Rows 返回矩阵行数。
func (m *Matrix[T]) Rows() int { return m.rows }

// Cols 返回矩阵列数。
func (m *Matrix[T]) Cols() int { return m.cols }

// Get 获取指定行列元素值（越界panic）。
func (m *Matrix[T]) Get(row, col int) T {
	m.check(row, col)
	return m.data[row*m.cols+col]
}

// Set 设置指定行列元素值（越界panic）。
func (m *Matrix[T]) Set(row, col int, v T) {
	m.check(row, col)
	m.data[row*m.cols+col] = v
}

// Increment 增量更新矩阵元素（value累加，越界panic）。
func (m *Matrix[T]) Increment(row, col int, v T) {
	m.check(row, col)
	m.data[row*m.cols+col] += v
}

// Zero 清空矩阵为零矩阵。
func (m *Matrix[T]) Zero() {
	clear(m.data)
}

// Copy 复制自身数据到目标矩阵（维度不匹配panic）。
func (m *Matrix[T]) Copy(dst *Matrix[T]) {
	if dst.rows != m.rows || dst.cols != m.cols {
		panic(fmt.Sprintf("dimension mismatch: source %dx%d, target %dx%d", m.rows, m.cols, dst.rows, dst.cols))
	}
	copy(dst.data, m.data)
}

// String 返回矩阵的多行字符串表示，用于调试输出。
func (m *Matrix[T]) String() string {
	var sb strings.Builder
	for i := 0; i < m.rows; i++ {
		sb.WriteString("[")
		for j := 0; j < m.cols; j++ {
			if j > 0 {
				sb.WriteString(" ")
			}
			fmt.Fprintf(&sb, "%10.4g", m.data[i*m.cols+j])
		}
		sb.WriteString("]\n")
	}
	return sb.String()
}

func (m *Matrix[T]) check(row, col int) {
	if row < 0 || row >= m.rows || col < 0 || col >= m.cols {
		panic(fmt.Sprintf("matrix index out of range: (%d,%d) in %dx%d", row, col, m.rows, m.cols))
	}
}
