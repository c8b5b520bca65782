// Package maths 提供MNA求解所需的稠密矩阵、向量与LU分解实现。
// 全部类型对 float64 与 complex128 泛型化：实数域用于直流与瞬态分析，
// 复数域用于交流小信号分析。
package maths

import (
	"math"
	"math/cmplx"

	"golang.org/x/exp/constraints"
)

// Number 矩阵元素类型约束。
type Number interface {
	constraints.Float | constraints.Complex
}

// Abs 返回任意 Number 的模。
func Abs[T Number](v T) float64 {
	switch x := any(v).(type) {
	case float32:
		return math.Abs(float64(x))
	case float64:
		return math.Abs(x)
	case complex64:
		return cmplx.Abs(complex128(x))
	case complex128:
		return cmplx.Abs(x)
	}
	return 0
}
