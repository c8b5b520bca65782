package maths

import (
	"github.com/pkg/errors"
)

// ErrSingular 矩阵奇异（或数值上接近奇异），线性系统无唯一解。
var ErrSingular = errors.New("matrix is singular or nearly singular")

// PivotTolerance 主元绝对值低于该阈值时判定矩阵奇异。
const PivotTolerance = 1e-12

// LU 稠密矩阵LU分解器（部分主元法）。
// 实现 PA = LU 分解，其中：
//
//	P - 置换向量：P[i] = 分解后第i行对应的原始矩阵行索引
//	L - 单位下三角矩阵（对角线为1，严格下三角存储消元因子）
//	U - 上三角矩阵（存储消元后上三角元素）
//
// 同一分解可对多个右侧向量反复回代求解。
type LU[T Number] struct {
	n  int
	lu *Matrix[T] // L与U合并存储：严格下三角为消元因子，上三角为U
	p  []int
	y  *Vector[T] // 中间变量：存储前向替换结果 Ly = Pb
}

// NewLU 创建稠密矩阵LU分解器（输入矩阵维度n，必须为正整数）。
func NewLU[T Number](n int) (*LU[T], error) {
	if n < 1 {
		return nil, errors.New("lu dimension must be positive")
	}
	return &LU[T]{
		n:  n,
		lu: NewMatrix[T](n, n),
		p:  make([]int, n),
		y:  NewVector[T](n),
	}, nil
}

// Decompose 执行LU分解。
// 算法步骤：
// 1. 复制原始矩阵（不修改输入）
// 2. 对每列选择绝对值最大的元素作为主元并交换行
// 3. 执行高斯消元，消元因子存入下三角
// 主元绝对值低于 PivotTolerance 时返回 ErrSingular。
func (lu *LU[T]) Decompose(a *Matrix[T]) error {
	n := lu.n
	if a.Rows() != n || a.Cols() != n {
		return errors.Errorf("lu dimension mismatch: expected %dx%d, got %dx%d", n, n, a.Rows(), a.Cols())
	}
	a.Copy(lu.lu)
	for i := range lu.p {
		lu.p[i] = i
	}
	for k := 0; k < n; k++ {
		// 寻找主元：在当前列中选择绝对值最大的元素
		maxRow := k
		maxVal := Abs(lu.lu.Get(k, k))
		for i := k + 1; i < n; i++ {
			if v := Abs(lu.lu.Get(i, k)); v > maxVal {
				maxVal = v
				maxRow = i
			}
		}
		if maxVal < PivotTolerance {
			return errors.Wrapf(ErrSingular, "zero pivot in column %d", k)
		}
		if maxRow != k {
			lu.swapRows(k, maxRow)
			lu.p[k], lu.p[maxRow] = lu.p[maxRow], lu.p[k]
		}
		pivot := lu.lu.Get(k, k)
		for i := k + 1; i < n; i++ {
			factor := lu.lu.Get(i, k) / pivot
			lu.lu.Set(i, k, factor)
			for j := k + 1; j < n; j++ {
				lu.lu.Increment(i, j, -factor*lu.lu.Get(k, j))
			}
		}
	}
	return nil
}

// Solve 解线性方程组 Ax = b，结果写入预分配的解向量x。
// 必须先调用 Decompose；向量维度不匹配时返回错误。
func (lu *LU[T]) Solve(b, x *Vector[T]) error {
	n := lu.n
	if b.Len() != n || x.Len() != n {
		return errors.Errorf("lu solve dimension mismatch: expected %d, got b=%d x=%d", n, b.Len(), x.Len())
	}
	// 前向替换：Ly = Pb
	for i := 0; i < n; i++ {
		sum := b.Get(lu.p[i])
		for j := 0; j < i; j++ {
			sum -= lu.lu.Get(i, j) * lu.y.Get(j)
		}
		lu.y.Set(i, sum)
	}
	// 回代：Ux = y
	for i := n - 1; i >= 0; i-- {
		sum := lu.y.Get(i)
		for j := i + 1; j < n; j++ {
			sum -= lu.lu.Get(i, j) * x.Get(j)
		}
		x.Set(i, sum/lu.lu.Get(i, i))
	}
	return nil
}

func (lu *LU[T]) swapRows(a, b int) {
	for j := 0; j < lu.n; j++ {
		va, vb := lu.lu.Get(a, j), lu.lu.Get(b, j)
		lu.lu.Set(a, j, vb)
		lu.lu.Set(b, j, va)
	}
}
