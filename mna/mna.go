// Package mna 实现改进节点分析（Modified Nodal Analysis）：
// 通过一系列"加盖"(Stamp)操作构建电路方程 Ax=Z，
// 未知量为非地节点电压加上每个独立电压源的支路电流。
package mna

import (
	"github.com/pkg/errors"

	"circuitsim/maths"
	"circuitsim/topology"
)

// NodeID 电路节点标识。节点0为地，其电位恒为零。
type NodeID = topology.NodeID

// Gnd 地节点。
const Gnd = topology.Gnd

// VoltageID 独立电压源标识，用于定位其支路电流未知量。
type VoltageID = int

// ErrSingular 系统矩阵奇异，电路无唯一解
// （例如两个电压源将同一节点强制为不同电位，或存在孤立子网）。
var ErrSingular = maths.ErrSingular

// ErrInvalidParameters 元件参数非法（如电阻值非正）。
var ErrInvalidParameters = errors.New("invalid parameters")

// System MNA线性系统。维度 = (非地节点数) + (独立电压源数)；
// 给定相同的节点与电压源顺序，装配结果是确定性的。
type System[T maths.Number] struct {
	A *maths.Matrix[T] // 导纳矩阵
	Z *maths.Vector[T] // 激励向量
	X *maths.Vector[T] // 解向量：节点电压 + 电压源支路电流

	nodes   int // 非地节点数量
	sources int // 独立电压源数量
}

// NewSystem 创建MNA系统。
//
//	nodes:   非地节点数量。
//	sources: 独立电压源数量。
func NewSystem[T maths.Number](nodes, sources int) *System[T] {
	n := nodes + sources
	return &System[T]{
		A:       maths.NewMatrix[T](n, n),
		Z:       maths.NewVector[T](n),
		X:       maths.NewVector[T](n),
		nodes:   nodes,
		sources: sources,
	}
}

// Dim 系统总维度。
func (s *System[T]) Dim() int { return s.nodes + s.sources }

// NumNodes 非地节点数量。
func (s *System[T]) NumNodes() int { return s.nodes }

// NumSources 独立电压源数量。
func (s *System[T]) NumSources() int { return s.sources }

// Zero 将矩阵与向量重置为零，以便重新装配。
func (s *System[T]) Zero() {
	s.A.Zero()
	s.Z.Zero()
	s.X.Zero()
}

// NodeVoltage 从解向量获取指定节点的电压。地节点或无效节点返回0。
func (s *System[T]) NodeVoltage(n NodeID) (zero T) {
	if n > Gnd && n <= s.nodes {
		return s.X.Get(n - 1)
	}
	return zero
}

// SourceCurrent 从解向量获取流经指定电压源的电流。无效ID返回0。
func (s *System[T]) SourceCurrent(vs VoltageID) (zero T) {
	if vs >= 0 && vs < s.sources {
		return s.X.Get(s.nodes + vs)
	}
	return zero
}

// StampMatrix 将一个值加到矩阵A的(i,j)元素上。地节点相关的操作将被忽略。
// 行列索引按节点编号给出（节点1对应矩阵第0行）。
func (s *System[T]) StampMatrix(i, j NodeID, v T) {
	if i > Gnd && j > Gnd {
		s.A.Increment(i-1, j-1, v)
	}
}

// StampRightSide 将一个值加到激励向量Z的第i个元素上。地节点将被忽略。
func (s *System[T]) StampRightSide(i NodeID, v T) {
	if i > Gnd {
		s.Z.Increment(i-1, v)
	}
}

// StampConductance 为电导元件加盖：标准四项模板，
// 对角元(n1,n1)与(n2,n2)加g，交叉项(n1,n2)与(n2,n1)减g。
func (s *System[T]) StampConductance(n1, n2 NodeID, g T) {
	s.StampMatrix(n1, n1, g)
	s.StampMatrix(n2, n2, g)
	s.StampMatrix(n1, n2, -g)
	s.StampMatrix(n2, n1, -g)
}

// StampCurrentSource 为独立电流源加盖。电流从n1流向n2：
// Z的n1位置减去i，n2位置加上i。
func (s *System[T]) StampCurrentSource(n1, n2 NodeID, i T) {
	s.StampRightSide(n1, -i)
	s.StampRightSide(n2, i)
}

// StampVoltageSource 为独立电压源加盖。引入支路电流作为新未知量，
// 以±1耦合项建立约束 V(n1)-V(n2)=v，并将电压值写入该行的激励项。
func (s *System[T]) StampVoltageSource(n1, n2 NodeID, vs VoltageID, v T) {
	if vs < 0 || vs >= s.sources {
		return
	}
	row := s.nodes + vs
	var one T = 1
	if n1 > Gnd {
		s.A.Increment(n1-1, row, one)
		s.A.Increment(row, n1-1, one)
	}
	if n2 > Gnd {
		s.A.Increment(n2-1, row, -one)
		s.A.Increment(row, n2-1, -one)
	}
	s.Z.Set(row, v)
}

// Solve 求解线性系统，将结果写入解向量X。
// 矩阵奇异时返回 ErrSingular（通过errors.Is识别），不会panic或死循环。
func (s *System[T]) Solve() error {
	n := s.Dim()
	if n == 0 {
		return nil
	}
	lu, err := maths.NewLU[T](n)
	if err != nil {
		return err
	}
	if err := lu.Decompose(s.A); err != nil {
		return errors.Wrap(err, "decompose")
	}
	if err := lu.Solve(s.Z, s.X); err != nil {
		return errors.Wrap(err, "solve")
	}
	return nil
}
