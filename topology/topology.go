// Package topology 将平铺的元件/连线列表规整为规范节点图：
// 连线相连的引脚合并为同一等价类（节点），节点0保留给地，
// 缺少地参考的电路被拒绝。
package topology

import (
	"fmt"

	"github.com/pkg/errors"

	"circuitsim/circuit"
)

// NodeID 电路节点标识。
type NodeID = int

// Gnd 地节点，其电位恒为零。
const Gnd NodeID = 0

// ErrNoGround 电路缺少地元件，连续域分析没有参考节点。
var ErrNoGround = errors.New("no ground node found")

// ErrBadWire 连线端点引用了不存在的元件或引脚。
var ErrBadWire = errors.New("wire endpoint references unknown terminal")

// Netlist 规范化节点图：每个引脚映射到唯一节点，地为节点0。
type Netlist struct {
	nodes    map[circuit.Terminal]NodeID
	terms    []circuit.Terminal // 引脚扫描顺序，保证编号确定性
	members  map[NodeID]int     // 每个节点的引脚数量
	numNodes int                // 非地节点数量
}

// Build 构建节点图。
// 每个 (元件ID, 引脚索引) 初始为独立节点；每条连线合并两端的等价类，
// 合并时保留编号较小的类代表（确定性决胜，保证同一拓扑多次运行的
// 矩阵布局一致）；类型为地的元件将其引脚固定到节点0。
// 没有地元件时返回 ErrNoGround。
func Build(comps []circuit.Component, wires []circuit.Wire) (*Netlist, error) {
	// 按元件列表顺序为每个引脚分配临时编号
	index := make(map[circuit.Terminal]int)
	var terms []circuit.Terminal
	for _, c := range comps {
		for pin := 0; pin < c.TerminalCount(); pin++ {
			term := circuit.Terminal{Component: c.ID, Pin: pin}
			if _, ok := index[term]; ok {
				return nil, errors.Wrapf(ErrBadWire, "duplicate component id %q", c.ID)
			}
			index[term] = len(terms)
			terms = append(terms, term)
		}
	}

	uf := newUnionFind(len(terms))

	// 地元件引脚全部并入同一等价类
	groundRoot := -1
	for _, c := range comps {
		if c.Kind != circuit.KindGround {
			continue
		}
		i := index[circuit.Terminal{Component: c.ID, Pin: 0}]
		if groundRoot < 0 {
			groundRoot = i
		} else {
			uf.union(groundRoot, i)
		}
	}
	if groundRoot < 0 {
		return nil, ErrNoGround
	}

	// 连线合并端点等价类
	for _, w := range wires {
		from, ok := index[w.From]
		if !ok {
			return nil, errors.Wrapf(ErrBadWire, "from %s:%d", w.From.Component, w.From.Pin)
		}
		to, ok := index[w.To]
		if !ok {
			return nil, errors.Wrapf(ErrBadWire, "to %s:%d", w.To.Component, w.To.Pin)
		}
		uf.union(from, to)
	}

	// 压缩编号：地类为0，其余按引脚首次出现顺序编号
	gnd := uf.find(groundRoot)
	assigned := map[int]NodeID{gnd: Gnd}
	nl := &Netlist{
		nodes:   make(map[circuit.Terminal]NodeID, len(terms)),
		terms:   terms,
		members: make(map[NodeID]int),
	}
	next := 1
	for i, term := range terms {
		root := uf.find(i)
		id, ok := assigned[root]
		if !ok {
			id = NodeID(next)
			assigned[root] = id
			next++
		}
		nl.nodes[term] = id
		nl.members[id]++
	}
	nl.numNodes = next - 1
	return nl, nil
}

// NodeOf 返回引脚所属节点。未知引脚按地处理。
func (nl *Netlist) NodeOf(componentID string, pin int) NodeID {
	if id, ok := nl.nodes[circuit.Terminal{Component: componentID, Pin: pin}]; ok {
		return id
	}
	return Gnd
}

// NumNodes 非地节点数量，即MNA未知电压的数量。
func (nl *Netlist) NumNodes() int { return nl.numNodes }

// Dangling 返回未与任何其他引脚相连的引脚（悬空诊断，不构成错误）。
func (nl *Netlist) Dangling() []circuit.Terminal {
	var out []circuit.Terminal
	for _, term := range nl.terms {
		id := nl.nodes[term]
		if id != Gnd && nl.members[id] == 1 {
			out = append(out, term)
		}
	}
	return out
}

// String 返回节点映射的字符串表示，用于调试输出。
func (nl *Netlist) String() string {
	s := fmt.Sprintf("netlist: %d nodes\n", nl.numNodes)
	for _, term := range nl.terms {
		s += fmt.Sprintf(" %s:%d -> %d\n", term.Component, term.Pin, nl.nodes[term])
	}
	return s
}

// unionFind 按最小编号保留代表的并查集。
type unionFind struct {
	parent []int
}

func newUnionFind(n int) *unionFind {
	uf := &unionFind{parent: make([]int, n)}
	for i := range uf.parent {
		uf.parent[i] = i
	}
	return uf
}

func (uf *unionFind) find(i int) int {
	for uf.parent[i] != i {
		uf.parent[i] = uf.parent[uf.parent[i]]
		i = uf.parent[i]
	}
	return i
}

func (uf *unionFind) union(a, b int) {
	ra, rb := uf.find(a), uf.find(b)
	if ra == rb {
		return
	}
	// 编号较小者为规范代表
	if ra < rb {
		uf.parent[rb] = ra
	} else {
		uf.parent[ra] = rb
	}
}
