package digital

import (
	"strings"

	"github.com/pkg/errors"
)

// MaxPropagationPasses 定点传播的迭代上限。达到上限说明电路可能存在
// 组合环或振荡，作为可恢复的诊断报告，不中止运行。
const MaxPropagationPasses = 100

// 连线源端输出名称。门只有一个输出；触发器可从Q或Q̄引出。
const (
	OutputDefault = "output"
	OutputQ       = "q"
	OutputQNot    = "q_not"
)

// Wire 门与触发器之间的信号连线。
// 源端取门输出或触发器的Q/Q̄输出；目的端为门的某个输入索引，
// 或触发器的D输入（索引0）。
type Wire struct {
	ID         string
	From       string
	FromOutput string
	To         string
	ToInput    int
	Signal     Level
}

// PropagateReport 一次定点传播的结果。
// Settled 为假表示在迭代上限内未收敛（疑似组合环或振荡），
// 电路保留最后一次迭代的状态。
type PropagateReport struct {
	Iterations int
	Settled    bool
}

// Simulator 数字电路仿真会话。一次运行一个实例，保存门、触发器、
// 连线与命名输入。门与触发器按加入顺序遍历，保证结果确定。
type Simulator struct {
	gates   map[string]*Gate
	order   []string
	ffs     map[string]*FlipFlop
	ffOrder []string
	wires   []*Wire
	inputs  map[string]Level
	now     float64
}

// NewSimulator 创建空电路会话。
func NewSimulator() *Simulator {
	return &Simulator{
		gates:  make(map[string]*Gate),
		ffs:    make(map[string]*FlipFlop),
		inputs: make(map[string]Level),
	}
}

// AddGate 添加逻辑门。输入数量限制在 [1,8]，重复ID是校验错误。
func (s *Simulator) AddGate(id string, kind GateKind, numInputs int, delay float64) error {
	if numInputs < MinGateInputs || numInputs > MaxGateInputs {
		return errors.Wrapf(ErrInvalidParameters, "gate %s: input count %d out of range [%d,%d]", id, numInputs, MinGateInputs, MaxGateInputs)
	}
	if _, ok := s.gates[id]; ok {
		return errors.Wrapf(ErrInvalidParameters, "duplicate gate id %s", id)
	}
	if delay <= 0 {
		delay = DefaultGateDelay
	}
	inputs := make([]Level, numInputs)
	for i := range inputs {
		inputs[i] = Unknown
	}
	s.gates[id] = &Gate{ID: id, Kind: kind, Inputs: inputs, Output: Unknown, Delay: delay}
	s.order = append(s.order, id)
	return nil
}

// AddFlipFlop 添加D触发器。
func (s *Simulator) AddFlipFlop(id string, edge Edge) error {
	if _, ok := s.ffs[id]; ok {
		return errors.Wrapf(ErrInvalidParameters, "duplicate flip-flop id %s", id)
	}
	s.ffs[id] = NewFlipFlop(id, edge)
	s.ffOrder = append(s.ffOrder, id)
	return nil
}

// AddWire 添加连线。两端必须指向已存在的门或触发器。
// fromOutput 指定源端输出：门只有 output（空串按此处理）；
// 触发器可取 q 或 q_not。目的端为触发器时输入索引只允许0（D输入）。
func (s *Simulator) AddWire(id, from, fromOutput, to string, toInput int) error {
	if !s.exists(from) {
		return errors.Wrapf(ErrInvalidParameters, "wire %s: unknown source %s", id, from)
	}
	if !s.exists(to) {
		return errors.Wrapf(ErrInvalidParameters, "wire %s: unknown destination %s", id, to)
	}
	output := strings.ToLower(strings.TrimSpace(fromOutput))
	switch output {
	case "", OutputDefault, OutputQ:
		output = OutputDefault
	case OutputQNot:
		if _, ok := s.ffs[from]; !ok {
			return errors.Wrapf(ErrInvalidParameters, "wire %s: source %s has no %s output", id, from, OutputQNot)
		}
	default:
		return errors.Wrapf(ErrInvalidParameters, "wire %s: unknown source output %q", id, fromOutput)
	}
	if toInput < 0 {
		return errors.Wrapf(ErrInvalidParameters, "wire %s: negative input index %d", id, toInput)
	}
	if _, ok := s.ffs[to]; ok && toInput != 0 {
		return errors.Wrapf(ErrInvalidParameters, "wire %s: flip-flop %s only has input 0, got %d", id, to, toInput)
	}
	s.wires = append(s.wires, &Wire{ID: id, From: from, FromOutput: output, To: to, ToInput: toInput, Signal: Unknown})
	return nil
}

func (s *Simulator) exists(id string) bool {
	if _, ok := s.gates[id]; ok {
		return true
	}
	_, ok := s.ffs[id]
	return ok
}

// SetInput 设置命名输入。输入名对应某个门时直接强制其输出电平
// （输入门通常是 BUFFER，其输出即外部激励）。
func (s *Simulator) SetInput(name string, v Level) {
	s.inputs[name] = v
	if g, ok := s.gates[name]; ok {
		g.Output = v
	}
}

// Gate 按ID取门，不存在时返回nil。
func (s *Simulator) Gate(id string) *Gate { return s.gates[id] }

// FlipFlop 按ID取触发器，不存在时返回nil。
func (s *Simulator) FlipFlop(id string) *FlipFlop { return s.ffs[id] }

// sourceLevel 连线源端的当前电平。
func (s *Simulator) sourceLevel(id, output string) Level {
	if g, ok := s.gates[id]; ok {
		return g.Output
	}
	if ff, ok := s.ffs[id]; ok {
		if output == OutputQNot {
			return ff.QNot
		}
		return ff.Q
	}
	return Unknown
}

// pushWires 把所有连线源端电平推送到目的端输入。
func (s *Simulator) pushWires() {
	for _, w := range s.wires {
		w.Signal = s.sourceLevel(w.From, w.FromOutput)
		if g, ok := s.gates[w.To]; ok {
			g.setInput(w.ToInput, w.Signal)
		} else if ff, ok := s.ffs[w.To]; ok {
			ff.SetD(w.Signal)
		}
	}
}

// Propagate 定点传播：推送连线、重算所有门、再推送，
// 直到没有门变化或达到迭代上限。被强制输出的输入门在本轮传播中
// 保持其强制电平不被重算覆盖。
// 触发器不在此处更新，只通过时钟驱动器更新。
func (s *Simulator) Propagate() PropagateReport {
	s.pushWires()
	for pass := 1; pass <= MaxPropagationPasses; pass++ {
		changed := false
		for _, id := range s.order {
			if _, forced := s.inputs[id]; forced {
				continue
			}
			if s.gates[id].update(s.now) {
				changed = true
			}
		}
		s.pushWires()
		if !changed {
			return PropagateReport{Iterations: pass, Settled: true}
		}
	}
	return PropagateReport{Iterations: MaxPropagationPasses, Settled: false}
}

// updateFlipFlops 更新所有触发器，任一输出变化时返回真。
func (s *Simulator) updateFlipFlops() bool {
	changed := false
	for _, id := range s.ffOrder {
		if s.ffs[id].Update() {
			changed = true
		}
	}
	return changed
}

// gateLevels 所有门输出的快照。
func (s *Simulator) gateLevels() map[string]Level {
	out := make(map[string]Level, len(s.order))
	for _, id := range s.order {
		out[id] = s.gates[id].Output
	}
	return out
}

// ffLevels 所有触发器Q输出的快照。
func (s *Simulator) ffLevels() map[string]Level {
	out := make(map[string]Level, len(s.ffOrder))
	for _, id := range s.ffOrder {
		out[id] = s.ffs[id].Q
	}
	return out
}

// wireLevels 所有连线信号的快照。
func (s *Simulator) wireLevels() map[string]Level {
	out := make(map[string]Level, len(s.wires))
	for _, w := range s.wires {
		out[w.ID] = w.Signal
	}
	return out
}

// inputLevels 所有命名输入的快照。
func (s *Simulator) inputLevels() map[string]Level {
	out := make(map[string]Level, len(s.inputs))
	for name, v := range s.inputs {
		out[name] = v
	}
	return out
}
