// Package circuitsim 电路仿真引擎的公共门面。
// 每个操作都是参数的纯函数：构建全新的引擎状态、运行一次分析、
// 返回带运行记录的结果信封。操作之间不共享可变状态。
package circuitsim

import (
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/pkg/errors"

	"circuitsim/analysis"
	"circuitsim/circuit"
	"circuitsim/digital"
	"circuitsim/state"
)

// AnalysisKind 分析类型记号。
type AnalysisKind string

const (
	AnalysisDC        AnalysisKind = "dc"
	AnalysisAC        AnalysisKind = "ac"
	AnalysisTransient AnalysisKind = "transient"
)

// ParseAnalysisKind 解析分析类型记号，大小写不敏感。
// 未识别的记号是面向调用方的校验错误，不会引发崩溃。
func ParseAnalysisKind(s string) (AnalysisKind, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "dc":
		return AnalysisDC, nil
	case "ac":
		return AnalysisAC, nil
	case "transient":
		return AnalysisTransient, nil
	}
	return "", errors.Wrapf(analysis.ErrInvalidParameters, "unknown analysis type %q", s)
}

// 运行状态。
const (
	StatusCompleted = "completed"
	StatusFailed    = "failed"
)

// RunRecord 一次仿真运行的记录信封。
type RunRecord struct {
	ID        string        `json:"id"`
	Kind      string        `json:"kind"`
	StartedAt time.Time     `json:"started_at"`
	Elapsed   time.Duration `json:"elapsed"`
	Status    string        `json:"status"`
	// Error 失败原因描述；Err 保留类型化错误供 errors.Is 判别。
	Error string `json:"error,omitempty"`
	Err   error  `json:"-"`
}

// newRun 开始一次运行并记录日志。
func newRun(kind string) RunRecord {
	rec := RunRecord{
		ID:        uuid.New().String(),
		Kind:      kind,
		StartedAt: time.Now(),
	}
	slog.Info("simulation started", "run", rec.ID, "kind", kind)
	return rec
}

// finish 结束一次运行，填充状态并记录日志。
func (rec *RunRecord) finish(err error) {
	rec.Elapsed = time.Since(rec.StartedAt)
	if err != nil {
		rec.Status = StatusFailed
		rec.Error = err.Error()
		rec.Err = err
		slog.Error("simulation failed", "run", rec.ID, "kind", rec.Kind, "elapsed", rec.Elapsed, "error", err)
		return
	}
	rec.Status = StatusCompleted
	slog.Info("simulation completed", "run", rec.ID, "kind", rec.Kind, "elapsed", rec.Elapsed)
}

// DCRun 直流工作点运行结果：求解结果加推导出的可视状态。
type DCRun struct {
	Run             RunRecord                       `json:"run"`
	Result          *analysis.DCResult              `json:"result,omitempty"`
	ComponentStates map[string]state.ComponentState `json:"component_states,omitempty"`
	WireStates      map[int]state.WireState         `json:"wire_states,omitempty"`
}

// RunDC 运行直流工作点分析并推导元件/连线状态。
func RunDC(comps []circuit.Component, wires []circuit.Wire) *DCRun {
	rec := newRun(string(AnalysisDC))
	comps = circuit.Normalize(comps)
	out := &DCRun{}
	res, err := analysis.DC(comps, wires)
	if err == nil {
		out.Result = res
		out.ComponentStates = state.ForComponents(comps, res)
		out.WireStates = state.ForWires(wires, res)
	}
	rec.finish(err)
	out.Run = rec
	return out
}

// ACRun 交流扫描运行结果。
type ACRun struct {
	Run    RunRecord          `json:"run"`
	Result *analysis.ACResult `json:"result,omitempty"`
}

// RunAC 运行交流频率扫描。
func RunAC(comps []circuit.Component, wires []circuit.Wire, p analysis.ACParams) *ACRun {
	rec := newRun(string(AnalysisAC))
	comps = circuit.Normalize(comps)
	out := &ACRun{}
	res, err := analysis.AC(comps, wires, p)
	if err == nil {
		out.Result = res
	}
	rec.finish(err)
	out.Run = rec
	return out
}

// TransientRun 瞬态分析运行结果。
type TransientRun struct {
	Run    RunRecord                 `json:"run"`
	Result *analysis.TransientResult `json:"result,omitempty"`
}

// RunTransient 运行瞬态时域分析。
func RunTransient(comps []circuit.Component, wires []circuit.Wire, p analysis.TransientParams) *TransientRun {
	rec := newRun(string(AnalysisTransient))
	comps = circuit.Normalize(comps)
	out := &TransientRun{}
	res, err := analysis.Transient(comps, wires, p)
	if err == nil {
		out.Result = res
	}
	rec.finish(err)
	out.Run = rec
	return out
}

// GateSpec 数字电路门定义。
type GateSpec struct {
	ID     string  `json:"id"`
	Type   string  `json:"type"`
	Inputs int     `json:"num_inputs"`
	Delay  float64 `json:"delay"`
}

// FlipFlopSpec 数字电路触发器定义。
type FlipFlopSpec struct {
	ID   string `json:"id"`
	Edge string `json:"edge_trigger"`
}

// WireSpec 数字电路连线定义。FromOutput 缺省取源端的主输出，
// 触发器可显式指定 q 或 q_not。
type WireSpec struct {
	ID         string `json:"id"`
	From       string `json:"from_gate"`
	FromOutput string `json:"from_output"`
	To         string `json:"to_gate"`
	ToInput    int    `json:"to_input"`
}

// DigitalCircuit 数字电路描述。
type DigitalCircuit struct {
	Gates     []GateSpec     `json:"gates"`
	FlipFlops []FlipFlopSpec `json:"flip_flops"`
	Wires     []WireSpec     `json:"wires"`
}

// build 根据描述构建仿真会话。记号大小写不敏感，
// 未识别的门类型或触发沿是校验错误。
func (dc DigitalCircuit) build() (*digital.Simulator, error) {
	sim := digital.NewSimulator()
	for _, g := range dc.Gates {
		kind, err := digital.ParseGateKind(g.Type)
		if err != nil {
			return nil, err
		}
		n := g.Inputs
		if n == 0 {
			n = 2
		}
		if err := sim.AddGate(g.ID, kind, n, g.Delay); err != nil {
			return nil, err
		}
	}
	for _, ff := range dc.FlipFlops {
		edge, err := digital.ParseEdge(ff.Edge)
		if err != nil {
			return nil, err
		}
		if err := sim.AddFlipFlop(ff.ID, edge); err != nil {
			return nil, err
		}
	}
	for _, w := range dc.Wires {
		if err := sim.AddWire(w.ID, w.From, w.FromOutput, w.To, w.ToInput); err != nil {
			return nil, err
		}
	}
	return sim, nil
}

func levels(inputs map[string]int) map[string]digital.Level {
	out := make(map[string]digital.Level, len(inputs))
	for name, v := range inputs {
		out[name] = digital.LevelOf(v)
	}
	return out
}

// DigitalSimulateRun 数字采样仿真运行结果。
type DigitalSimulateRun struct {
	Run     RunRecord        `json:"run"`
	Samples []digital.Sample `json:"samples,omitempty"`
}

// DigitalSimulate 按固定步长采样数字电路。
func DigitalSimulate(dc DigitalCircuit, inputs map[string]int, duration, step float64) *DigitalSimulateRun {
	rec := newRun("digital")
	out := &DigitalSimulateRun{}
	sim, err := dc.build()
	if err == nil {
		out.Samples, err = sim.Simulate(levels(inputs), duration, step)
	}
	rec.finish(err)
	out.Run = rec
	return out
}

// DigitalTruthTableRun 真值表运行结果。
type DigitalTruthTableRun struct {
	Run  RunRecord               `json:"run"`
	Rows []digital.TruthTableRow `json:"rows,omitempty"`
}

// DigitalTruthTable 枚举组合电路的真值表。
func DigitalTruthTable(dc DigitalCircuit, inputNames, outputNames []string) *DigitalTruthTableRun {
	rec := newRun("truth_table")
	out := &DigitalTruthTableRun{}
	sim, err := dc.build()
	if err == nil {
		out.Rows, err = sim.TruthTable(inputNames, outputNames)
	}
	rec.finish(err)
	out.Run = rec
	return out
}

// DigitalClockCyclesRun 时钟周期驱动运行结果。
type DigitalClockCyclesRun struct {
	Run       RunRecord               `json:"run"`
	Snapshots []digital.CycleSnapshot `json:"snapshots,omitempty"`
}

// DigitalClockCycles 驱动时序电路运行指定数量的时钟周期。
func DigitalClockCycles(dc DigitalCircuit, clock string, initialInputs map[string]int, cycles int) *DigitalClockCyclesRun {
	rec := newRun("clock_cycles")
	out := &DigitalClockCyclesRun{}
	sim, err := dc.build()
	if err == nil {
		out.Snapshots, err = sim.ClockCycles(clock, levels(initialInputs), cycles)
	}
	rec.finish(err)
	out.Run = rec
	return out
}
