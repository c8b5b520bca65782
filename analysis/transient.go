package analysis

import (
	"fmt"
	"math"

	"github.com/pkg/errors"

	"circuitsim/circuit"
	"circuitsim/mna"
	"circuitsim/topology"
)

// TransientResult 瞬态分析结果。每条电压/电流曲线与 Time 等长。
// 节点电压按 node_N 键给出，元件电压/电流幅值按元件ID给出。
type TransientResult struct {
	Time      []float64            `json:"time"`
	Voltages  map[string][]float64 `json:"voltages"`
	Currents  map[string][]float64 `json:"currents"`
	Unmodeled []string             `json:"unmodeled,omitempty"`
}

// Transient 瞬态时域分析。每个采样点用向后欧拉伴随模型重新装配并求解，
// 电抗元件状态（电容电压、电感电流）在时间步之间携带，
// 使充放电动态在输出中可见。
func Transient(comps []circuit.Component, wires []circuit.Wire, p TransientParams) (*TransientResult, error) {
	if err := p.Validate(); err != nil {
		return nil, err
	}
	net, err := topology.Build(comps, wires)
	if err != nil {
		return nil, err
	}
	asm := mna.NewAssembler(net, comps)
	st := mna.NewReactiveState()
	res := &TransientResult{
		Time:     p.Times(),
		Voltages: make(map[string][]float64),
		Currents: make(map[string][]float64),
	}
	for _, t := range res.Time {
		sys, meta, err := asm.Transient(p.Step, st)
		if err != nil {
			return nil, err
		}
		if err := sys.Solve(); err != nil {
			return nil, errors.Wrapf(err, "transient step at t=%g", t)
		}
		res.Unmodeled = meta.Unmodeled
		reactive := asm.AdvanceState(sys, st, p.Step)
		res.record(net, comps, sys, meta, reactive)
	}
	return res, nil
}

// record 追加一个采样点。曲线在首个采样点惰性创建，保证全部等长。
func (res *TransientResult) record(net *topology.Netlist, comps []circuit.Component, sys *mna.System[float64], meta *mna.Assembly, reactive map[string]float64) {
	put := func(m map[string][]float64, key string, v float64) {
		if m[key] == nil {
			m[key] = make([]float64, 0, len(res.Time))
		}
		m[key] = append(m[key], v)
	}
	for n := 1; n <= sys.NumNodes(); n++ {
		put(res.Voltages, fmt.Sprintf("node_%d", n), sys.NodeVoltage(n))
	}
	for _, c := range comps {
		v := sys.NodeVoltage(net.NodeOf(c.ID, 0)) - sys.NodeVoltage(net.NodeOf(c.ID, 1))
		switch c.Kind {
		case circuit.KindResistor:
			put(res.Voltages, c.ID, math.Abs(v))
			put(res.Currents, c.ID, math.Abs(v/c.Props.Resistance()))
		case circuit.KindBattery:
			put(res.Voltages, c.ID, c.Props.Voltage())
			put(res.Currents, c.ID, math.Abs(sys.SourceCurrent(meta.SourceIndex[c.ID])))
		case circuit.KindCapacitor, circuit.KindInductor:
			put(res.Voltages, c.ID, math.Abs(v))
			put(res.Currents, c.ID, math.Abs(reactive[c.ID]))
		case circuit.KindCurrentSource:
			put(res.Voltages, c.ID, math.Abs(v))
			put(res.Currents, c.ID, c.Props.Current())
		}
	}
}
