package analysis

import (
	"fmt"
	"math"

	"github.com/pkg/errors"

	"circuitsim/circuit"
	"circuitsim/mna"
	"circuitsim/topology"
)

// DCResult 直流工作点结果。
// NodeVoltages 按节点编号给出各非地节点电压；
// Voltages 与 Currents 按元件ID给出电压/电流幅值（取绝对值，
// 供可视化层使用，符号信息通过节点电压保留）。
type DCResult struct {
	NodeVoltages map[string]float64 `json:"node_voltages"`
	Voltages     map[string]float64 `json:"voltages"`
	Currents     map[string]float64 `json:"currents"`
	// Unmodeled 线性模型未覆盖、未参与求解的元件ID。
	Unmodeled []string `json:"unmodeled,omitempty"`
}

// DC 求解直流工作点：构建节点图、装配MNA系统、LU求解一次。
func DC(comps []circuit.Component, wires []circuit.Wire) (*DCResult, error) {
	net, err := topology.Build(comps, wires)
	if err != nil {
		return nil, err
	}
	asm := mna.NewAssembler(net, comps)
	sys, meta, err := asm.DC()
	if err != nil {
		return nil, err
	}
	if err := sys.Solve(); err != nil {
		return nil, errors.Wrap(err, "dc operating point")
	}
	return extractDC(net, comps, sys, meta), nil
}

func extractDC(net *topology.Netlist, comps []circuit.Component, sys *mna.System[float64], meta *mna.Assembly) *DCResult {
	res := &DCResult{
		NodeVoltages: make(map[string]float64),
		Voltages:     make(map[string]float64),
		Currents:     make(map[string]float64),
		Unmodeled:    meta.Unmodeled,
	}
	for n := 1; n <= sys.NumNodes(); n++ {
		res.NodeVoltages[fmt.Sprintf("node_%d", n)] = sys.NodeVoltage(n)
	}
	for _, c := range comps {
		v := sys.NodeVoltage(net.NodeOf(c.ID, 0)) - sys.NodeVoltage(net.NodeOf(c.ID, 1))
		switch c.Kind {
		case circuit.KindResistor:
			r := c.Props.Resistance()
			res.Voltages[c.ID] = math.Abs(v)
			res.Currents[c.ID] = math.Abs(v / r)
		case circuit.KindBattery:
			res.Voltages[c.ID] = c.Props.Voltage()
			res.Currents[c.ID] = math.Abs(sys.SourceCurrent(meta.SourceIndex[c.ID]))
		case circuit.KindInductor:
			// 直流下电感为0V源支路，电流取支路未知量
			res.Voltages[c.ID] = 0
			res.Currents[c.ID] = math.Abs(sys.SourceCurrent(meta.SourceIndex[c.ID]))
		case circuit.KindCapacitor:
			// 直流开路：有电压无电流
			res.Voltages[c.ID] = math.Abs(v)
			res.Currents[c.ID] = 0
		case circuit.KindCurrentSource:
			res.Voltages[c.ID] = math.Abs(v)
			res.Currents[c.ID] = c.Props.Current()
		case circuit.KindSwitch:
			res.Voltages[c.ID] = math.Abs(v)
			if c.Props.Closed() {
				res.Currents[c.ID] = math.Abs(v / circuit.SwitchOnResistance)
			} else {
				res.Currents[c.ID] = 0
			}
		}
	}
	return res
}
