package analysis

import (
	"fmt"
	"math"
	"math/cmplx"

	"github.com/pkg/errors"

	"circuitsim/circuit"
	"circuitsim/mna"
	"circuitsim/topology"
)

// ACResult 交流扫描结果。每个非地节点一条幅值曲线与一条相位曲线，
// 与 Frequencies 等长。幅值为线性幅值，相位为度。
type ACResult struct {
	Frequencies []float64            `json:"frequencies"`
	Magnitude   map[string][]float64 `json:"magnitude"`
	Phase       map[string][]float64 `json:"phase"`
	Unmodeled   []string             `json:"unmodeled,omitempty"`
}

// AC 复阻抗频率扫描。每个频率点装配一次复数MNA系统并求解：
// 电阻 1/R、电容 jωC、电感 1/(jωL)。
// 空电路返回空扫描（成功而非错误）。
func AC(comps []circuit.Component, wires []circuit.Wire, p ACParams) (*ACResult, error) {
	if err := p.Validate(); err != nil {
		return nil, err
	}
	res := &ACResult{
		Magnitude: make(map[string][]float64),
		Phase:     make(map[string][]float64),
	}
	if len(comps) == 0 {
		res.Frequencies = []float64{}
		return res, nil
	}
	net, err := topology.Build(comps, wires)
	if err != nil {
		return nil, err
	}
	asm := mna.NewAssembler(net, comps)
	res.Frequencies = p.Frequencies()
	for n := 1; n <= net.NumNodes(); n++ {
		key := fmt.Sprintf("node_%d", n)
		res.Magnitude[key] = make([]float64, 0, len(res.Frequencies))
		res.Phase[key] = make([]float64, 0, len(res.Frequencies))
	}
	for _, freq := range res.Frequencies {
		sys, meta, err := asm.AC(freq)
		if err != nil {
			return nil, err
		}
		if err := sys.Solve(); err != nil {
			return nil, errors.Wrapf(err, "ac sweep at %g Hz", freq)
		}
		res.Unmodeled = meta.Unmodeled
		for n := 1; n <= net.NumNodes(); n++ {
			key := fmt.Sprintf("node_%d", n)
			v := sys.NodeVoltage(n)
			res.Magnitude[key] = append(res.Magnitude[key], cmplx.Abs(v))
			res.Phase[key] = append(res.Phase[key], cmplx.Phase(v)*180/math.Pi)
		}
	}
	return res, nil
}
