// Package state 从求解结果推导元件与连线的可视状态。
// 纯函数：相同输入得到相同输出，无内部状态，无副作用。
package state

import (
	"math"

	"circuitsim/analysis"
	"circuitsim/circuit"
)

// 状态阈值。
const (
	WarningPowerRatio = 0.8   // 额定功率的80%以上为警告
	LEDOnCurrent      = 0.001 // LED导通电流阈值（A）
	LEDFullCurrent    = 0.02  // LED满亮度参考电流（A）
	WireHighCurrent   = 0.5   // 连线大电流阈值（A）
)

// 元件状态分类。
const (
	StatusNormal   = "normal"
	StatusWarning  = "warning"
	StatusOverload = "overload"
	StatusOn       = "on"
	StatusOff      = "off"
)

// ComponentState 单个元件的可视状态。
type ComponentState struct {
	Voltage float64 `json:"voltage"`
	Current float64 `json:"current"`
	Power   float64 `json:"power"`
	Status  string  `json:"status"`
	// Brightness LED亮度百分比 [0,100]，仅LED类元件有意义。
	Brightness float64 `json:"brightness,omitempty"`
}

// WireState 单条连线的可视状态。电流取连线源端元件的电流。
type WireState struct {
	Current   float64 `json:"current"`
	Thickness float64 `json:"thickness"`
	Color     string  `json:"color"` // normal 或 high
}

// ForComponents 推导所有元件的可视状态。
// 电阻按耗散功率与额定功率比较分级；LED按电流阈值判断亮灭，
// 亮度按参考电流线性缩放并截断到 [0,100]。
func ForComponents(comps []circuit.Component, res *analysis.DCResult) map[string]ComponentState {
	states := make(map[string]ComponentState, len(comps))
	for _, c := range comps {
		v := res.Voltages[c.ID]
		i := res.Currents[c.ID]
		st := ComponentState{
			Voltage: v,
			Current: i,
			Power:   v * i,
			Status:  StatusNormal,
		}
		switch c.Kind {
		case circuit.KindResistor:
			rated := c.Props.RatedPower()
			switch {
			case st.Power > rated:
				st.Status = StatusOverload
			case st.Power > rated*WarningPowerRatio:
				st.Status = StatusWarning
			}
		case circuit.KindLED:
			if i > LEDOnCurrent {
				st.Status = StatusOn
				st.Brightness = math.Min(100, i/LEDFullCurrent*100)
			} else {
				st.Status = StatusOff
				st.Brightness = 0
			}
		}
		states[c.ID] = st
	}
	return states
}

// ForWires 推导所有连线的可视状态，按连线在列表中的顺序编号。
// 线宽 2 + min(4, 10·I)，电流达到阈值时标记为大电流。
func ForWires(wires []circuit.Wire, res *analysis.DCResult) map[int]WireState {
	states := make(map[int]WireState, len(wires))
	for idx, w := range wires {
		i := res.Currents[w.From.Component]
		color := StatusNormal
		if i >= WireHighCurrent {
			color = "high"
		}
		states[idx] = WireState{
			Current:   i,
			Thickness: 2 + math.Min(4, i*10),
			Color:     color,
		}
	}
	return states
}
