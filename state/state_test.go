package state

import (
	"math"
	"reflect"
	"testing"

	"circuitsim/analysis"
	"circuitsim/circuit"
)

func TestForComponentsResistor(t *testing.T) {
	comps := []circuit.Component{
		{ID: "r1", Kind: circuit.KindResistor, Props: circuit.Props{"power": 0.25}},
	}
	cases := []struct {
		v, i float64
		want string
	}{
		{1, 0.1, StatusNormal},    // 0.1W
		{3, 0.07, StatusWarning},  // 0.21W > 80%×0.25
		{10, 0.05, StatusOverload}, // 0.5W > 0.25
	}
	for _, c := range cases {
		res := &analysis.DCResult{
			Voltages: map[string]float64{"r1": c.v},
			Currents: map[string]float64{"r1": c.i},
		}
		st := ForComponents(comps, res)["r1"]
		if st.Status != c.want {
			t.Errorf("功率 %vW: 期望 %s, 实际 %s", c.v*c.i, c.want, st.Status)
		}
		if math.Abs(st.Power-c.v*c.i) > 1e-12 {
			t.Errorf("功率计算不正确: %v", st.Power)
		}
	}
}

func TestForComponentsLED(t *testing.T) {
	comps := []circuit.Component{{ID: "led1", Kind: circuit.KindLED}}
	res := &analysis.DCResult{
		Voltages: map[string]float64{"led1": 2},
		Currents: map[string]float64{"led1": 0.01},
	}
	st := ForComponents(comps, res)["led1"]
	if st.Status != StatusOn {
		t.Errorf("10mA应点亮LED: %s", st.Status)
	}
	if math.Abs(st.Brightness-50) > 1e-9 { // 10mA / 20mA × 100
		t.Errorf("亮度不正确: %v", st.Brightness)
	}

	// 大电流截断到100
	res.Currents["led1"] = 0.05
	if st := ForComponents(comps, res)["led1"]; st.Brightness != 100 {
		t.Errorf("亮度应截断到100: %v", st.Brightness)
	}

	// 阈值以下熄灭
	res.Currents["led1"] = 0.0005
	if st := ForComponents(comps, res)["led1"]; st.Status != StatusOff || st.Brightness != 0 {
		t.Errorf("小电流LED应熄灭: %+v", st)
	}
}

func TestForWires(t *testing.T) {
	wires := []circuit.Wire{
		{From: circuit.Terminal{Component: "r1"}, To: circuit.Terminal{Component: "g1"}},
		{From: circuit.Terminal{Component: "r2"}, To: circuit.Terminal{Component: "g1"}},
	}
	res := &analysis.DCResult{
		Currents: map[string]float64{"r1": 0.1, "r2": 0.8},
	}
	states := ForWires(wires, res)
	if states[0].Color != StatusNormal || math.Abs(states[0].Thickness-3) > 1e-9 {
		t.Errorf("小电流连线状态不正确: %+v", states[0])
	}
	if states[1].Color != "high" || math.Abs(states[1].Thickness-6) > 1e-9 {
		t.Errorf("大电流连线状态不正确: %+v", states[1])
	}
}

func TestDeriverIdempotent(t *testing.T) {
	comps := []circuit.Component{
		{ID: "r1", Kind: circuit.KindResistor},
		{ID: "led1", Kind: circuit.KindLED},
	}
	res := &analysis.DCResult{
		Voltages: map[string]float64{"r1": 5, "led1": 2},
		Currents: map[string]float64{"r1": 0.005, "led1": 0.01},
	}
	first := ForComponents(comps, res)
	second := ForComponents(comps, res)
	if !reflect.DeepEqual(first, second) {
		t.Error("相同输入的两次推导结果不一致")
	}
}
