package circuitsim

import (
	"math"
	"testing"

	"github.com/pkg/errors"

	"circuitsim/analysis"
	"circuitsim/circuit"
	"circuitsim/digital"
	"circuitsim/topology"
)

func dividerCircuit() ([]circuit.Component, []circuit.Wire) {
	comps := []circuit.Component{
		{ID: "v1", Type: "battery", Props: circuit.Props{"voltage": 9.0}},
		{ID: "r1", Type: "resistor", Props: circuit.Props{"resistance": 1000.0}},
		{ID: "r2", Type: "resistor", Props: circuit.Props{"resistance": 2000.0}},
		{ID: "g1", Type: "ground"},
	}
	wires := []circuit.Wire{
		{From: circuit.Terminal{Component: "v1", Pin: 0}, To: circuit.Terminal{Component: "r1", Pin: 0}},
		{From: circuit.Terminal{Component: "r1", Pin: 1}, To: circuit.Terminal{Component: "r2", Pin: 0}},
		{From: circuit.Terminal{Component: "r2", Pin: 1}, To: circuit.Terminal{Component: "g1", Pin: 0}},
		{From: circuit.Terminal{Component: "v1", Pin: 1}, To: circuit.Terminal{Component: "g1", Pin: 0}},
	}
	return comps, wires
}

func TestParseAnalysisKind(t *testing.T) {
	if k, err := ParseAnalysisKind("DC"); err != nil || k != AnalysisDC {
		t.Errorf("大写记号解析失败: %v %v", k, err)
	}
	if _, err := ParseAnalysisKind("noise"); !errors.Is(err, analysis.ErrInvalidParameters) {
		t.Errorf("未知分析类型应返回校验错误: %v", err)
	}
}

func TestRunDC(t *testing.T) {
	comps, wires := dividerCircuit()
	run := RunDC(comps, wires)
	if run.Run.Status != StatusCompleted {
		t.Fatalf("运行应成功: %+v", run.Run)
	}
	if run.Run.ID == "" {
		t.Error("运行记录缺少ID")
	}
	if math.Abs(run.Result.NodeVoltages["node_2"]-6) > 1e-6 {
		t.Errorf("中点电压不正确: %v", run.Result.NodeVoltages)
	}
	// 元件状态随结果一并推导
	if st, ok := run.ComponentStates["r1"]; !ok || st.Status == "" {
		t.Errorf("缺少元件状态: %+v", run.ComponentStates)
	}
	if len(run.WireStates) != len(wires) {
		t.Errorf("连线状态数量不正确: %d", len(run.WireStates))
	}
}

func TestRunDCFailure(t *testing.T) {
	comps, wires := dividerCircuit()
	run := RunDC(comps[:3], wires[:2]) // 无地
	if run.Run.Status != StatusFailed {
		t.Fatalf("无地电路应失败: %+v", run.Run)
	}
	if !errors.Is(run.Run.Err, topology.ErrNoGround) {
		t.Errorf("运行记录应保留类型化错误: %v", run.Run.Err)
	}
	if run.Result != nil {
		t.Error("失败运行不应携带结果")
	}
}

func TestRunAC(t *testing.T) {
	comps, wires := dividerCircuit()
	run := RunAC(comps, wires, analysis.ACParams{StartFreq: 1, StopFreq: 100, Points: 5})
	if run.Run.Status != StatusCompleted {
		t.Fatalf("运行应成功: %+v", run.Run)
	}
	if len(run.Result.Frequencies) == 0 {
		t.Error("频率轴为空")
	}
}

func TestRunTransient(t *testing.T) {
	comps, wires := dividerCircuit()
	run := RunTransient(comps, wires, analysis.TransientParams{Start: 0, Step: 0.001, End: 0.01})
	if run.Run.Status != StatusCompleted {
		t.Fatalf("运行应成功: %+v", run.Run)
	}
	if len(run.Result.Time) != len(run.Result.Voltages["node_2"]) {
		t.Error("曲线长度与时间轴不一致")
	}
}

func andDigital() DigitalCircuit {
	return DigitalCircuit{
		Gates: []GateSpec{
			{ID: "a", Type: "buffer", Inputs: 1},
			{ID: "b", Type: "buffer", Inputs: 1},
			{ID: "and1", Type: "and", Inputs: 2},
		},
		Wires: []WireSpec{
			{ID: "w1", From: "a", To: "and1", ToInput: 0},
			{ID: "w2", From: "b", To: "and1", ToInput: 1},
		},
	}
}

func TestDigitalTruthTable(t *testing.T) {
	run := DigitalTruthTable(andDigital(), []string{"a", "b"}, []string{"and1"})
	if run.Run.Status != StatusCompleted {
		t.Fatalf("运行应成功: %+v", run.Run)
	}
	if len(run.Rows) != 4 {
		t.Fatalf("行数不正确: %d", len(run.Rows))
	}
	if run.Rows[3].Outputs["and1"] != digital.High {
		t.Errorf("(1,1)行输出应为高: %v", run.Rows[3].Outputs)
	}
}

func TestDigitalSimulate(t *testing.T) {
	run := DigitalSimulate(andDigital(), map[string]int{"a": 1, "b": 1}, 0.001, 0.0001)
	if run.Run.Status != StatusCompleted {
		t.Fatalf("运行应成功: %+v", run.Run)
	}
	last := run.Samples[len(run.Samples)-1]
	if last.Gates["and1"] != digital.High {
		t.Errorf("AND输出不正确: %v", last.Gates["and1"])
	}
}

func TestDigitalClockCycles(t *testing.T) {
	dc := DigitalCircuit{
		Gates: []GateSpec{
			{ID: "d", Type: "buffer", Inputs: 1},
			{ID: "clk", Type: "buffer", Inputs: 1},
		},
		FlipFlops: []FlipFlopSpec{{ID: "ff1", Edge: "rising"}},
		Wires:     []WireSpec{{ID: "wd", From: "d", To: "ff1", ToInput: 0}},
	}
	run := DigitalClockCycles(dc, "clk", map[string]int{"d": 1}, 2)
	if run.Run.Status != StatusCompleted {
		t.Fatalf("运行应成功: %+v", run.Run)
	}
	if run.Snapshots[0].FlipFlops["ff1"] != digital.High {
		t.Errorf("首个上升沿后Q应为高: %+v", run.Snapshots[0])
	}
}

func TestDigitalValidation(t *testing.T) {
	dc := DigitalCircuit{Gates: []GateSpec{{ID: "g1", Type: "mystery"}}}
	run := DigitalTruthTable(dc, []string{"g1"}, nil)
	if run.Run.Status != StatusFailed {
		t.Fatal("未知门类型应失败")
	}
	if !errors.Is(run.Run.Err, digital.ErrInvalidParameters) {
		t.Errorf("应保留类型化校验错误: %v", run.Run.Err)
	}
}
