package digital

import (
	"testing"

	"github.com/pkg/errors"
)

// andCircuit 两个BUFFER输入门接一个AND门。
func andCircuit(t *testing.T) *Simulator {
	t.Helper()
	s := NewSimulator()
	mustAddGate(t, s, "a", GateBUFFER, 1)
	mustAddGate(t, s, "b", GateBUFFER, 1)
	mustAddGate(t, s, "and1", GateAND, 2)
	mustAddWire(t, s, "w1", "a", "and1", 0)
	mustAddWire(t, s, "w2", "b", "and1", 1)
	return s
}

func mustAddGate(t *testing.T, s *Simulator, id string, kind GateKind, n int) {
	t.Helper()
	if err := s.AddGate(id, kind, n, 0); err != nil {
		t.Fatalf("添加门 %s 失败: %v", id, err)
	}
}

func mustAddWire(t *testing.T, s *Simulator, id, from, to string, toInput int) {
	t.Helper()
	if err := s.AddWire(id, from, "", to, toInput); err != nil {
		t.Fatalf("添加连线 %s 失败: %v", id, err)
	}
}

func TestParseGateKind(t *testing.T) {
	k, err := ParseGateKind("nand")
	if err != nil || k != GateNAND {
		t.Errorf("小写记号解析失败: %v %v", k, err)
	}
	if _, err := ParseGateKind("TRISTATE"); !errors.Is(err, ErrInvalidParameters) {
		t.Errorf("未知门类型应返回校验错误, 实际 %v", err)
	}
}

func TestGateEvaluate(t *testing.T) {
	cases := []struct {
		kind GateKind
		in   []Level
		want Level
	}{
		{GateAND, []Level{High, High}, High},
		{GateAND, []Level{High, Low}, Low},
		{GateOR, []Level{Low, Low}, Low},
		{GateOR, []Level{Low, High}, High},
		{GateNOT, []Level{Low}, High},
		{GateNAND, []Level{High, High}, Low},
		{GateNOR, []Level{Low, Low}, High},
		{GateXOR, []Level{High, High, High}, High}, // 奇数个高电平
		{GateXOR, []Level{High, High}, Low},
		{GateXNOR, []Level{High, Low}, Low},
		{GateBUFFER, []Level{High}, High},
		{GateAND, []Level{High, Unknown}, Unknown}, // Unknown保守传播
		{GateNOT, []Level{Unknown}, Unknown},
	}
	for i, c := range cases {
		g := &Gate{Kind: c.kind, Inputs: c.in}
		if got := g.Evaluate(); got != c.want {
			t.Errorf("用例%d (%v %v): 期望 %v, 实际 %v", i, c.kind, c.in, c.want, got)
		}
	}
}

func TestAddGateArity(t *testing.T) {
	s := NewSimulator()
	if err := s.AddGate("g0", GateAND, 0, 0); !errors.Is(err, ErrInvalidParameters) {
		t.Errorf("0输入应被拒绝: %v", err)
	}
	if err := s.AddGate("g9", GateAND, 9, 0); !errors.Is(err, ErrInvalidParameters) {
		t.Errorf("9输入应被拒绝: %v", err)
	}
	if err := s.AddGate("g1", GateAND, 2, 0); err != nil {
		t.Fatalf("合法门添加失败: %v", err)
	}
	if err := s.AddGate("g1", GateOR, 2, 0); !errors.Is(err, ErrInvalidParameters) {
		t.Errorf("重复ID应被拒绝: %v", err)
	}
}

func TestPropagateSettles(t *testing.T) {
	s := andCircuit(t)
	s.SetInput("a", High)
	s.SetInput("b", High)
	report := s.Propagate()
	if !report.Settled {
		t.Fatal("组合电路应收敛")
	}
	if got := s.Gate("and1").Output; got != High {
		t.Errorf("AND输出不正确: %v", got)
	}
	s.SetInput("b", Low)
	s.Propagate()
	if got := s.Gate("and1").Output; got != Low {
		t.Errorf("输入变化后AND输出不正确: %v", got)
	}
}

func TestPropagateUnknown(t *testing.T) {
	s := andCircuit(t)
	s.SetInput("a", High) // b 保持 Unknown
	s.Propagate()
	if got := s.Gate("and1").Output; got != Unknown {
		t.Errorf("未知输入应传播为Unknown: %v", got)
	}
}

func TestPropagateOscillation(t *testing.T) {
	// NOT门自环：永不收敛，应在迭代上限处停止并报告
	s := NewSimulator()
	mustAddGate(t, s, "n1", GateNOT, 1)
	mustAddWire(t, s, "loop", "n1", "n1", 0)
	s.Gate("n1").Output = Low
	report := s.Propagate()
	if report.Settled {
		t.Error("自环电路不应收敛")
	}
	if report.Iterations != MaxPropagationPasses {
		t.Errorf("应在迭代上限处停止: %d", report.Iterations)
	}
}

func TestTruthTableAND(t *testing.T) {
	s := andCircuit(t)
	rows, err := s.TruthTable([]string{"a", "b"}, []string{"and1"})
	if err != nil {
		t.Fatalf("真值表生成失败: %v", err)
	}
	if len(rows) != 4 {
		t.Fatalf("2输入应有4行: %d", len(rows))
	}
	// 第i行第j位取 (i>>j)&1
	want := []Level{Low, Low, Low, High}
	for i, row := range rows {
		if !row.Settled {
			t.Errorf("第%d行未收敛", i)
		}
		if row.Inputs["a"] != i&1 || row.Inputs["b"] != (i>>1)&1 {
			t.Errorf("第%d行输入组合不正确: %v", i, row.Inputs)
		}
		if row.Outputs["and1"] != want[i] {
			t.Errorf("第%d行输出不正确: 期望 %v, 实际 %v", i, want[i], row.Outputs["and1"])
		}
	}
}

func TestTruthTableValidation(t *testing.T) {
	s := andCircuit(t)
	if _, err := s.TruthTable(nil, []string{"and1"}); !errors.Is(err, ErrInvalidParameters) {
		t.Errorf("空输入列表应被拒绝: %v", err)
	}
	if _, err := s.TruthTable([]string{"a"}, []string{"missing"}); !errors.Is(err, ErrInvalidParameters) {
		t.Errorf("未知输出门应被拒绝: %v", err)
	}
}

func TestFlipFlopRisingEdge(t *testing.T) {
	ff := NewFlipFlop("ff1", EdgeRising)
	ff.SetD(High)
	ff.SetClock(High) // LOW→HIGH 上升沿
	if !ff.Update() {
		t.Fatal("上升沿应捕获D")
	}
	if ff.Q != High || ff.QNot != Low {
		t.Errorf("捕获后输出不正确: Q=%v Q̄=%v", ff.Q, ff.QNot)
	}
	// 时钟保持高电平不构成新的沿
	ff.SetD(Low)
	ff.SetClock(High)
	if ff.Update() {
		t.Error("电平保持不应触发捕获")
	}
	if ff.Q != High {
		t.Errorf("Q不应变化: %v", ff.Q)
	}
}

func TestFlipFlopUnknownCapture(t *testing.T) {
	ff := NewFlipFlop("ff1", EdgeRising)
	ff.SetD(Unknown)
	ff.SetClock(High)
	if !ff.Update() {
		t.Fatal("上升沿应捕获D")
	}
	if ff.Q != Unknown || ff.QNot != Unknown {
		t.Errorf("捕获Unknown时Q与Q̄都应为Unknown: Q=%v Q̄=%v", ff.Q, ff.QNot)
	}
}

func TestFlipFlopFallingEdge(t *testing.T) {
	ff := NewFlipFlop("ff1", EdgeFalling)
	ff.SetD(High)
	ff.SetClock(High)
	ff.Update()
	if ff.Q != Low {
		t.Fatal("上升沿不应触发下降沿触发器")
	}
	ff.SetClock(Low) // HIGH→LOW 下降沿
	if !ff.Update() || ff.Q != High {
		t.Errorf("下降沿应捕获D: Q=%v", ff.Q)
	}
}

// dffCircuit D输入恒为高的触发器电路。
func dffCircuit(t *testing.T) *Simulator {
	t.Helper()
	s := NewSimulator()
	mustAddGate(t, s, "d", GateBUFFER, 1)
	mustAddGate(t, s, "clk", GateBUFFER, 1)
	if err := s.AddFlipFlop("ff1", EdgeRising); err != nil {
		t.Fatalf("添加触发器失败: %v", err)
	}
	mustAddWire(t, s, "wd", "d", "ff1", 0)
	return s
}

func TestClockCyclesDFF(t *testing.T) {
	s := dffCircuit(t)
	snaps, err := s.ClockCycles("clk", map[string]Level{"d": High}, 2)
	if err != nil {
		t.Fatalf("时钟驱动失败: %v", err)
	}
	if len(snaps) != 4 { // 每周期上升+下降两个快照
		t.Fatalf("快照数量不正确: %d", len(snaps))
	}
	// 首个上升沿后Q必须为高
	if snaps[0].Edge != "rising" || snaps[0].FlipFlops["ff1"] != High {
		t.Errorf("首个上升沿后Q不正确: %+v", snaps[0])
	}
	// D恒为高，之后的所有快照Q保持高
	for i, snap := range snaps {
		if snap.FlipFlops["ff1"] != High {
			t.Errorf("快照%d: Q应保持高电平, 实际 %v", i, snap.FlipFlops["ff1"])
		}
	}
}

func TestWireFromQNot(t *testing.T) {
	// Q̄经连线送入缓冲门：D捕获为高后Q̄为低
	s := dffCircuit(t)
	mustAddGate(t, s, "out", GateBUFFER, 1)
	if err := s.AddWire("wq", "ff1", OutputQNot, "out", 0); err != nil {
		t.Fatalf("添加Q̄连线失败: %v", err)
	}
	snaps, err := s.ClockCycles("clk", map[string]Level{"d": High}, 1)
	if err != nil {
		t.Fatalf("时钟驱动失败: %v", err)
	}
	if snaps[0].FlipFlops["ff1"] != High {
		t.Fatalf("上升沿后Q应为高: %+v", snaps[0])
	}
	if got := s.Gate("out").Output; got != Low {
		t.Errorf("Q̄下游电平不正确: %v", got)
	}
}

func TestAddWireValidation(t *testing.T) {
	s := dffCircuit(t)
	// 门源端没有q_not输出
	if err := s.AddWire("w1", "d", OutputQNot, "clk", 0); !errors.Is(err, ErrInvalidParameters) {
		t.Errorf("门源端q_not应被拒绝: %v", err)
	}
	// 未知输出名
	if err := s.AddWire("w2", "ff1", "carry", "clk", 0); !errors.Is(err, ErrInvalidParameters) {
		t.Errorf("未知输出名应被拒绝: %v", err)
	}
	// 触发器目的端只有D输入（索引0）
	if err := s.AddWire("w3", "d", "", "ff1", 1); !errors.Is(err, ErrInvalidParameters) {
		t.Errorf("触发器输入索引1应被拒绝: %v", err)
	}
}

func TestClockCyclesValidation(t *testing.T) {
	s := dffCircuit(t)
	if _, err := s.ClockCycles("clk", nil, 0); !errors.Is(err, ErrInvalidParameters) {
		t.Errorf("0周期应被拒绝: %v", err)
	}
}

func TestSimulateSamples(t *testing.T) {
	s := andCircuit(t)
	samples, err := s.Simulate(map[string]Level{"a": High, "b": High}, 0.001, 0.0001)
	if err != nil {
		t.Fatalf("采样仿真失败: %v", err)
	}
	if len(samples) != 11 { // 两端都包含
		t.Fatalf("采样点数不正确: %d", len(samples))
	}
	last := samples[len(samples)-1]
	if last.Gates["and1"] != High {
		t.Errorf("末样本AND输出不正确: %v", last.Gates["and1"])
	}
	if last.Wires["w1"] != High {
		t.Errorf("末样本连线信号不正确: %v", last.Wires["w1"])
	}
}

func TestSimulateValidation(t *testing.T) {
	s := andCircuit(t)
	if _, err := s.Simulate(nil, -1, 0.1); !errors.Is(err, ErrInvalidParameters) {
		t.Errorf("负时长应被拒绝: %v", err)
	}
	if _, err := s.Simulate(nil, 1, 0); !errors.Is(err, ErrInvalidParameters) {
		t.Errorf("非正步长应被拒绝: %v", err)
	}
	if _, err := s.Simulate(nil, 1000, 1e-6); !errors.Is(err, ErrInvalidParameters) {
		t.Errorf("超过采样上限应被拒绝: %v", err)
	}
	// 采样点数超出int范围时整数转换会回绕为负值，上限检查必须仍然生效
	if _, err := s.Simulate(nil, 1e10, 1e-9); !errors.Is(err, ErrInvalidParameters) {
		t.Errorf("极端参数应被采样上限拒绝: %v", err)
	}
}

func TestDescribe(t *testing.T) {
	s := dffCircuit(t)
	d := s.Describe()
	if len(d.Gates) != 2 || d.Gates[0].ID != "d" || d.Gates[1].ID != "clk" {
		t.Errorf("门描述不正确: %+v", d.Gates)
	}
	if len(d.FlipFlops) != 1 || d.FlipFlops[0].Edge != "rising" {
		t.Errorf("触发器描述不正确: %+v", d.FlipFlops)
	}
	if len(d.Wires) != 1 || d.Wires[0].From != "d" {
		t.Errorf("连线描述不正确: %+v", d.Wires)
	}
}
