package digital

// 门的输入数量范围。
const (
	MinGateInputs = 1
	MaxGateInputs = 8
)

// DefaultGateDelay 门传播延迟默认值（s），用于采样输出中的时序标注。
const DefaultGateDelay = 0.001

// Gate 组合逻辑门。输出是当前输入的纯函数，由传播循环重算。
type Gate struct {
	ID         string
	Kind       GateKind
	Inputs     []Level
	Output     Level
	Delay      float64
	LastChange float64 // 输出最近一次变化的仿真时间
}

// Evaluate 根据当前输入计算输出。任一输入为 Unknown 时保守地输出 Unknown。
func (g *Gate) Evaluate() Level {
	for _, in := range g.Inputs {
		if in == Unknown {
			return Unknown
		}
	}
	switch g.Kind {
	case GateAND:
		return boolLevel(g.allHigh())
	case GateOR:
		return boolLevel(g.anyHigh())
	case GateNOT:
		return boolLevel(g.Inputs[0] == Low)
	case GateNAND:
		return boolLevel(!g.allHigh())
	case GateNOR:
		return boolLevel(!g.anyHigh())
	case GateXOR:
		return boolLevel(g.highCount()%2 == 1)
	case GateXNOR:
		return boolLevel(g.highCount()%2 == 0)
	case GateBUFFER:
		return g.Inputs[0]
	}
	return Unknown
}

// update 重算输出，输出变化时更新时间戳并返回真。
func (g *Gate) update(now float64) bool {
	next := g.Evaluate()
	if next == g.Output {
		return false
	}
	g.Output = next
	g.LastChange = now
	return true
}

func (g *Gate) setInput(idx int, v Level) {
	if idx >= 0 && idx < len(g.Inputs) {
		g.Inputs[idx] = v
	}
}

func (g *Gate) allHigh() bool {
	for _, in := range g.Inputs {
		if in != High {
			return false
		}
	}
	return true
}

func (g *Gate) anyHigh() bool {
	for _, in := range g.Inputs {
		if in == High {
			return true
		}
	}
	return false
}

func (g *Gate) highCount() int {
	n := 0
	for _, in := range g.Inputs {
		if in == High {
			n++
		}
	}
	return n
}

func boolLevel(b bool) Level {
	if b {
		return High
	}
	return Low
}
