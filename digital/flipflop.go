package digital

// FlipFlop D触发器。沿检测比较上一时钟电平与当前时钟电平；
// 只在配置的触发沿上 Q 捕获 D，Q̄ 为其反相。
// 触发器不参与定点传播循环，只由时钟驱动器显式更新，
// 避免组合稳定与时钟捕获之间的竞争。
type FlipFlop struct {
	ID   string
	Edge Edge

	D         Level
	clock     Level
	prevClock Level

	Q    Level
	QNot Level
}

// NewFlipFlop 创建复位状态的触发器：Q=LOW，时钟为低。
func NewFlipFlop(id string, edge Edge) *FlipFlop {
	return &FlipFlop{
		ID:        id,
		Edge:      edge,
		D:         Unknown,
		clock:     Low,
		prevClock: Low,
		Q:         Low,
		QNot:      High,
	}
}

// SetD 设置数据输入。
func (ff *FlipFlop) SetD(v Level) { ff.D = v }

// SetClock 设置时钟电平并保留上一电平用于沿检测。
func (ff *FlipFlop) SetClock(v Level) {
	ff.prevClock = ff.clock
	ff.clock = v
}

// edgeDetected 当前时钟变化是否构成配置的触发沿。
func (ff *FlipFlop) edgeDetected() bool {
	if ff.Edge == EdgeFalling {
		return ff.prevClock == High && ff.clock == Low
	}
	return ff.prevClock == Low && ff.clock == High
}

// Update 在触发沿上捕获 D 到 Q。输出变化时返回真。
func (ff *FlipFlop) Update() bool {
	if !ff.edgeDetected() {
		return false
	}
	if ff.D == ff.Q {
		return false
	}
	ff.Q = ff.D
	switch ff.Q {
	case Low:
		ff.QNot = High
	case High:
		ff.QNot = Low
	default:
		// Unknown的反相仍是Unknown
		ff.QNot = ff.Q
	}
	return true
}
