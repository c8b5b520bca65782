package digital

import (
	"github.com/pkg/errors"
)

// MaxClockCycles 时钟周期数上限。
const MaxClockCycles = 1000

// CycleSnapshot 一个时钟半周期结束时的电路状态。
type CycleSnapshot struct {
	Cycle     int              `json:"cycle"`
	Edge      string           `json:"edge"` // rising 或 falling
	Gates     map[string]Level `json:"gates"`
	FlipFlops map[string]Level `json:"flip_flops"`
	Settled   bool             `json:"settled"`
}

// ClockCycles 驱动时序电路运行 n 个时钟周期。
// 每个周期先把时钟拉高再拉低；每个半周期内：
// 驱动时钟输入与所有触发器的时钟引脚，组合逻辑传播到定点，
// 触发器在检测到触发沿时捕获D，再次传播使Q的变化到达下游逻辑，
// 最后记录快照。上升沿与下降沿各一个快照。
func (s *Simulator) ClockCycles(clock string, initialInputs map[string]Level, n int) ([]CycleSnapshot, error) {
	if n < 1 || n > MaxClockCycles {
		return nil, errors.Wrapf(ErrInvalidParameters, "cycle count %d out of range [1,%d]", n, MaxClockCycles)
	}
	for name, v := range initialInputs {
		s.SetInput(name, v)
	}
	snapshots := make([]CycleSnapshot, 0, 2*n)
	for cycle := 0; cycle < n; cycle++ {
		snapshots = append(snapshots, s.halfCycle(clock, High, cycle, "rising"))
		snapshots = append(snapshots, s.halfCycle(clock, Low, cycle, "falling"))
	}
	return snapshots, nil
}

func (s *Simulator) halfCycle(clock string, level Level, cycle int, edge string) CycleSnapshot {
	s.SetInput(clock, level)
	for _, id := range s.ffOrder {
		s.ffs[id].SetClock(level)
	}
	report := s.Propagate()
	if s.updateFlipFlops() {
		// Q变化后需要再传播一轮，让下游组合逻辑看到新状态
		report = s.Propagate()
	}
	return CycleSnapshot{
		Cycle:     cycle,
		Edge:      edge,
		Gates:     s.gateLevels(),
		FlipFlops: s.ffLevels(),
		Settled:   report.Settled,
	}
}
