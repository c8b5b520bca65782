package digital

import (
	"github.com/pkg/errors"
)

// MaxSamples 连续采样点数上限。
const MaxSamples = 100_000

// Sample 一个采样时刻的电路快照。
type Sample struct {
	Time      float64          `json:"time"`
	Inputs    map[string]Level `json:"inputs"`
	Gates     map[string]Level `json:"gates"`
	FlipFlops map[string]Level `json:"flip_flops"`
	Wires     map[string]Level `json:"wires"`
	Settled   bool             `json:"settled"`
}

// Simulate 按固定步长连续采样。从0到 duration（含两端，带容差），
// 每个采样点传播到定点后记录输入、门输出、触发器输出与连线信号。
func (s *Simulator) Simulate(inputs map[string]Level, duration, step float64) ([]Sample, error) {
	if duration < 0 {
		return nil, errors.Wrapf(ErrInvalidParameters, "negative duration %g", duration)
	}
	if step <= 0 {
		return nil, errors.Wrapf(ErrInvalidParameters, "non-positive time step %g", step)
	}
	// 采样点数上限在浮点域比较，避免 duration/step 超出int范围时
	// 转换回绕绕过上限检查
	if n := duration/step + 1; n > float64(MaxSamples) {
		return nil, errors.Wrapf(ErrInvalidParameters, "sample count %.0f exceeds limit %d", n, MaxSamples)
	}
	for name, v := range inputs {
		s.SetInput(name, v)
	}
	var samples []Sample
	for t := 0.0; t <= duration+step*1e-9; t += step {
		s.now = t
		report := s.Propagate()
		samples = append(samples, Sample{
			Time:      t,
			Inputs:    s.inputLevels(),
			Gates:     s.gateLevels(),
			FlipFlops: s.ffLevels(),
			Wires:     s.wireLevels(),
			Settled:   report.Settled,
		})
	}
	return samples, nil
}
