// Package analysis 实现连续域的三种分析驱动：直流工作点、交流频率扫描
// 与瞬态时域分析。每次运行都从元件与连线重新构建节点图和MNA系统，
// 驱动之间不共享可变状态，相同输入得到逐位一致的结果。
package analysis

import (
	"math"
	"strings"

	"github.com/pkg/errors"
	"gonum.org/v1/gonum/floats"

	"circuitsim/mna"
)

// ErrInvalidParameters 分析参数非法。
var ErrInvalidParameters = mna.ErrInvalidParameters

// MaxTransientSamples 瞬态采样点数上限。参数畸形（极小步长配极长区间）
// 时拒绝运行而不是耗尽内存。
const MaxTransientSamples = 100_000

// Variation 交流扫描的频率分布方式。
type Variation uint8

const (
	VariationDecade Variation = iota // 每十倍频程固定点数
	VariationOctave                  // 每倍频程固定点数
	VariationLinear                  // 线性等间隔
)

// ParseVariation 解析扫描方式记号，大小写不敏感。
func ParseVariation(s string) (Variation, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "dec", "decade", "":
		return VariationDecade, nil
	case "oct", "octave":
		return VariationOctave, nil
	case "lin", "linear":
		return VariationLinear, nil
	}
	return VariationDecade, errors.Wrapf(ErrInvalidParameters, "unknown variation %q", s)
}

// ACParams 交流扫描参数。
type ACParams struct {
	StartFreq float64 // 起始频率（Hz），必须为正
	StopFreq  float64 // 终止频率（Hz），不小于起始频率
	Points    int     // 点密度：dec/oct 为每频程点数，lin 为总点数
	Variation Variation
}

// DefaultACParams 默认扫描：1Hz 到 1MHz，每十倍频程10点。
func DefaultACParams() ACParams {
	return ACParams{StartFreq: 1, StopFreq: 1e6, Points: 10, Variation: VariationDecade}
}

// Validate 校验参数范围。
func (p ACParams) Validate() error {
	if p.StartFreq <= 0 {
		return errors.Wrapf(ErrInvalidParameters, "non-positive start frequency %g", p.StartFreq)
	}
	if p.StopFreq < p.StartFreq {
		return errors.Wrapf(ErrInvalidParameters, "stop frequency %g below start %g", p.StopFreq, p.StartFreq)
	}
	if p.Points < 1 {
		return errors.Wrapf(ErrInvalidParameters, "points must be at least 1, got %d", p.Points)
	}
	return nil
}

// Frequencies 生成扫描频率轴，首末两端都包含在内。
func (p ACParams) Frequencies() []float64 {
	if p.StopFreq == p.StartFreq {
		return []float64{p.StartFreq}
	}
	var n int
	switch p.Variation {
	case VariationOctave:
		n = int(math.Ceil(math.Log2(p.StopFreq/p.StartFreq)*float64(p.Points))) + 1
	case VariationLinear:
		n = p.Points
	default:
		n = int(math.Ceil(math.Log10(p.StopFreq/p.StartFreq)*float64(p.Points))) + 1
	}
	if n < 2 {
		n = 2
	}
	dst := make([]float64, n)
	if p.Variation == VariationLinear {
		return floats.Span(dst, p.StartFreq, p.StopFreq)
	}
	return floats.LogSpan(dst, p.StartFreq, p.StopFreq)
}

// TransientParams 瞬态分析参数。
type TransientParams struct {
	Start float64 // 起始时间（s）
	Step  float64 // 时间步长（s），必须为正
	End   float64 // 终止时间（s），不小于起始时间
}

// Validate 校验参数范围并限制采样点总数。
func (p TransientParams) Validate() error {
	if p.Step <= 0 {
		return errors.Wrapf(ErrInvalidParameters, "non-positive time step %g", p.Step)
	}
	if p.End < p.Start {
		return errors.Wrapf(ErrInvalidParameters, "end time %g before start time %g", p.End, p.Start)
	}
	// 上限比较在浮点域进行：采样点数超出int范围时整数转换会回绕为负值，
	// 使上限检查失效
	if n := math.Floor((p.End-p.Start)/p.Step+1e-9) + 1; n > float64(MaxTransientSamples) {
		return errors.Wrapf(ErrInvalidParameters, "sample count %.0f exceeds limit %d", n, MaxTransientSamples)
	}
	return nil
}

// Samples 采样点数，首末两端都包含在内。仅对通过 Validate 的参数有意义。
func (p TransientParams) Samples() int {
	return int(math.Floor((p.End-p.Start)/p.Step+1e-9)) + 1
}

// Times 生成时间轴。
func (p TransientParams) Times() []float64 {
	n := p.Samples()
	if n < 2 {
		return []float64{p.Start}
	}
	dst := make([]float64, n)
	return floats.Span(dst, p.Start, p.Start+float64(n-1)*p.Step)
}
