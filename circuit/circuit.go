// Package circuit 定义外部电路描述的数据模型：元件、连线与属性包。
// 该描述由上层（路由/持久化协作层）提供，仿真运行期间不可变。
package circuit

// 属性默认值。元件属性缺失时按原理图编辑器的出厂参数处理。
const (
	DefaultResistance     = 1000.0 // Ω
	DefaultVoltage        = 9.0    // V
	DefaultCapacitance    = 1e-6   // F
	DefaultInductance     = 1e-3   // H
	DefaultCurrent        = 0.01   // A
	DefaultRatedPower     = 0.25   // W
	DefaultForwardVoltage = 2.0    // V
	SwitchOnResistance    = 1e-3   // Ω，闭合开关的接触电阻
)

// Props 元件属性包（键值来自外部JSON描述）。
type Props map[string]any

// Float 获取浮点属性，缺失或类型不符时返回默认值。
func (p Props) Float(key string, def float64) float64 {
	switch v := p[key].(type) {
	case float64:
		return v
	case int:
		return float64(v)
	}
	return def
}

// Resistance 电阻值（Ω）。
func (p Props) Resistance() float64 { return p.Float("resistance", DefaultResistance) }

// Voltage 电压值（V）。
func (p Props) Voltage() float64 { return p.Float("voltage", DefaultVoltage) }

// Capacitance 电容值（F）。
func (p Props) Capacitance() float64 { return p.Float("capacitance", DefaultCapacitance) }

// Inductance 电感值（H）。
func (p Props) Inductance() float64 { return p.Float("inductance", DefaultInductance) }

// Current 电流值（A）。
func (p Props) Current() float64 { return p.Float("current", DefaultCurrent) }

// RatedPower 额定功率（W）。
func (p Props) RatedPower() float64 { return p.Float("power", DefaultRatedPower) }

// ForwardVoltage 正向导通电压（V）。
func (p Props) ForwardVoltage() float64 { return p.Float("forward_voltage", DefaultForwardVoltage) }

// Closed 开关是否闭合，缺省为闭合。
func (p Props) Closed() bool {
	if v, ok := p["closed"].(bool); ok {
		return v
	}
	return true
}

// Component 元件：不透明ID、类型、引脚数量与类型相关的属性包。
// 仿真开始后不可变：所有分析驱动只读取，不修改。
type Component struct {
	ID        string `json:"id"`
	Kind      Kind   `json:"-"`
	Type      string `json:"type"`
	Terminals int    `json:"terminals"`
	Props     Props  `json:"props"`
}

// TerminalCount 引脚数量。描述中未给出时按类型默认：地1个，其余2个。
func (c Component) TerminalCount() int {
	if c.Terminals > 0 {
		return c.Terminals
	}
	if c.Kind == KindGround {
		return 1
	}
	return 2
}

// Terminal 连线端点：元件ID + 引脚索引。
type Terminal struct {
	Component string `json:"component_id"`
	Pin       int    `json:"terminal"`
}

// Wire 两个端点之间的连线。连线本身没有元件行为，
// 只建立节点等价关系（连续域）或信号路由（数字域）。
type Wire struct {
	From Terminal `json:"from"`
	To   Terminal `json:"to"`
}

// Normalize 解析所有元件的类型字符串并填充 Kind 字段。
// 未识别的类型不构成错误：元件归入 KindUnsupported，由装配阶段报告。
func Normalize(comps []Component) []Component {
	out := make([]Component, len(comps))
	for i, c := range comps {
		if c.Kind == KindUnsupported && c.Type != "" {
			if k, err := ParseKind(c.Type); err == nil {
				c.Kind = k
			}
		}
		out[i] = c
	}
	return out
}
