// Package digital 实现离散事件数字逻辑仿真：组合逻辑门、D触发器、
// 信号连线、定点传播、真值表与时钟周期驱动。
// 每次运行使用独立的 Simulator 会话对象，不存在进程级共享状态。
package digital

import (
	"strings"

	"github.com/pkg/errors"
)

// ErrInvalidParameters 仿真参数非法。
var ErrInvalidParameters = errors.New("invalid parameters")

// Level 逻辑电平。数值与外部JSON表示一致。
type Level int8

const (
	Low     Level = 0
	High    Level = 1
	Unknown Level = -1
	HighZ   Level = -2 // 高阻态，为总线建模保留
)

// String 电平名称。
func (l Level) String() string {
	switch l {
	case Low:
		return "LOW"
	case High:
		return "HIGH"
	case HighZ:
		return "HIGH_Z"
	}
	return "UNKNOWN"
}

// LevelOf 将外部输入值转为电平：非零为高，零为低。
func LevelOf(v int) Level {
	if v != 0 {
		return High
	}
	return Low
}

// GateKind 组合逻辑门类型。
type GateKind uint8

const (
	GateAND GateKind = iota
	GateOR
	GateNOT
	GateNAND
	GateNOR
	GateXOR
	GateXNOR
	GateBUFFER
)

var gateNames = map[GateKind]string{
	GateAND:    "AND",
	GateOR:     "OR",
	GateNOT:    "NOT",
	GateNAND:   "NAND",
	GateNOR:    "NOR",
	GateXOR:    "XOR",
	GateXNOR:   "XNOR",
	GateBUFFER: "BUFFER",
}

// String 门类型名称。
func (k GateKind) String() string { return gateNames[k] }

// ParseGateKind 解析门类型记号，大小写不敏感。
// 未识别的记号是面向调用方的校验错误。
func ParseGateKind(s string) (GateKind, error) {
	token := strings.ToUpper(strings.TrimSpace(s))
	for k, name := range gateNames {
		if name == token {
			return k, nil
		}
	}
	return GateAND, errors.Wrapf(ErrInvalidParameters, "unknown gate type %q", s)
}

// Edge 触发器的时钟触发沿。
type Edge uint8

const (
	EdgeRising  Edge = iota // 上升沿: LOW→HIGH
	EdgeFalling             // 下降沿: HIGH→LOW
)

// String 触发沿名称。
func (e Edge) String() string {
	if e == EdgeFalling {
		return "falling"
	}
	return "rising"
}

// ParseEdge 解析触发沿记号，大小写不敏感，空串取上升沿。
func ParseEdge(s string) (Edge, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "rising", "":
		return EdgeRising, nil
	case "falling":
		return EdgeFalling, nil
	}
	return EdgeRising, errors.Wrapf(ErrInvalidParameters, "unknown edge trigger %q", s)
}
