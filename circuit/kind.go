package circuit

import (
	"strings"

	"github.com/pkg/errors"
)

// ErrUnknownKind 元件类型字符串不在支持的枚举内。
var ErrUnknownKind = errors.New("unknown component kind")

// Kind 元件类型。封闭枚举：未识别的类型统一归入 KindUnsupported，
// 由调用方决定是报告还是拒绝，而不会被静默丢弃。
type Kind uint8

const (
	KindUnsupported Kind = iota // 未识别类型
	KindResistor                // 电阻
	KindCapacitor               // 电容
	KindInductor                // 电感
	KindBattery                 // 独立电压源
	KindCurrentSource           // 独立电流源
	KindDiode                   // 二极管
	KindLED                     // 发光二极管
	KindSwitch                  // 开关
	KindGround                  // 地
)

var kindNames = map[Kind]string{
	KindUnsupported:   "unsupported",
	KindResistor:      "resistor",
	KindCapacitor:     "capacitor",
	KindInductor:      "inductor",
	KindBattery:       "battery",
	KindCurrentSource: "current_source",
	KindDiode:         "diode",
	KindLED:           "led",
	KindSwitch:        "switch",
	KindGround:        "ground",
}

var kindTokens = map[string]Kind{
	"resistor":       KindResistor,
	"capacitor":      KindCapacitor,
	"inductor":       KindInductor,
	"battery":        KindBattery,
	"voltage_source": KindBattery,
	"current_source": KindCurrentSource,
	"diode":          KindDiode,
	"led":            KindLED,
	"switch":         KindSwitch,
	"ground":         KindGround,
}

// String 返回类型的规范名称。
func (k Kind) String() string {
	if s, ok := kindNames[k]; ok {
		return s
	}
	return "unsupported"
}

// ParseKind 解析元件类型字符串（大小写不敏感）。
// 未识别的类型返回 KindUnsupported 与 ErrUnknownKind。
func ParseKind(s string) (Kind, error) {
	if k, ok := kindTokens[strings.ToLower(strings.TrimSpace(s))]; ok {
		return k, nil
	}
	return KindUnsupported, errors.Wrapf(ErrUnknownKind, "%q", s)
}

// Linear 判断类型是否属于线性模型可加盖的元件集。
func (k Kind) Linear() bool {
	switch k {
	case KindResistor, KindCapacitor, KindInductor, KindBattery, KindCurrentSource, KindSwitch, KindGround:
		return true
	}
	return false
}
