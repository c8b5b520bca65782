package mna

import (
	"math"

	"github.com/pkg/errors"

	"circuitsim/circuit"
	"circuitsim/topology"
)

// Mode 装配模式。直流、交流与瞬态分析对电抗元件加盖不同的模板。
type Mode uint8

const (
	ModeDC        Mode = iota // 直流工作点：电容开路，电感短路
	ModeAC                    // 交流小信号：复数导纳 jωC 与 1/(jωL)
	ModeTransient             // 瞬态：向后欧拉伴随模型
)

// Assembly 一次装配的元数据。
type Assembly struct {
	// Sources 占用支路电流未知量的元件，按元件列表首次出现顺序。
	// 同一次运行内该顺序保持稳定，保证导出电流符号一致。
	Sources []circuit.Component
	// SourceIndex 元件ID到支路索引的映射。
	SourceIndex map[string]VoltageID
	// Unmodeled 线性模型未覆盖、在矩阵中被忽略的元件ID。
	// 向调用方报告而不是静默丢弃。
	Unmodeled []string
}

// ReactiveState 电抗元件的逐步状态：上一步的电容电压与电感电流。
// 瞬态分析在时间步之间携带该状态，使充放电动态在输出中可见。
type ReactiveState struct {
	CapVoltage map[string]float64
	IndCurrent map[string]float64
}

// NewReactiveState 创建零初始状态（电容未充电，电感无电流）。
func NewReactiveState() *ReactiveState {
	return &ReactiveState{
		CapVoltage: make(map[string]float64),
		IndCurrent: make(map[string]float64),
	}
}

// Assembler 根据节点图与元件列表装配MNA系统。
// 每次分析运行构造新的实例，不共享可变状态。
type Assembler struct {
	Net        *topology.Netlist
	Components []circuit.Component
}

// NewAssembler 创建装配器。
func NewAssembler(net *topology.Netlist, comps []circuit.Component) *Assembler {
	return &Assembler{Net: net, Components: comps}
}

// Sources 按首次出现顺序返回指定模式下占用支路电流未知量的元件。
// 直流模式下电感按0V电压源（理想短路）处理，同样占用一个支路未知量。
func (a *Assembler) Sources(mode Mode) []circuit.Component {
	var out []circuit.Component
	for _, c := range a.Components {
		switch c.Kind {
		case circuit.KindBattery:
			out = append(out, c)
		case circuit.KindInductor:
			if mode == ModeDC {
				out = append(out, c)
			}
		}
	}
	return out
}

func (a *Assembler) assembly(mode Mode) *Assembly {
	asm := &Assembly{
		Sources:     a.Sources(mode),
		SourceIndex: make(map[string]VoltageID),
	}
	for i, c := range asm.Sources {
		asm.SourceIndex[c.ID] = i
	}
	return asm
}

func (a *Assembler) terminals(c circuit.Component) (NodeID, NodeID) {
	return a.Net.NodeOf(c.ID, 0), a.Net.NodeOf(c.ID, 1)
}

// DC 装配直流工作点系统。
// 电阻按标准四项电导模板加盖；电压源占用扩展行列；电容开路；
// 电感以0V电压源短路；线性模型外的元件记入 Unmodeled。
// 电阻值非正返回 ErrInvalidParameters（显式拒绝，不静默除零）。
func (a *Assembler) DC() (*System[float64], *Assembly, error) {
	asm := a.assembly(ModeDC)
	sys := NewSystem[float64](a.Net.NumNodes(), len(asm.Sources))
	for _, c := range a.Components {
		n1, n2 := a.terminals(c)
		switch c.Kind {
		case circuit.KindResistor:
			r := c.Props.Resistance()
			if r <= 0 {
				return nil, nil, errors.Wrapf(ErrInvalidParameters, "resistor %s: non-positive resistance %g", c.ID, r)
			}
			sys.StampConductance(n1, n2, 1/r)
		case circuit.KindBattery:
			sys.StampVoltageSource(n1, n2, asm.SourceIndex[c.ID], c.Props.Voltage())
		case circuit.KindInductor:
			sys.StampVoltageSource(n1, n2, asm.SourceIndex[c.ID], 0)
		case circuit.KindCurrentSource:
			sys.StampCurrentSource(n1, n2, c.Props.Current())
		case circuit.KindSwitch:
			if c.Props.Closed() {
				sys.StampConductance(n1, n2, 1/circuit.SwitchOnResistance)
			}
		case circuit.KindCapacitor, circuit.KindGround:
			// 电容直流开路；地仅参与拓扑
		default:
			asm.Unmodeled = append(asm.Unmodeled, c.ID)
		}
	}
	return sys, asm, nil
}

// AC 装配指定频率下的复数导纳系统：R→1/R，C→jωC，L→1/(jωL)，
// 电压源为相位0、幅值等于其直流电压的相量源。
func (a *Assembler) AC(freq float64) (*System[complex128], *Assembly, error) {
	if freq <= 0 {
		return nil, nil, errors.Wrapf(ErrInvalidParameters, "non-positive frequency %g", freq)
	}
	omega := 2 * math.Pi * freq
	asm := a.assembly(ModeAC)
	sys := NewSystem[complex128](a.Net.NumNodes(), len(asm.Sources))
	for _, c := range a.Components {
		n1, n2 := a.terminals(c)
		switch c.Kind {
		case circuit.KindResistor:
			r := c.Props.Resistance()
			if r <= 0 {
				return nil, nil, errors.Wrapf(ErrInvalidParameters, "resistor %s: non-positive resistance %g", c.ID, r)
			}
			sys.StampConductance(n1, n2, complex(1/r, 0))
		case circuit.KindCapacitor:
			cv := c.Props.Capacitance()
			if cv <= 0 {
				return nil, nil, errors.Wrapf(ErrInvalidParameters, "capacitor %s: non-positive capacitance %g", c.ID, cv)
			}
			sys.StampConductance(n1, n2, complex(0, omega*cv))
		case circuit.KindInductor:
			l := c.Props.Inductance()
			if l <= 0 {
				return nil, nil, errors.Wrapf(ErrInvalidParameters, "inductor %s: non-positive inductance %g", c.ID, l)
			}
			sys.StampConductance(n1, n2, complex(0, -1/(omega*l)))
		case circuit.KindBattery:
			sys.StampVoltageSource(n1, n2, asm.SourceIndex[c.ID], complex(c.Props.Voltage(), 0))
		case circuit.KindCurrentSource:
			sys.StampCurrentSource(n1, n2, complex(c.Props.Current(), 0))
		case circuit.KindSwitch:
			if c.Props.Closed() {
				sys.StampConductance(n1, n2, complex(1/circuit.SwitchOnResistance, 0))
			}
		case circuit.KindGround:
		default:
			asm.Unmodeled = append(asm.Unmodeled, c.ID)
		}
	}
	return sys, asm, nil
}

// Transient 装配一个时间步的瞬态系统。
// 电抗元件按向后欧拉伴随模型加盖：
//
//	电容: G=C/dt 并联历史电流源 I=G·v_prev
//	电感: G=dt/L 并联历史电流源 I=i_prev
//
// 历史值取自上一时间步的 ReactiveState。
func (a *Assembler) Transient(dt float64, st *ReactiveState) (*System[float64], *Assembly, error) {
	if dt <= 0 {
		return nil, nil, errors.Wrapf(ErrInvalidParameters, "non-positive time step %g", dt)
	}
	asm := a.assembly(ModeTransient)
	sys := NewSystem[float64](a.Net.NumNodes(), len(asm.Sources))
	for _, c := range a.Components {
		n1, n2 := a.terminals(c)
		switch c.Kind {
		case circuit.KindResistor:
			r := c.Props.Resistance()
			if r <= 0 {
				return nil, nil, errors.Wrapf(ErrInvalidParameters, "resistor %s: non-positive resistance %g", c.ID, r)
			}
			sys.StampConductance(n1, n2, 1/r)
		case circuit.KindCapacitor:
			cv := c.Props.Capacitance()
			if cv <= 0 {
				return nil, nil, errors.Wrapf(ErrInvalidParameters, "capacitor %s: non-positive capacitance %g", c.ID, cv)
			}
			geq := cv / dt
			sys.StampConductance(n1, n2, geq)
			sys.StampCurrentSource(n2, n1, geq*st.CapVoltage[c.ID])
		case circuit.KindInductor:
			l := c.Props.Inductance()
			if l <= 0 {
				return nil, nil, errors.Wrapf(ErrInvalidParameters, "inductor %s: non-positive inductance %g", c.ID, l)
			}
			sys.StampConductance(n1, n2, dt/l)
			sys.StampCurrentSource(n1, n2, st.IndCurrent[c.ID])
		case circuit.KindBattery:
			sys.StampVoltageSource(n1, n2, asm.SourceIndex[c.ID], c.Props.Voltage())
		case circuit.KindCurrentSource:
			sys.StampCurrentSource(n1, n2, c.Props.Current())
		case circuit.KindSwitch:
			if c.Props.Closed() {
				sys.StampConductance(n1, n2, 1/circuit.SwitchOnResistance)
			}
		case circuit.KindGround:
		default:
			asm.Unmodeled = append(asm.Unmodeled, c.ID)
		}
	}
	return sys, asm, nil
}

// AdvanceState 求解后推进电抗元件状态，并返回本步各电抗元件的支路电流。
// 电容电流 = G·(v−v_prev)，电感电流 = i_prev + G·v。
func (a *Assembler) AdvanceState(sys *System[float64], st *ReactiveState, dt float64) map[string]float64 {
	currents := make(map[string]float64)
	for _, c := range a.Components {
		n1, n2 := a.terminals(c)
		v := sys.NodeVoltage(n1) - sys.NodeVoltage(n2)
		switch c.Kind {
		case circuit.KindCapacitor:
			geq := c.Props.Capacitance() / dt
			i := geq * (v - st.CapVoltage[c.ID])
			st.CapVoltage[c.ID] = v
			currents[c.ID] = i
		case circuit.KindInductor:
			i := st.IndCurrent[c.ID] + v*dt/c.Props.Inductance()
			st.IndCurrent[c.ID] = i
			currents[c.ID] = i
		}
	}
	return currents
}
