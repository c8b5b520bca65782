package digital

// GateInfo 门的描述。
type GateInfo struct {
	ID     string  `json:"id"`
	Type   string  `json:"type"`
	Inputs int     `json:"num_inputs"`
	Delay  float64 `json:"delay"`
}

// FlipFlopInfo 触发器的描述。
type FlipFlopInfo struct {
	ID   string `json:"id"`
	Edge string `json:"edge_trigger"`
}

// WireInfo 连线的描述。
type WireInfo struct {
	ID         string `json:"id"`
	From       string `json:"from"`
	FromOutput string `json:"from_output"`
	To         string `json:"to"`
	ToInput    int    `json:"to_input"`
}

// Description 电路结构描述，供路由/持久化层导出。
type Description struct {
	Gates     []GateInfo     `json:"gates"`
	FlipFlops []FlipFlopInfo `json:"flip_flops"`
	Wires     []WireInfo     `json:"wires"`
}

// Describe 导出电路结构，顺序与加入顺序一致。
func (s *Simulator) Describe() Description {
	d := Description{
		Gates:     make([]GateInfo, 0, len(s.order)),
		FlipFlops: make([]FlipFlopInfo, 0, len(s.ffOrder)),
		Wires:     make([]WireInfo, 0, len(s.wires)),
	}
	for _, id := range s.order {
		g := s.gates[id]
		d.Gates = append(d.Gates, GateInfo{ID: g.ID, Type: g.Kind.String(), Inputs: len(g.Inputs), Delay: g.Delay})
	}
	for _, id := range s.ffOrder {
		ff := s.ffs[id]
		d.FlipFlops = append(d.FlipFlops, FlipFlopInfo{ID: ff.ID, Edge: ff.Edge.String()})
	}
	for _, w := range s.wires {
		d.Wires = append(d.Wires, WireInfo{ID: w.ID, From: w.From, FromOutput: w.FromOutput, To: w.To, ToInput: w.ToInput})
	}
	return d
}
