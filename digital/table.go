package digital

import (
	"github.com/pkg/errors"
)

// MaxTruthTableInputs 真值表输入数量上限。行数按输入数量指数增长，
// 超过上限拒绝运行而不是耗尽内存。
const MaxTruthTableInputs = 16

// TruthTableRow 真值表的一行：输入组合、传播收敛后的输出电平，
// 以及本行传播是否收敛。
type TruthTableRow struct {
	Inputs  map[string]int   `json:"inputs"`
	Outputs map[string]Level `json:"outputs"`
	Settled bool             `json:"settled"`
}

// TruthTable 枚举全部输入组合生成真值表。
// 共 2^n 行，按二进制递增排列：第 i 行第 j 个输入取 (i>>j)&1。
// 每行把输入组合强制到对应门的输出上，传播到定点后读取输出门电平。
func (s *Simulator) TruthTable(inputNames, outputNames []string) ([]TruthTableRow, error) {
	if len(inputNames) == 0 {
		return nil, errors.Wrap(ErrInvalidParameters, "no input names")
	}
	if len(inputNames) > MaxTruthTableInputs {
		return nil, errors.Wrapf(ErrInvalidParameters, "too many inputs: %d exceeds limit %d", len(inputNames), MaxTruthTableInputs)
	}
	for _, name := range outputNames {
		if _, ok := s.gates[name]; !ok {
			return nil, errors.Wrapf(ErrInvalidParameters, "unknown output gate %s", name)
		}
	}
	rows := make([]TruthTableRow, 0, 1<<len(inputNames))
	for i := 0; i < 1<<len(inputNames); i++ {
		row := TruthTableRow{
			Inputs:  make(map[string]int, len(inputNames)),
			Outputs: make(map[string]Level, len(outputNames)),
		}
		for j, name := range inputNames {
			bit := (i >> j) & 1
			s.SetInput(name, LevelOf(bit))
			row.Inputs[name] = bit
		}
		row.Settled = s.Propagate().Settled
		for _, name := range outputNames {
			row.Outputs[name] = s.gates[name].Output
		}
		rows = append(rows, row)
	}
	return rows, nil
}
