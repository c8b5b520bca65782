// 命令行入口：加载电路描述JSON，运行一次分析并打印结果，
// 可选地把瞬态/交流波形渲染为PNG。
package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"sort"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"

	"circuitsim"
	"circuitsim/analysis"
	"circuitsim/circuit"
)

// CircuitFile 电路描述文件格式。
type CircuitFile struct {
	Components []circuit.Component `json:"components"`
	Wires      []circuit.Wire      `json:"wires"`
}

func main() {
	var (
		circuitPath = flag.String("circuit", "", "电路描述JSON文件")
		kind        = flag.String("analysis", "dc", "分析类型: dc, ac, transient")
		startFreq   = flag.Float64("start-freq", 1, "交流扫描起始频率 (Hz)")
		stopFreq    = flag.Float64("stop-freq", 1e6, "交流扫描终止频率 (Hz)")
		points      = flag.Int("points", 10, "交流扫描点密度")
		variation   = flag.String("variation", "dec", "交流扫描方式: dec, oct, lin")
		step        = flag.Float64("step", 1e-5, "瞬态时间步长 (s)")
		end         = flag.Float64("end", 1e-2, "瞬态终止时间 (s)")
		plotPath    = flag.String("plot", "", "波形PNG输出路径 (可选)")
	)
	flag.Parse()

	if *circuitPath == "" {
		fmt.Fprintln(os.Stderr, "usage: circuitsim -circuit file.json [-analysis dc|ac|transient]")
		os.Exit(2)
	}
	cf, err := loadCircuit(*circuitPath)
	if err != nil {
		slog.Error("load circuit", "path", *circuitPath, "error", err)
		os.Exit(1)
	}
	ak, err := circuitsim.ParseAnalysisKind(*kind)
	if err != nil {
		slog.Error("parse analysis type", "error", err)
		os.Exit(2)
	}

	switch ak {
	case circuitsim.AnalysisDC:
		run := circuitsim.RunDC(cf.Components, cf.Wires)
		exitOnFailure(run.Run)
		printJSON(run)
	case circuitsim.AnalysisAC:
		v, err := analysis.ParseVariation(*variation)
		if err != nil {
			slog.Error("parse variation", "error", err)
			os.Exit(2)
		}
		p := analysis.ACParams{StartFreq: *startFreq, StopFreq: *stopFreq, Points: *points, Variation: v}
		run := circuitsim.RunAC(cf.Components, cf.Wires, p)
		exitOnFailure(run.Run)
		printJSON(run)
		if *plotPath != "" {
			if err := plotAC(run.Result, *plotPath); err != nil {
				slog.Error("render plot", "error", err)
				os.Exit(1)
			}
		}
	case circuitsim.AnalysisTransient:
		p := analysis.TransientParams{Start: 0, Step: *step, End: *end}
		run := circuitsim.RunTransient(cf.Components, cf.Wires, p)
		exitOnFailure(run.Run)
		printJSON(run)
		if *plotPath != "" {
			if err := plotTransient(run.Result, *plotPath); err != nil {
				slog.Error("render plot", "error", err)
				os.Exit(1)
			}
		}
	}
}

func loadCircuit(path string) (*CircuitFile, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var cf CircuitFile
	if err := json.Unmarshal(data, &cf); err != nil {
		return nil, err
	}
	return &cf, nil
}

func exitOnFailure(rec circuitsim.RunRecord) {
	if rec.Status != circuitsim.StatusCompleted {
		os.Exit(1)
	}
}

func printJSON(v any) {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	if err := enc.Encode(v); err != nil {
		slog.Error("encode result", "error", err)
		os.Exit(1)
	}
}

// plotTransient 把所有节点电压曲线渲染到一张PNG。
func plotTransient(res *analysis.TransientResult, path string) error {
	p := plot.New()
	p.Title.Text = "Transient Analysis"
	p.X.Label.Text = "t (s)"
	p.Y.Label.Text = "V (V)"
	for _, key := range sortedKeys(res.Voltages) {
		xys := make(plotter.XYs, len(res.Time))
		for i, t := range res.Time {
			xys[i].X = t
			xys[i].Y = res.Voltages[key][i]
		}
		line, err := plotter.NewLine(xys)
		if err != nil {
			return err
		}
		p.Add(line)
		p.Legend.Add(key, line)
	}
	return p.Save(8*vg.Inch, 5*vg.Inch, path)
}

// plotAC 把所有节点幅频响应渲染到一张PNG，频率轴取对数。
func plotAC(res *analysis.ACResult, path string) error {
	p := plot.New()
	p.Title.Text = "AC Analysis"
	p.X.Label.Text = "f (Hz)"
	p.X.Scale = plot.LogScale{}
	p.X.Tick.Marker = plot.LogTicks{}
	p.Y.Label.Text = "|V|"
	for _, key := range sortedKeys(res.Magnitude) {
		xys := make(plotter.XYs, len(res.Frequencies))
		for i, f := range res.Frequencies {
			xys[i].X = f
			xys[i].Y = res.Magnitude[key][i]
		}
		line, err := plotter.NewLine(xys)
		if err != nil {
			return err
		}
		p.Add(line)
		p.Legend.Add(key, line)
	}
	return p.Save(8*vg.Inch, 5*vg.Inch, path)
}

func sortedKeys(m map[string][]float64) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
