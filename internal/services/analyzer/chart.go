package analyzer

import (
	"encoding/json"
	"html/template"
	"os"
	"path/filepath"

	"github.com/run-bigpig/finwise/internal/models"
)

// chartTemplate 技术分析图表页面，K线数据内嵌为 JSON 由页面脚本绘制
var chartTemplate = template.Must(template.New("chart").Parse(`<!DOCTYPE html>
<html>
<head>
<meta charset="utf-8">
<title>{{.Symbol}} Technical Analysis</title>
<style>
body { font-family: sans-serif; margin: 20px; background: #fafafa; }
h1 { font-size: 20px; }
canvas { background: #fff; border: 1px solid #ddd; }
table { border-collapse: collapse; margin-top: 16px; }
td, th { border: 1px solid #ccc; padding: 4px 10px; font-size: 13px; }
.bullish { color: #0a7f3f; }
.bearish { color: #c0392b; }
</style>
</head>
<body>
<h1>{{.Symbol}} Technical Analysis</h1>
<canvas id="chart" width="1100" height="480"></canvas>
<table>
<tr><th>Signal</th><th>Value</th></tr>
{{range .Signals}}<tr><td>{{.Name}}</td><td class="{{.Class}}">{{.Value}}</td></tr>
{{end}}
</table>
<script>
const klines = {{.KLineJSON}};
const canvas = document.getElementById('chart');
const ctx = canvas.getContext('2d');
if (klines.length > 0) {
  let min = Infinity, max = -Infinity;
  for (const k of klines) { min = Math.min(min, k.low); max = Math.max(max, k.high); }
  const w = canvas.width / klines.length;
  const scale = v => canvas.height - (v - min) / (max - min) * canvas.height;
  klines.forEach((k, i) => {
    const x = i * w + w / 2;
    ctx.strokeStyle = k.close >= k.open ? '#0a7f3f' : '#c0392b';
    ctx.beginPath();
    ctx.moveTo(x, scale(k.high));
    ctx.lineTo(x, scale(k.low));
    ctx.stroke();
    ctx.fillStyle = ctx.strokeStyle;
    ctx.fillRect(i * w + 1, scale(Math.max(k.open, k.close)), Math.max(w - 2, 1),
      Math.max(Math.abs(scale(k.open) - scale(k.close)), 1));
  });
}
</script>
</body>
</html>
`))

// chartSignal 图表页面上的信号行
type chartSignal struct {
	Name  string
	Value string
	Class string
}

// chartData 模板渲染数据
type chartData struct {
	Symbol    string
	Signals   []chartSignal
	KLineJSON template.JS
}

// WriteChart 生成技术分析图表页面，返回文件路径
func WriteChart(dir, symbol string, klines []models.KLineData, signals map[string]string, signalOrder []string) (string, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return "", err
	}

	raw, err := json.Marshal(klines)
	if err != nil {
		return "", err
	}

	data := chartData{
		Symbol:    symbol,
		KLineJSON: template.JS(raw),
	}
	for _, name := range signalOrder {
		value := signals[name]
		class := ""
		switch value {
		case "Bullish", "Buy":
			class = "bullish"
		case "Bearish", "Sell":
			class = "bearish"
		}
		data.Signals = append(data.Signals, chartSignal{Name: name, Value: value, Class: class})
	}

	path := filepath.Join(dir, symbol+"_technical.html")
	f, err := os.Create(path)
	if err != nil {
		return "", err
	}
	defer f.Close()

	if err := chartTemplate.Execute(f, data); err != nil {
		return "", err
	}
	return path, nil
}
