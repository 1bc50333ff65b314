package render

import (
	"reflect"
	"testing"

	"github.com/run-bigpig/finwise/internal/models"
)

// TestFormatPlainText 无代码围栏的字符串原样包装为纯文本
func TestFormatPlainText(t *testing.T) {
	inputs := []string{
		"ok",
		"Market looks bullish today",
		"price RELIANCE",
		"多行\n文本\n也一样",
	}
	for _, s := range inputs {
		frag := Format(s)
		if !reflect.DeepEqual(frag, models.PlainText(s)) {
			t.Errorf("Format(%q) = %+v, 期望纯文本片段", s, frag)
		}
	}
}

// TestFormatCodeFence 围栏代码拆分为代码段
func TestFormatCodeFence(t *testing.T) {
	t.Run("纯代码块", func(t *testing.T) {
		frag := Format("```python\nprint('hi')\n```")
		if frag.Kind != models.FragmentCode {
			t.Fatalf("期望 code 片段, 得到 %s", frag.Kind)
		}
		if frag.Code.Language != "python" {
			t.Errorf("语言 = %q, 期望 python", frag.Code.Language)
		}
		if frag.Code.Code != "print('hi')\n" {
			t.Errorf("代码 = %q", frag.Code.Code)
		}
	})

	t.Run("代码与文本混排", func(t *testing.T) {
		frag := Format("see below:\n```\nx = 1\n```\ndone")
		if frag.Kind != models.FragmentText {
			t.Fatalf("期望 text 片段, 得到 %s", frag.Kind)
		}
		if len(frag.Segments) != 3 {
			t.Fatalf("期望 3 段, 得到 %d", len(frag.Segments))
		}
		if frag.Segments[0].Code || !frag.Segments[1].Code || frag.Segments[2].Code {
			t.Errorf("段类型顺序错误: %+v", frag.Segments)
		}
	})
}

// TestFormatErrorField 含 error 字段的对象优先产出错误片段
func TestFormatErrorField(t *testing.T) {
	obj := NewObject().
		Set("error", "Could not fetch data for XYZ").
		Set("average_price", 100.0) // error 优先于其他字段
	frag := Format(obj)
	if frag.Kind != models.FragmentError {
		t.Fatalf("期望 error 片段, 得到 %s", frag.Kind)
	}
	if frag.Message != "Could not fetch data for XYZ" {
		t.Errorf("错误信息 = %q", frag.Message)
	}
}

// TestFormatStockSentinel "N/A" 哨兵值原样透传，不做数值格式化
func TestFormatStockSentinel(t *testing.T) {
	obj := NewObject().
		Set("average_price", "N/A").
		Set("market_status", "Open").
		Set("reliability", "High").
		Set("sources", NewObject())
	frag := Format(obj)
	if frag.Kind != models.FragmentStock {
		t.Fatalf("期望 stock 片段, 得到 %s", frag.Kind)
	}
	if frag.Stock.Price != "N/A" {
		t.Errorf("价格 = %q, 期望哨兵值原样", frag.Stock.Price)
	}
	if frag.Stock.Range != nil {
		t.Error("缺失 price_range 时不应产出区间")
	}
	if frag.Stock.Sources == nil || len(frag.Stock.Sources) != 0 {
		t.Errorf("空 sources 应产出空列表, 得到 %v", frag.Stock.Sources)
	}
}

// TestFormatStockPrice 数值价格按 en-IN 两位小数格式化
func TestFormatStockPrice(t *testing.T) {
	obj := NewObject().
		Set("average_price", 1234.5).
		Set("market_status", "Open").
		Set("reliability", "High").
		Set("sources", NewObject())
	frag := Format(obj)
	if frag.Kind != models.FragmentStock {
		t.Fatalf("期望 stock 片段, 得到 %s", frag.Kind)
	}
	if frag.Stock.Price != "1,234.50" {
		t.Errorf("价格 = %q, 期望 1,234.50", frag.Stock.Price)
	}
	if frag.Stock.MarketStatus != "Open" || frag.Stock.Reliability != "High" {
		t.Errorf("状态字段透传错误: %+v", frag.Stock)
	}
}

// TestFormatStockRange price_range 的 min 为哨兵时整个区间不渲染
func TestFormatStockRange(t *testing.T) {
	t.Run("哨兵min", func(t *testing.T) {
		obj := NewObject().
			Set("average_price", "N/A").
			Set("price_range", NewObject().Set("min", "N/A").Set("max", "N/A"))
		frag := Format(obj)
		if frag.Stock.Range != nil {
			t.Error("min 为 N/A 时不应产出区间")
		}
	})

	t.Run("正常区间", func(t *testing.T) {
		obj := NewObject().
			Set("average_price", 2950.0).
			Set("price_range", NewObject().Set("min", 2900.0).Set("max", 2990.5))
		frag := Format(obj)
		if frag.Stock.Range == nil {
			t.Fatal("应产出价格区间")
		}
		if frag.Stock.Range.Min != "2,900.00" || frag.Stock.Range.Max != "2,990.50" {
			t.Errorf("区间 = %+v", frag.Stock.Range)
		}
	})
}

// TestFormatSources 数据源按插入顺序渲染，按字段名套用格式规则
func TestFormatSources(t *testing.T) {
	payload := []byte(`{
		"average_price": 2945.3,
		"market_status": "Open",
		"reliability": "High",
		"sources": {
			"yahoo": {"price": 2945.3, "high": 2990.5, "low": 2901.25, "volume": 4521789, "pe_ratio": 27.4, "exchange": "NSE"},
			"nse": {"price": 2945.1}
		},
		"timestamp": "2025-01-06 14:30:00"
	}`)
	obj, err := DecodeObject(payload)
	if err != nil {
		t.Fatalf("解码失败: %v", err)
	}

	frag := Format(obj)
	if frag.Kind != models.FragmentStock {
		t.Fatalf("期望 stock 片段, 得到 %s", frag.Kind)
	}

	sources := frag.Stock.Sources
	if len(sources) != 2 {
		t.Fatalf("期望 2 个数据源, 得到 %d", len(sources))
	}
	if sources[0].Name != "YAHOO" || sources[1].Name != "NSE" {
		t.Errorf("数据源顺序错误: %s, %s", sources[0].Name, sources[1].Name)
	}

	fields := map[string]models.SourceField{}
	for _, f := range sources[0].Fields {
		fields[f.Key] = f
	}
	if got := fields["price"].Value; got != "2,945.30" {
		t.Errorf("price = %q, 期望货币格式", got)
	}
	if !fields["high"].Currency || !fields["low"].Currency {
		t.Error("high/low 应标记为货币字段")
	}
	if got := fields["volume"].Value; got != "45,21,789" {
		t.Errorf("volume = %q, 期望整数分组", got)
	}
	if got := fields["pe_ratio"].Value; got != "27.4" {
		t.Errorf("pe_ratio = %q, 普通数值应原样", got)
	}
	if got := fields["exchange"].Value; got != "NSE" {
		t.Errorf("exchange = %q, 非数值应透传", got)
	}
	if frag.Stock.UpdatedAt != "2025-01-06 14:30:00" {
		t.Errorf("updatedAt = %q", frag.Stock.UpdatedAt)
	}
}

// TestFormatAnalysis 信号样式类为小写信号值，指标保留两位小数
func TestFormatAnalysis(t *testing.T) {
	payload := []byte(`{
		"signals": {"trend": "Bullish", "rsi": "Neutral", "macd": "Sell", "volume": "High"},
		"indicators": {"rsi": 56.789, "macd": -1.2345, "note": "weekly"},
		"chart_path": "market_analysis/RELIANCE_technical.html"
	}`)
	obj, err := DecodeObject(payload)
	if err != nil {
		t.Fatalf("解码失败: %v", err)
	}

	frag := Format(obj)
	if frag.Kind != models.FragmentAnalysis {
		t.Fatalf("期望 analysis 片段, 得到 %s", frag.Kind)
	}

	sig := frag.Analysis.Signals
	if len(sig) != 4 {
		t.Fatalf("期望 4 个信号, 得到 %d", len(sig))
	}
	if sig[0].Name != "trend" || sig[0].Value != "Bullish" || sig[0].Class != "bullish" {
		t.Errorf("信号[0] = %+v", sig[0])
	}
	// 未知信号值也正常渲染，只是没有预置样式
	if sig[3].Class != "high" {
		t.Errorf("信号类名 = %q", sig[3].Class)
	}

	ind := frag.Analysis.Indicators
	if ind[0].Value != "56.79" {
		t.Errorf("rsi 指标 = %q, 期望两位小数", ind[0].Value)
	}
	if ind[1].Value != "-1.23" {
		t.Errorf("macd 指标 = %q", ind[1].Value)
	}
	if ind[2].Value != "weekly" {
		t.Errorf("非数值指标 = %q, 应透传", ind[2].Value)
	}
	if frag.Analysis.ChartURL != "market_analysis/RELIANCE_technical.html" {
		t.Errorf("chartUrl = %q", frag.Analysis.ChartURL)
	}
}

// TestFormatEmptySignals 空 signals 映射产出合法的空区块
func TestFormatEmptySignals(t *testing.T) {
	obj := NewObject().Set("signals", NewObject())
	frag := Format(obj)
	if frag.Kind != models.FragmentAnalysis {
		t.Fatalf("期望 analysis 片段, 得到 %s", frag.Kind)
	}
	if frag.Analysis.Signals == nil || len(frag.Analysis.Signals) != 0 {
		t.Errorf("空 signals 应产出空列表: %v", frag.Analysis.Signals)
	}
}

// TestFormatFallback 未识别形状一律降级为纯文本，绝不 panic
func TestFormatFallback(t *testing.T) {
	cases := []any{
		NewObject().Set("foo", "bar").Set("n", 42.0),
		[]any{"a", "b"},
		nil,
		3.14,
		map[string]any{"hello": "world"},
	}
	for _, c := range cases {
		frag := Format(c)
		if frag.Kind != models.FragmentText {
			t.Errorf("Format(%v) kind = %s, 期望降级为 text", c, frag.Kind)
		}
	}
}

// TestFormatIdempotent 相同输入两次格式化结果结构相等
func TestFormatIdempotent(t *testing.T) {
	payload := []byte(`{"average_price": 512.75, "market_status": "Closed", "reliability": "Medium", "sources": {"yahoo": {"price": 512.75}}}`)
	obj, err := DecodeObject(payload)
	if err != nil {
		t.Fatalf("解码失败: %v", err)
	}
	first := Format(obj)
	second := Format(obj)
	if !reflect.DeepEqual(first, second) {
		t.Error("两次格式化结果不一致，格式化器不应持有隐藏状态")
	}
}
