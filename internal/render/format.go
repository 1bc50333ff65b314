// Package render 把后端返回的任意响应体转换为结构化的渲染片段
// 核心约束：Format 是纯函数且对任何输入都不会失败，
// 无法识别的形状一律降级为纯文本
package render

import (
	"encoding/json"
	"fmt"
	"regexp"
	"sort"
	"strconv"
	"strings"

	"github.com/run-bigpig/finwise/internal/models"

	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"golang.org/x/text/number"
)

// NASentinel 后端表示"数据不可用"的哨兵值，禁止进入数值格式化
const NASentinel = "N/A"

// 印度地区数字格式（千位分组 1,23,456.78 风格）
var enIN = message.NewPrinter(language.MustParse("en-IN"))

// fenceRe 匹配三反引号代码块
var fenceRe = regexp.MustCompile("(?s)```(.*?)```")

// Format 格式化后端响应为渲染片段，纯函数、全函数、绝不 panic
// 判定顺序：字符串 → error 字段 → average_price → signals → 兜底纯文本
func Format(raw any) models.Fragment {
	switch v := raw.(type) {
	case nil:
		return models.PlainText("")
	case string:
		return formatString(v)
	case *Object:
		return formatObject(v)
	case map[string]any:
		// map 无序，转换为按键名排序的保序对象后走同一条路径
		return formatObject(sortedObject(v))
	default:
		return models.PlainText(fmt.Sprintf("%v", raw))
	}
}

// formatString 扫描代码围栏，拆分为代码段与普通文本段
func formatString(s string) models.Fragment {
	locs := fenceRe.FindAllStringSubmatchIndex(s, -1)
	if len(locs) == 0 {
		return models.PlainText(s)
	}

	var segments []models.TextSegment
	prev := 0
	for _, loc := range locs {
		if plain := s[prev:loc[0]]; plain != "" {
			segments = append(segments, models.TextSegment{Content: plain})
		}
		lang, code := splitFenceBody(s[loc[2]:loc[3]])
		segments = append(segments, models.TextSegment{Code: true, Language: lang, Content: code})
		prev = loc[1]
	}
	if rest := s[prev:]; rest != "" {
		segments = append(segments, models.TextSegment{Content: rest})
	}

	// 整个字符串就是一个代码块时直接给出代码片段
	if len(segments) == 1 && segments[0].Code {
		return models.Fragment{
			Kind: models.FragmentCode,
			Code: &models.CodeBlock{Language: segments[0].Language, Code: segments[0].Content},
		}
	}
	return models.Fragment{Kind: models.FragmentText, Segments: segments}
}

// splitFenceBody 拆出围栏首行的语言标记（若有）
func splitFenceBody(body string) (lang, code string) {
	idx := strings.IndexByte(body, '\n')
	if idx < 0 {
		return "", body
	}
	first := strings.TrimSpace(body[:idx])
	if first != "" && !strings.ContainsAny(first, " \t") && len(first) <= 20 {
		return first, body[idx+1:]
	}
	return "", body
}

// formatObject 按字段判定对象响应的形状
func formatObject(obj *Object) models.Fragment {
	if obj == nil {
		return models.PlainText("")
	}
	if errVal, ok := obj.Get("error"); ok {
		return models.ErrorFragment(asString(errVal))
	}
	if obj.Has("average_price") {
		return formatStockInfo(obj)
	}
	if obj.Has("signals") {
		return formatAnalysis(obj)
	}
	return models.PlainText(objectString(obj))
}

// formatStockInfo 股票价格响应 → StockInfo 片段
func formatStockInfo(obj *Object) models.Fragment {
	info := &models.StockInfo{
		MarketStatus: asString(stringField(obj, "market_status")),
		Reliability:  asString(stringField(obj, "reliability")),
		UpdatedAt:    asString(stringField(obj, "timestamp")),
		Sources:      []models.SourceGroup{},
	}

	// "N/A" 哨兵绝不进入数值格式化
	if price, ok := obj.Get("average_price"); ok {
		if n, isNum := asNumber(price); isNum {
			info.Price = formatCurrencyValue(n)
		} else {
			info.Price = asString(price)
		}
	}

	// price_range 仅在存在且 min 不是哨兵时渲染
	if rangeVal, ok := obj.Get("price_range"); ok {
		if rangeObj, isObj := rangeVal.(*Object); isObj {
			minVal, _ := rangeObj.Get("min")
			maxVal, _ := rangeObj.Get("max")
			if minNum, isNum := asNumber(minVal); isNum {
				pr := &models.PriceRange{Min: formatCurrencyValue(minNum)}
				if maxNum, ok := asNumber(maxVal); ok {
					pr.Max = formatCurrencyValue(maxNum)
				} else {
					pr.Max = asString(maxVal)
				}
				info.Range = pr
			}
		}
	}

	if sourcesVal, ok := obj.Get("sources"); ok {
		if sources, isObj := sourcesVal.(*Object); isObj {
			for _, name := range sources.Keys() {
				group := models.SourceGroup{Name: strings.ToUpper(name)}
				if fields, isObj := mustGet(sources, name).(*Object); isObj {
					for _, key := range fields.Keys() {
						group.Fields = append(group.Fields, formatSourceField(key, mustGet(fields, key)))
					}
				}
				info.Sources = append(info.Sources, group)
			}
		}
	}

	return models.Fragment{Kind: models.FragmentStock, Stock: info}
}

// formatSourceField 按字段名决定数值格式：price/high/low 货币，volume 整数分组
func formatSourceField(key string, value any) models.SourceField {
	field := models.SourceField{Key: key}
	n, isNum := asNumber(value)
	if !isNum {
		field.Value = asString(value)
		return field
	}

	lower := strings.ToLower(key)
	switch {
	case strings.Contains(lower, "price") || strings.Contains(lower, "high") || strings.Contains(lower, "low"):
		field.Value = formatCurrencyValue(n)
		field.Currency = true
	case strings.Contains(lower, "volume"):
		field.Value = formatGroupedInt(n)
	default:
		field.Value = strconv.FormatFloat(n, 'f', -1, 64)
	}
	return field
}

// formatAnalysis 技术分析响应 → Analysis 片段
func formatAnalysis(obj *Object) models.Fragment {
	info := &models.AnalysisInfo{Signals: []models.Signal{}}

	if signalsVal, ok := obj.Get("signals"); ok {
		if signals, isObj := signalsVal.(*Object); isObj {
			for _, name := range signals.Keys() {
				value := asString(mustGet(signals, name))
				info.Signals = append(info.Signals, models.Signal{
					Name:  name,
					Value: value,
					Class: strings.ToLower(value), // 样式类名即小写信号值，未知信号照常渲染
				})
			}
		}
	}

	if indicatorsVal, ok := obj.Get("indicators"); ok {
		if indicators, isObj := indicatorsVal.(*Object); isObj {
			for _, name := range indicators.Keys() {
				v := mustGet(indicators, name)
				ind := models.Indicator{Name: name}
				if n, isNum := asNumber(v); isNum {
					ind.Value = strconv.FormatFloat(n, 'f', 2, 64)
				} else {
					ind.Value = asString(v)
				}
				info.Indicators = append(info.Indicators, ind)
			}
		}
	}

	if chart, ok := obj.Get("chart_path"); ok {
		info.ChartURL = asString(chart)
	}

	return models.Fragment{Kind: models.FragmentAnalysis, Analysis: info}
}

// formatCurrencyValue 两位小数 + en-IN 千位分组
func formatCurrencyValue(v float64) string {
	return enIN.Sprint(number.Decimal(v,
		number.MinFractionDigits(2),
		number.MaxFractionDigits(2)))
}

// formatGroupedInt 整数分组格式（成交量）
func formatGroupedInt(v float64) string {
	return enIN.Sprint(number.Decimal(v, number.MaxFractionDigits(0)))
}

// asNumber 宽松数值判定，JSON 数值解码为 float64
func asNumber(v any) (float64, bool) {
	switch n := v.(type) {
	case float64:
		return n, true
	case float32:
		return float64(n), true
	case int:
		return float64(n), true
	case int64:
		return float64(n), true
	case json.Number:
		f, err := n.Float64()
		return f, err == nil
	default:
		return 0, false
	}
}

// asString 任意值的字符串表示
func asString(v any) string {
	switch s := v.(type) {
	case nil:
		return ""
	case string:
		return s
	case float64:
		return strconv.FormatFloat(s, 'f', -1, 64)
	case bool:
		return strconv.FormatBool(s)
	case *Object:
		return objectString(s)
	default:
		return fmt.Sprintf("%v", v)
	}
}

// stringField 读取对象字段，缺失返回空
func stringField(obj *Object, key string) any {
	v, _ := obj.Get(key)
	return v
}

// mustGet 读取必然存在的键（调用方已用 Keys 枚举）
func mustGet(obj *Object, key string) any {
	v, _ := obj.Get(key)
	return v
}

// objectString 兜底场景下对象的文本表示
func objectString(obj *Object) string {
	var b strings.Builder
	for i, key := range obj.Keys() {
		if i > 0 {
			b.WriteString("\n")
		}
		b.WriteString(key)
		b.WriteString(": ")
		b.WriteString(asString(mustGet(obj, key)))
	}
	return b.String()
}

// sortedObject map 输入的确定性降级路径，嵌套 map 递归转换
func sortedObject(m map[string]any) *Object {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	obj := NewObject()
	for _, k := range keys {
		if nested, ok := m[k].(map[string]any); ok {
			obj.Set(k, sortedObject(nested))
			continue
		}
		obj.Set(k, m[k])
	}
	return obj
}
