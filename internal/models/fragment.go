package models

// FragmentKind 渲染片段类型标签
type FragmentKind string

const (
	FragmentText     FragmentKind = "text"     // 纯文本（可含代码段）
	FragmentCode     FragmentKind = "code"     // 单个代码块
	FragmentStock    FragmentKind = "stock"    // 股票行情信息
	FragmentAnalysis FragmentKind = "analysis" // 技术分析信息
	FragmentError    FragmentKind = "error"    // 后端返回的业务错误
)

// Fragment 渲染片段，格式化器的输出
// 同一时刻只有 Kind 对应的字段有效，前端按 Kind 渲染
type Fragment struct {
	Kind     FragmentKind  `json:"kind"`
	Segments []TextSegment `json:"segments,omitempty"` // text
	Code     *CodeBlock    `json:"code,omitempty"`     // code
	Stock    *StockInfo    `json:"stock,omitempty"`    // stock
	Analysis *AnalysisInfo `json:"analysis,omitempty"` // analysis
	Message  string        `json:"message,omitempty"`  // error
}

// TextSegment 文本片段中的一段，代码段与普通文本按原始顺序排列
type TextSegment struct {
	Code     bool   `json:"code"`
	Language string `json:"language,omitempty"`
	Content  string `json:"content"`
}

// CodeBlock 代码块
type CodeBlock struct {
	Language string `json:"language,omitempty"`
	Code     string `json:"code"`
}

// StockInfo 股票行情渲染数据，数值字段均已按 en-IN 本地化格式化为字符串
type StockInfo struct {
	Price        string        `json:"price"`                // "N/A" 原样透传
	MarketStatus string        `json:"marketStatus"`
	Reliability  string        `json:"reliability"`
	Range        *PriceRange   `json:"range,omitempty"`
	Sources      []SourceGroup `json:"sources"`
	UpdatedAt    string        `json:"updatedAt"`
}

// PriceRange 当日价格区间
type PriceRange struct {
	Min string `json:"min"`
	Max string `json:"max"`
}

// SourceGroup 单个数据源的字段明细，保持后端给出的顺序
type SourceGroup struct {
	Name   string        `json:"name"`
	Fields []SourceField `json:"fields"`
}

// SourceField 数据源中的一个字段
type SourceField struct {
	Key      string `json:"key"`
	Value    string `json:"value"`
	Currency bool   `json:"currency,omitempty"` // 渲染时加货币符号
}

// AnalysisInfo 技术分析渲染数据
type AnalysisInfo struct {
	Signals    []Signal    `json:"signals"`
	Indicators []Indicator `json:"indicators,omitempty"`
	ChartURL   string      `json:"chartUrl,omitempty"`
}

// Signal 单项信号，Class 为小写信号值，前端据此套用样式
type Signal struct {
	Name  string `json:"name"`
	Value string `json:"value"`
	Class string `json:"class"`
}

// Indicator 单项指标，数值已四舍五入保留两位
type Indicator struct {
	Name  string `json:"name"`
	Value string `json:"value"`
}

// PlainText 构造单段纯文本片段
func PlainText(s string) Fragment {
	return Fragment{
		Kind:     FragmentText,
		Segments: []TextSegment{{Content: s}},
	}
}

// ErrorFragment 构造业务错误片段
func ErrorFragment(msg string) Fragment {
	return Fragment{Kind: FragmentError, Message: msg}
}

// Text 返回片段的纯文本表示，用于复制/收藏等纯文本场景
func (f Fragment) Text() string {
	switch f.Kind {
	case FragmentText:
		var out string
		for _, seg := range f.Segments {
			out += seg.Content
		}
		return out
	case FragmentCode:
		if f.Code != nil {
			return f.Code.Code
		}
	case FragmentError:
		return f.Message
	case FragmentStock:
		if f.Stock != nil {
			return "Stock Information: " + f.Stock.Price
		}
	case FragmentAnalysis:
		return "Technical Analysis"
	}
	return ""
}
