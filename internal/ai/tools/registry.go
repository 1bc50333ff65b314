// Package tools 提供顾问 Agent 的内置工具集
package tools

import (
	"context"

	"github.com/run-bigpig/finwise/internal/logger"
	"github.com/run-bigpig/finwise/internal/models"

	"google.golang.org/adk/tool"
)

var log = logger.New("tools")

// MarketService 行情能力边界
type MarketService interface {
	VerifyPrice(ctx context.Context, symbol string) *models.PriceReport
	MarketMood(ctx context.Context) string
}

// AnalyzerService 技术分析能力边界
type AnalyzerService interface {
	Analyze(ctx context.Context, symbol string) (*models.TechnicalReport, error)
}

// PortfolioManager 组合查询能力边界
type PortfolioManager interface {
	Summary(ctx context.Context, userID string) (*models.PortfolioSummary, error)
	Metrics(ctx context.Context, userID string) (*models.PortfolioMetrics, error)
}

// ToolInfo 工具元信息，用于拼接提示词里的工具说明
type ToolInfo struct {
	Name        string `json:"name"`
	Description string `json:"description"`
}

// Registry 内置工具注册表
type Registry struct {
	marketService    MarketService
	analyzerService  AnalyzerService
	portfolioManager PortfolioManager

	tools map[string]tool.Tool
	infos map[string]ToolInfo
	order []string
}

// NewRegistry 创建注册表并构建全部内置工具
func NewRegistry(market MarketService, analyzer AnalyzerService, portfolio PortfolioManager) (*Registry, error) {
	r := &Registry{
		marketService:    market,
		analyzerService:  analyzer,
		portfolioManager: portfolio,
		tools:            make(map[string]tool.Tool),
		infos:            make(map[string]ToolInfo),
	}

	builders := []func() (tool.Tool, error){
		r.createVerifyPriceTool,
		r.createTechnicalAnalysisTool,
		r.createMarketMoodTool,
		r.createPortfolioSummaryTool,
		r.createSIPCalculatorTool,
		r.createEMICalculatorTool,
		r.createLumpsumCalculatorTool,
	}
	for _, build := range builders {
		t, err := build()
		if err != nil {
			return nil, err
		}
		r.register(t)
	}
	return r, nil
}

func (r *Registry) register(t tool.Tool) {
	name := t.Name()
	r.tools[name] = t
	r.infos[name] = ToolInfo{Name: name, Description: t.Description()}
	r.order = append(r.order, name)
}

// AllTools 返回全部内置工具，顺序与注册顺序一致
func (r *Registry) AllTools() []tool.Tool {
	result := make([]tool.Tool, 0, len(r.order))
	for _, name := range r.order {
		result = append(result, r.tools[name])
	}
	return result
}

// GetTools 按名称返回工具，未注册的名称跳过
func (r *Registry) GetTools(names []string) []tool.Tool {
	var result []tool.Tool
	for _, name := range names {
		if t, ok := r.tools[name]; ok {
			result = append(result, t)
		}
	}
	return result
}

// AllToolInfos 返回全部工具元信息
func (r *Registry) AllToolInfos() []ToolInfo {
	result := make([]ToolInfo, 0, len(r.order))
	for _, name := range r.order {
		result = append(result, r.infos[name])
	}
	return result
}
