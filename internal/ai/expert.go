package ai

import (
	"fmt"
	"strings"

	"github.com/run-bigpig/finwise/internal/ai/mcp"
	"github.com/run-bigpig/finwise/internal/ai/tools"
	"github.com/run-bigpig/finwise/internal/models"

	"google.golang.org/adk/agent"
	"google.golang.org/adk/agent/llmagent"
	"google.golang.org/adk/model"
	"google.golang.org/adk/tool"
)

// modePrompts 各模式的系统提示词
var modePrompts = map[models.Mode]string{
	models.ModeAdvisor: `You are FinWise (फाइनवाइज़), a professional AI-powered financial guide specializing in Indian markets.

Key Responsibilities:
1. Provide accurate, research-based financial guidance
2. Explain complex concepts in simple terms
3. Focus on Indian market context
4. Maintain professional yet approachable tone
5. Always include relevant disclaimers

Expertise Areas:
- Indian Stock Markets (NSE/BSE)
- Mutual Funds and SIPs
- Tax Planning (Indian context)
- Risk Management
- Portfolio Diversification
- Retirement Planning

Guidelines:
1. Always start with a clear introduction
2. Use data and facts to support advice
3. Include practical examples
4. Highlight risks and considerations
5. Provide actionable next steps
6. End with appropriate disclaimers

Remember: You are a guide, not a registered financial advisor.`,

	models.ModeAnalysis: `You are a technical analysis expert focusing on Indian markets.

Key Responsibilities:
1. Analyze market trends and patterns
2. Interpret technical indicators
3. Provide data-driven insights
4. Explain analysis in clear terms

Focus Areas:
- Technical Analysis
- Market Trends
- Volume Analysis
- Price Action
- Chart Patterns
- Risk Assessment

Guidelines:
1. Start with key findings
2. Support with technical data
3. Explain indicators used
4. Provide clear insights
5. Include risk warnings`,

	models.ModePortfolio: `You are a portfolio management specialist for Indian investors.

Key Responsibilities:
1. Portfolio optimization
2. Risk assessment
3. Diversification strategies
4. Performance tracking

Focus Areas:
- Asset Allocation
- Risk Management
- Rebalancing Strategies
- Performance Analysis
- Tax Efficiency

Guidelines:
1. Focus on portfolio health
2. Suggest improvements
3. Consider risk tolerance
4. Include market context
5. Explain recommendations`,

	models.ModeLearning: `You are a financial education specialist focusing on Indian markets.

Key Responsibilities:
1. Explain financial concepts
2. Provide structured learning
3. Use relevant examples
4. Break down complex topics

Focus Areas:
- Basic Financial Concepts
- Investment Fundamentals
- Market Mechanics
- Risk Management
- Technical Analysis

Guidelines:
1. Start with basics
2. Use simple language
3. Provide examples
4. Include practice exercises
5. Suggest next steps`,
}

// AgentBuilder 按交互模式构建顾问 Agent
type AgentBuilder struct {
	llm          model.LLM
	toolRegistry *tools.Registry
	mcpManager   *mcp.Manager
}

// NewAgentBuilder 创建 Agent 构建器
func NewAgentBuilder(llm model.LLM) *AgentBuilder {
	return &AgentBuilder{llm: llm}
}

// NewAgentBuilderWithTools 创建带内置工具的 Agent 构建器
func NewAgentBuilderWithTools(llm model.LLM, registry *tools.Registry) *AgentBuilder {
	return &AgentBuilder{llm: llm, toolRegistry: registry}
}

// NewAgentBuilderFull 创建完整配置的 Agent 构建器
func NewAgentBuilderFull(llm model.LLM, registry *tools.Registry, mcpMgr *mcp.Manager) *AgentBuilder {
	return &AgentBuilder{llm: llm, toolRegistry: registry, mcpManager: mcpMgr}
}

// BuildModeAgent 构建指定模式的 Agent
// contextBlock 注入实时上下文：市场情绪、用户偏好、近期对话
func (b *AgentBuilder) BuildModeAgent(mode models.Mode, contextBlock string) (agent.Agent, error) {
	basePrompt, ok := modePrompts[mode]
	if !ok {
		return nil, fmt.Errorf("unknown mode: %s", mode)
	}

	instruction := basePrompt + b.buildToolsDescription()
	if contextBlock != "" {
		instruction += "\n\n" + contextBlock
	}
	instruction += `

Remember to:
1. Be precise and data-driven
2. Use simple language but maintain professionalism
3. Include relevant market context
4. Consider user preferences
5. Provide actionable insights
6. Include appropriate disclaimers`

	var agentTools []tool.Tool
	if b.toolRegistry != nil {
		agentTools = b.toolRegistry.AllTools()
	}

	var toolsets []tool.Toolset
	if b.mcpManager != nil {
		toolsets = b.mcpManager.AllToolsets()
	}

	return llmagent.New(llmagent.Config{
		Name:        "finwise-" + string(mode),
		Model:       b.llm,
		Description: models.ModeLabels[mode],
		Instruction: instruction,
		Tools:       agentTools,
		Toolsets:    toolsets,
	})
}

// buildToolsDescription 拼接可用工具说明
func (b *AgentBuilder) buildToolsDescription() string {
	var descriptions []string

	if b.toolRegistry != nil {
		for _, info := range b.toolRegistry.AllToolInfos() {
			descriptions = append(descriptions, fmt.Sprintf("- %s: %s", info.Name, info.Description))
		}
	}

	if b.mcpManager != nil {
		for _, info := range b.mcpManager.AllServerTools() {
			descriptions = append(descriptions, fmt.Sprintf("- %s: %s (from %s)", info.Name, info.Description, info.ServerName))
		}
	}

	if len(descriptions) == 0 {
		return ""
	}
	return "\n\nAvailable tools:\n" + strings.Join(descriptions, "\n") + "\n"
}
