package models

// AIProvider AI 服务提供方
type AIProvider string

const (
	AIProviderGemini AIProvider = "gemini"
	AIProviderOpenAI AIProvider = "openai"
)

// AIConfig 单个 AI 服务配置
type AIConfig struct {
	ID        string     `json:"id"`
	Provider  AIProvider `json:"provider"`
	ModelName string     `json:"modelName"`
	APIKey    string     `json:"apiKey"`
	BaseURL   string     `json:"baseUrl,omitempty"`
	Priority  int        `json:"priority"` // 越小越优先
	Enabled   bool       `json:"enabled"`
}

// Preferences 用户偏好，注入到 AI 提示词中
type Preferences struct {
	Language    string `json:"language"`
	DetailLevel string `json:"detailLevel"`
	RiskProfile string `json:"riskProfile"`
}

// DefaultPreferences 默认用户偏好
func DefaultPreferences() Preferences {
	return Preferences{
		Language:    "en",
		DetailLevel: "detailed",
		RiskProfile: "moderate",
	}
}

// MCPTransportType MCP 服务器传输类型
type MCPTransportType string

const (
	MCPTransportHTTP    MCPTransportType = "http"
	MCPTransportSSE     MCPTransportType = "sse"
	MCPTransportCommand MCPTransportType = "command"
)

// MCPServerConfig MCP 服务器配置
type MCPServerConfig struct {
	ID            string           `json:"id"`
	Name          string           `json:"name"`
	Enabled       bool             `json:"enabled"`
	TransportType MCPTransportType `json:"transportType"`
	Endpoint      string           `json:"endpoint,omitempty"`
	Command       string           `json:"command,omitempty"`
	Args          []string         `json:"args,omitempty"`
	ToolFilter    []string         `json:"toolFilter,omitempty"`
}

// AppConfig 应用配置文件结构
type AppConfig struct {
	AIConfigs   []AIConfig        `json:"aiConfigs"`
	Preferences Preferences       `json:"preferences"`
	MCPServers  []MCPServerConfig `json:"mcpServers"`
}
