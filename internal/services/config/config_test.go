package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/run-bigpig/finwise/internal/models"
)

// TestLoadMissingFile 配置文件不存在时使用默认配置
func TestLoadMissingFile(t *testing.T) {
	svc := NewServiceWithFile(filepath.Join(t.TempDir(), "config.json"))

	prefs := svc.Preferences()
	if prefs.Language != "en" || prefs.DetailLevel != "detailed" || prefs.RiskProfile != "moderate" {
		t.Errorf("默认偏好 = %+v", prefs)
	}
}

// TestSaveAndReload 保存后重新加载一致
func TestSaveAndReload(t *testing.T) {
	file := filepath.Join(t.TempDir(), "config.json")
	svc := NewServiceWithFile(file)

	cfg := svc.Get()
	cfg.AIConfigs = []models.AIConfig{
		{ID: "g1", Provider: models.AIProviderGemini, ModelName: "gemini-2.0-flash", APIKey: "key", Priority: 1, Enabled: true},
	}
	cfg.Preferences.RiskProfile = "aggressive"
	if err := svc.Save(cfg); err != nil {
		t.Fatalf("Save 失败: %v", err)
	}

	reloaded := NewServiceWithFile(file)
	if len(reloaded.Get().AIConfigs) != 1 {
		t.Errorf("重载后 AI 配置数 = %d", len(reloaded.Get().AIConfigs))
	}
	if reloaded.Preferences().RiskProfile != "aggressive" {
		t.Errorf("重载后风险偏好 = %s", reloaded.Preferences().RiskProfile)
	}
}

// TestCorruptedFile 配置损坏时回退默认
func TestCorruptedFile(t *testing.T) {
	file := filepath.Join(t.TempDir(), "config.json")
	os.WriteFile(file, []byte("{broken"), 0644)

	svc := NewServiceWithFile(file)
	if svc.Preferences().Language != "en" {
		t.Errorf("损坏配置应回退默认: %+v", svc.Preferences())
	}
}

// TestActiveAIConfigsPriority 按优先级排序并过滤禁用项
func TestActiveAIConfigsPriority(t *testing.T) {
	svc := NewServiceWithFile(filepath.Join(t.TempDir(), "config.json"))
	cfg := svc.Get()
	cfg.AIConfigs = []models.AIConfig{
		{ID: "low", Provider: models.AIProviderOpenAI, APIKey: "k", Priority: 5, Enabled: true},
		{ID: "off", Provider: models.AIProviderGemini, APIKey: "k", Priority: 1, Enabled: false},
		{ID: "high", Provider: models.AIProviderGemini, APIKey: "k", Priority: 2, Enabled: true},
		{ID: "nokey", Provider: models.AIProviderGemini, APIKey: "", Priority: 0, Enabled: true},
	}
	svc.Save(cfg)

	active := svc.ActiveAIConfigs()
	if len(active) != 2 {
		t.Fatalf("可用配置数 = %d, 期望 2", len(active))
	}
	if active[0].ID != "high" || active[1].ID != "low" {
		t.Errorf("排序 = %s, %s", active[0].ID, active[1].ID)
	}
}

// TestEnvFallback 配置为空时回退环境变量
func TestEnvFallback(t *testing.T) {
	t.Setenv("GOOGLE_API_KEY", "env-key")
	t.Setenv("OPENAI_API_KEY", "")

	svc := NewServiceWithFile(filepath.Join(t.TempDir(), "config.json"))
	active := svc.ActiveAIConfigs()
	if len(active) != 1 {
		t.Fatalf("可用配置数 = %d, 期望 1", len(active))
	}
	if active[0].Provider != models.AIProviderGemini || active[0].APIKey != "env-key" {
		t.Errorf("环境变量配置 = %+v", active[0])
	}
}

// TestMCPServersFilter 只返回启用的 MCP 服务器
func TestMCPServersFilter(t *testing.T) {
	svc := NewServiceWithFile(filepath.Join(t.TempDir(), "config.json"))
	cfg := svc.Get()
	cfg.MCPServers = []models.MCPServerConfig{
		{ID: "on", Enabled: true, TransportType: models.MCPTransportHTTP, Endpoint: "http://localhost:9000"},
		{ID: "off", Enabled: false, TransportType: models.MCPTransportSSE},
	}
	svc.Save(cfg)

	servers := svc.MCPServers()
	if len(servers) != 1 || servers[0].ID != "on" {
		t.Errorf("启用的服务器 = %+v", servers)
	}
}

// TestSearchSymbols 内置代码表搜索，代码前缀 > 名称前缀 > 包含
func TestSearchSymbols(t *testing.T) {
	s := NewServiceWithFile(filepath.Join(t.TempDir(), "config.json"))

	// TCS 仅名称（Tata Consultancy Services）前缀命中，须排在全部代码前缀命中之后
	results := s.SearchSymbols("TATA", 10)
	if len(results) < 4 {
		t.Fatalf("TATA 命中 = %d 条, 期望至少 4", len(results))
	}
	lastSymbolPrefix, tcsAt := -1, -1
	for i, r := range results {
		if strings.HasPrefix(r.Symbol, "TATA") {
			lastSymbolPrefix = i
		}
		if r.Symbol == "TCS" {
			tcsAt = i
		}
	}
	if lastSymbolPrefix < 0 || tcsAt < 0 {
		t.Fatalf("命中缺失: 代码前缀位 %d, TCS 位 %d", lastSymbolPrefix, tcsAt)
	}
	if tcsAt < lastSymbolPrefix {
		t.Errorf("TCS 位于 %d, 应排在代码前缀命中(至 %d)之后", tcsAt, lastSymbolPrefix)
	}

	if got := s.SearchSymbols("reliance", 5); len(got) == 0 || got[0].Symbol != "RELIANCE" {
		t.Errorf("小写关键词应命中 RELIANCE: %v", got)
	}

	if got := s.SearchSymbols("ZZZZZZ", 5); len(got) != 0 {
		t.Errorf("无匹配关键词应返回空: %v", got)
	}

	if got := s.SearchSymbols("A", 3); len(got) > 3 {
		t.Errorf("limit 未生效: %d 条", len(got))
	}
}
