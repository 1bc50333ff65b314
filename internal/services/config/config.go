// Package config 应用配置的加载、保存与 AI 配置解析
package config

import (
	"encoding/json"
	"os"
	"path/filepath"
	"sort"
	"sync"

	"github.com/run-bigpig/finwise/internal/logger"
	"github.com/run-bigpig/finwise/internal/models"
	"github.com/run-bigpig/finwise/internal/pkg/paths"
)

var configLog = logger.New("config")

// Service 配置服务，配置持久化为数据目录下的 config.json
type Service struct {
	file string
	mu   sync.RWMutex
	cfg  *models.AppConfig
}

// NewService 创建配置服务并加载现有配置
func NewService() *Service {
	return NewServiceWithFile(filepath.Join(paths.EnsureDir(paths.GetDataDir()), "config.json"))
}

// NewServiceWithFile 指定配置文件路径的构造，便于测试
func NewServiceWithFile(file string) *Service {
	s := &Service{file: file}
	s.cfg = s.load()
	return s
}

// load 读取配置文件，不存在或损坏时使用默认配置
func (s *Service) load() *models.AppConfig {
	cfg := &models.AppConfig{Preferences: models.DefaultPreferences()}

	data, err := os.ReadFile(s.file)
	if err != nil {
		return cfg
	}
	if err := json.Unmarshal(data, cfg); err != nil {
		configLog.Warn("config file corrupted, using defaults: %v", err)
		return &models.AppConfig{Preferences: models.DefaultPreferences()}
	}
	if cfg.Preferences == (models.Preferences{}) {
		cfg.Preferences = models.DefaultPreferences()
	}
	return cfg
}

// Get 当前配置的副本
func (s *Service) Get() models.AppConfig {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return *s.cfg
}

// Save 整体替换配置并落盘
func (s *Service) Save(cfg models.AppConfig) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	data, err := json.MarshalIndent(&cfg, "", "    ")
	if err != nil {
		return err
	}
	if err := os.WriteFile(s.file, data, 0644); err != nil {
		return err
	}
	s.cfg = &cfg
	return nil
}

// Preferences 用户偏好
func (s *Service) Preferences() models.Preferences {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.cfg.Preferences
}

// SetPreferences 更新用户偏好并落盘
func (s *Service) SetPreferences(prefs models.Preferences) error {
	cfg := s.Get()
	cfg.Preferences = prefs
	return s.Save(cfg)
}

// MCPServers 已启用的 MCP 服务器配置
func (s *Service) MCPServers() []models.MCPServerConfig {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]models.MCPServerConfig, 0, len(s.cfg.MCPServers))
	for _, srv := range s.cfg.MCPServers {
		if srv.Enabled {
			out = append(out, srv)
		}
	}
	return out
}

// ActiveAIConfigs 按优先级排序的可用 AI 配置
// 配置文件为空时回退到环境变量 GOOGLE_API_KEY / OPENAI_API_KEY
func (s *Service) ActiveAIConfigs() []models.AIConfig {
	s.mu.RLock()
	configs := make([]models.AIConfig, 0, len(s.cfg.AIConfigs))
	for _, c := range s.cfg.AIConfigs {
		if c.Enabled && c.APIKey != "" {
			configs = append(configs, c)
		}
	}
	s.mu.RUnlock()

	if len(configs) == 0 {
		configs = envAIConfigs()
	}

	sort.SliceStable(configs, func(i, j int) bool {
		return configs[i].Priority < configs[j].Priority
	})
	return configs
}

// envAIConfigs 从环境变量构造 AI 配置
func envAIConfigs() []models.AIConfig {
	var configs []models.AIConfig
	if key := os.Getenv("GOOGLE_API_KEY"); key != "" {
		configs = append(configs, models.AIConfig{
			ID:        "env-gemini",
			Provider:  models.AIProviderGemini,
			ModelName: "gemini-2.0-flash",
			APIKey:    key,
			Priority:  1,
			Enabled:   true,
		})
	}
	if key := os.Getenv("OPENAI_API_KEY"); key != "" {
		configs = append(configs, models.AIConfig{
			ID:        "env-openai",
			Provider:  models.AIProviderOpenAI,
			ModelName: "gpt-4o-mini",
			APIKey:    key,
			BaseURL:   os.Getenv("OPENAI_BASE_URL"),
			Priority:  2,
			Enabled:   true,
		})
	}
	return configs
}
