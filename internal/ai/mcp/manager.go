// Package mcp 管理用户配置的 MCP (Model Context Protocol) 服务器
package mcp

import (
	"context"
	"os/exec"
	"sync"
	"time"

	"github.com/run-bigpig/finwise/internal/logger"
	"github.com/run-bigpig/finwise/internal/models"

	"github.com/modelcontextprotocol/go-sdk/mcp"
	"google.golang.org/adk/tool"
	"google.golang.org/adk/tool/mcptoolset"
)

var log = logger.New("mcp")

const (
	clientVersion = "1.0.0"
	dialTimeout   = 5 * time.Second
	listTimeout   = 10 * time.Second
)

// ServerStatus MCP 服务器连通性检测结果
type ServerStatus struct {
	ID        string `json:"id"`
	Connected bool   `json:"connected"`
	Error     string `json:"error"`
}

// ToolInfo MCP 工具信息
type ToolInfo struct {
	Name        string `json:"name"`
	Description string `json:"description"`
	ServerID    string `json:"serverId"`
	ServerName  string `json:"serverName"`
}

// server 一台已启用的 MCP 服务器
// toolset 在加载时按配置建出；建不出来时只留配置，连通性检测仍可用
type server struct {
	cfg     *models.MCPServerConfig
	toolset tool.Toolset
}

// transport 按配置选择传输层
func (s *server) transport() mcp.Transport {
	switch s.cfg.TransportType {
	case models.MCPTransportSSE:
		return &mcp.SSEClientTransport{Endpoint: s.cfg.Endpoint}
	case models.MCPTransportCommand:
		return &mcp.CommandTransport{Command: exec.Command(s.cfg.Command, s.cfg.Args...)}
	default: // http
		return &mcp.StreamableClientTransport{Endpoint: s.cfg.Endpoint}
	}
}

// dial 建立一条客户端会话，调用方负责 Close
func (s *server) dial(ctx context.Context) (*mcp.ClientSession, error) {
	client := mcp.NewClient(&mcp.Implementation{Name: s.cfg.Name, Version: clientVersion}, nil)
	return client.Connect(ctx, s.transport(), nil)
}

// Manager 持有配置中启用的 MCP 服务器
type Manager struct {
	mu      sync.RWMutex
	servers map[string]*server
}

// NewManager 创建 MCP 管理器
func NewManager() *Manager {
	return &Manager{servers: make(map[string]*server)}
}

// LoadConfigs 用配置重建服务器表，未启用的条目丢弃
func (m *Manager) LoadConfigs(configs []models.MCPServerConfig) {
	servers := make(map[string]*server, len(configs))
	for i := range configs {
		cfg := &configs[i]
		if !cfg.Enabled {
			continue
		}

		srv := &server{cfg: cfg}
		ts, err := mcptoolset.New(mcptoolset.Config{
			Transport:  srv.transport(),
			ToolFilter: tool.StringPredicate(cfg.ToolFilter),
		})
		if err != nil {
			log.Warn("MCP 服务器 %s toolset 创建失败: %v", cfg.ID, err)
		} else {
			srv.toolset = ts
		}
		servers[cfg.ID] = srv
	}

	m.mu.Lock()
	m.servers = servers
	m.mu.Unlock()
	log.Info("已加载 %d 个 MCP 服务器", len(servers))
}

func (m *Manager) lookup(serverID string) (*server, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	srv, ok := m.servers[serverID]
	return srv, ok
}

func (m *Manager) serverIDs() []string {
	m.mu.RLock()
	defer m.mu.RUnlock()
	ids := make([]string, 0, len(m.servers))
	for id := range m.servers {
		ids = append(ids, id)
	}
	return ids
}

// AllToolsets 全部可用的 toolsets，供 agent 构建使用
func (m *Manager) AllToolsets() []tool.Toolset {
	m.mu.RLock()
	defer m.mu.RUnlock()

	var result []tool.Toolset
	for _, srv := range m.servers {
		if srv.toolset != nil {
			result = append(result, srv.toolset)
		}
	}
	return result
}

// TestConnection 对指定服务器做一次连通性检测
func (m *Manager) TestConnection(serverID string) *ServerStatus {
	status := &ServerStatus{ID: serverID}

	srv, ok := m.lookup(serverID)
	if !ok {
		status.Error = "server not configured"
		return status
	}

	ctx, cancel := context.WithTimeout(context.Background(), dialTimeout)
	defer cancel()

	session, err := srv.dial(ctx)
	if err != nil {
		status.Error = err.Error()
		return status
	}
	session.Close()

	status.Connected = true
	return status
}

// ServerTools 列出指定服务器暴露的工具，未配置的服务器返回空
func (m *Manager) ServerTools(serverID string) ([]ToolInfo, error) {
	srv, ok := m.lookup(serverID)
	if !ok {
		return nil, nil
	}

	ctx, cancel := context.WithTimeout(context.Background(), listTimeout)
	defer cancel()

	session, err := srv.dial(ctx)
	if err != nil {
		return nil, err
	}
	defer session.Close()

	resp, err := session.ListTools(ctx, nil)
	if err != nil {
		return nil, err
	}

	infos := make([]ToolInfo, 0, len(resp.Tools))
	for _, t := range resp.Tools {
		infos = append(infos, ToolInfo{
			Name:        t.Name,
			Description: t.Description,
			ServerID:    serverID,
			ServerName:  srv.cfg.Name,
		})
	}
	return infos, nil
}

// AllServerTools 汇总全部服务器的工具列表，失败的服务器跳过
func (m *Manager) AllServerTools() []ToolInfo {
	var all []ToolInfo
	for _, id := range m.serverIDs() {
		infos, err := m.ServerTools(id)
		if err != nil {
			log.Warn("MCP 服务器 %s 工具列表获取失败: %v", id, err)
			continue
		}
		all = append(all, infos...)
	}
	return all
}
