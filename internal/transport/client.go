// Package transport 通过 HTTP 连接 FinWise 后端的客户端实现
package transport

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/run-bigpig/finwise/internal/logger"
	"github.com/run-bigpig/finwise/internal/render"
)

var clientLog = logger.New("transport")

const defaultTimeout = 30 * time.Second

// Client HTTP 后端客户端，实现 chat.Transport
type Client struct {
	baseURL    string
	httpClient *http.Client
}

// NewClient 创建客户端，baseURL 形如 http://127.0.0.1:8080
func NewClient(baseURL string) *Client {
	return &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{Timeout: defaultTimeout},
	}
}

// commandRequest /api/command 请求体
type commandRequest struct {
	Command string `json:"command"`
}

// modeRequest /api/mode 请求体
type modeRequest struct {
	Mode string `json:"mode"`
}

// SendCommand 发送命令并返回后端响应
// 响应可能是字符串或结构化对象，对象解码为保序的 *render.Object
func (c *Client) SendCommand(ctx context.Context, command string) (any, error) {
	body, err := c.postJSON(ctx, "/api/command", commandRequest{Command: command})
	if err != nil {
		return nil, err
	}

	var envelope struct {
		Response json.RawMessage `json:"response"`
	}
	if err := json.Unmarshal(body, &envelope); err != nil {
		return nil, fmt.Errorf("decode command response: %w", err)
	}
	return decodePayload(envelope.Response)
}

// ChangeMode 请求后端切换模式，返回确认文案
func (c *Client) ChangeMode(ctx context.Context, mode string) (string, error) {
	body, err := c.postJSON(ctx, "/api/mode", modeRequest{Mode: mode})
	if err != nil {
		return "", err
	}

	var envelope struct {
		Response string `json:"response"`
	}
	if err := json.Unmarshal(body, &envelope); err != nil {
		return "", fmt.Errorf("decode mode response: %w", err)
	}
	return envelope.Response, nil
}

// FetchHelp 获取帮助文本
func (c *Client) FetchHelp(ctx context.Context) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/api/help", nil)
	if err != nil {
		return "", err
	}

	body, err := c.do(req)
	if err != nil {
		return "", err
	}

	var envelope struct {
		Help string `json:"help"`
	}
	if err := json.Unmarshal(body, &envelope); err != nil {
		return "", fmt.Errorf("decode help response: %w", err)
	}
	return envelope.Help, nil
}

// postJSON 发送 JSON POST 请求并返回响应体
func (c *Client) postJSON(ctx context.Context, path string, payload any) ([]byte, error) {
	data, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, bytes.NewReader(data))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")

	return c.do(req)
}

// do 执行请求，非 2xx 一律视为错误
func (c *Client) do(req *http.Request) ([]byte, error) {
	resp, err := c.httpClient.Do(req)
	if err != nil {
		clientLog.Warn("%s %s failed: %v", req.Method, req.URL.Path, err)
		return nil, err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, err
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, fmt.Errorf("backend returned %d for %s", resp.StatusCode, req.URL.Path)
	}
	return body, nil
}

// decodePayload 解码响应负载：对象保留键序，其余按普通 JSON 处理
func decodePayload(raw json.RawMessage) (any, error) {
	trimmed := bytes.TrimSpace(raw)
	if len(trimmed) == 0 {
		return "", nil
	}

	if trimmed[0] == '{' {
		obj, err := render.DecodeObject(trimmed)
		if err != nil {
			return nil, fmt.Errorf("decode object payload: %w", err)
		}
		return obj, nil
	}

	var value any
	if err := json.Unmarshal(trimmed, &value); err != nil {
		return nil, fmt.Errorf("decode payload: %w", err)
	}
	return value, nil
}
