package server

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/run-bigpig/finwise/internal/render"
)

type stubCommander struct {
	payload any
	err     error
	mode    string
	modeErr error
}

func (s *stubCommander) Process(ctx context.Context, input string) (any, error) {
	return s.payload, s.err
}

func (s *stubCommander) ChangeMode(ctx context.Context, mode string) (string, error) {
	if s.modeErr != nil {
		return "", s.modeErr
	}
	s.mode = mode
	return "Switched to 📊 Market Analysis Mode", nil
}

func (s *stubCommander) Help() string { return "Available Commands: price, analysis" }

func postJSON(t *testing.T, srv *httptest.Server, path string, body string) *http.Response {
	t.Helper()
	resp, err := http.Post(srv.URL+path, "application/json", bytes.NewBufferString(body))
	if err != nil {
		t.Fatalf("请求失败: %v", err)
	}
	return resp
}

// TestCommandString 字符串响应
func TestCommandString(t *testing.T) {
	srv := httptest.NewServer(New(&stubCommander{payload: "hello"}).Handler())
	defer srv.Close()

	resp := postJSON(t, srv, "/api/command", `{"command":"help"}`)
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("状态码 = %d", resp.StatusCode)
	}

	var envelope struct {
		Response string `json:"response"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&envelope); err != nil {
		t.Fatalf("解码失败: %v", err)
	}
	if envelope.Response != "hello" {
		t.Errorf("响应 = %q", envelope.Response)
	}
}

// TestCommandObjectOrder 对象响应按插入顺序编码
func TestCommandObjectOrder(t *testing.T) {
	payload := render.NewObject().
		Set("average_price", 2945.3).
		Set("reliability", "High").
		Set("market_status", "Open")
	srv := httptest.NewServer(New(&stubCommander{payload: payload}).Handler())
	defer srv.Close()

	resp := postJSON(t, srv, "/api/command", `{"command":"price RELIANCE"}`)
	defer resp.Body.Close()

	var buf bytes.Buffer
	if _, err := buf.ReadFrom(resp.Body); err != nil {
		t.Fatalf("读取失败: %v", err)
	}
	body := buf.String()

	// average_price 必须出现在 reliability 之前
	if strings.Index(body, "average_price") > strings.Index(body, "reliability") {
		t.Errorf("键顺序错误: %s", body)
	}
	if !strings.Contains(body, `"market_status":"Open"`) {
		t.Errorf("缺少字段: %s", body)
	}
}

// TestCommandEmpty 空命令拒绝
func TestCommandEmpty(t *testing.T) {
	srv := httptest.NewServer(New(&stubCommander{}).Handler())
	defer srv.Close()

	resp := postJSON(t, srv, "/api/command", `{"command":"  "}`)
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusBadRequest {
		t.Errorf("状态码 = %d, 期望 400", resp.StatusCode)
	}
}

// TestCommandFailure 处理失败返回 500
func TestCommandFailure(t *testing.T) {
	srv := httptest.NewServer(New(&stubCommander{err: errors.New("backend exploded")}).Handler())
	defer srv.Close()

	resp := postJSON(t, srv, "/api/command", `{"command":"price X"}`)
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusInternalServerError {
		t.Errorf("状态码 = %d, 期望 500", resp.StatusCode)
	}
}

// TestModeChange 模式切换
func TestModeChange(t *testing.T) {
	commander := &stubCommander{}
	srv := httptest.NewServer(New(commander).Handler())
	defer srv.Close()

	resp := postJSON(t, srv, "/api/mode", `{"mode":"analysis"}`)
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("状态码 = %d", resp.StatusCode)
	}
	if commander.mode != "analysis" {
		t.Errorf("后端收到的模式 = %q", commander.mode)
	}
}

// TestModeRejected 非法模式返回 400
func TestModeRejected(t *testing.T) {
	srv := httptest.NewServer(New(&stubCommander{modeErr: errors.New("unknown mode: turbo")}).Handler())
	defer srv.Close()

	resp := postJSON(t, srv, "/api/mode", `{"mode":"turbo"}`)
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusBadRequest {
		t.Errorf("状态码 = %d, 期望 400", resp.StatusCode)
	}
}

// TestHelp 帮助接口
func TestHelp(t *testing.T) {
	srv := httptest.NewServer(New(&stubCommander{}).Handler())
	defer srv.Close()

	resp, err := http.Get(srv.URL + "/api/help")
	if err != nil {
		t.Fatalf("请求失败: %v", err)
	}
	defer resp.Body.Close()

	var envelope struct {
		Help string `json:"help"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&envelope); err != nil {
		t.Fatalf("解码失败: %v", err)
	}
	if !strings.Contains(envelope.Help, "Available Commands") {
		t.Errorf("帮助文本 = %q", envelope.Help)
	}
}
