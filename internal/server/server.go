// Package server 提供无界面运行时的 HTTP API
// 路由与桌面端 transport.Client 消费的协议一一对应
package server

import (
	"context"
	"encoding/json"
	"io/fs"
	"net/http"
	"strings"
	"time"

	"github.com/run-bigpig/finwise/internal/logger"
)

var log = logger.New("server")

// Commander 命令处理能力边界，由 bot.Bot 实现
type Commander interface {
	Process(ctx context.Context, input string) (any, error)
	ChangeMode(ctx context.Context, mode string) (string, error)
	Help() string
}

// Server 聊天后端 HTTP 服务
type Server struct {
	commander Commander
	assets    fs.FS
}

// New 创建服务
func New(commander Commander) *Server {
	return &Server{commander: commander}
}

// ServeAssets 挂载内嵌前端，无界面模式下浏览器直接访问根路径
func (s *Server) ServeAssets(assets fs.FS) {
	s.assets = assets
}

// Handler 返回路由好的 http.Handler
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("POST /api/command", s.handleCommand)
	mux.HandleFunc("POST /api/mode", s.handleMode)
	mux.HandleFunc("GET /api/help", s.handleHelp)
	if s.assets != nil {
		mux.Handle("/", http.FileServerFS(s.assets))
	}
	return mux
}

// ListenAndServe 启动服务并阻塞
func (s *Server) ListenAndServe(addr string) error {
	log.Info("listening on %s", addr)
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}
	return srv.ListenAndServe()
}

type commandRequest struct {
	Command string `json:"command"`
}

type modeRequest struct {
	Mode string `json:"mode"`
}

// handleCommand 处理聊天命令，响应 {"response": <string|object>}
func (s *Server) handleCommand(w http.ResponseWriter, r *http.Request) {
	var req commandRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if strings.TrimSpace(req.Command) == "" {
		writeError(w, http.StatusBadRequest, "command is required")
		return
	}

	payload, err := s.commander.Process(r.Context(), req.Command)
	if err != nil {
		log.Warn("command %q failed: %v", req.Command, err)
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"response": payload})
}

// handleMode 切换交互模式，响应 {"response": <确认文案>}
func (s *Server) handleMode(w http.ResponseWriter, r *http.Request) {
	var req modeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	msg, err := s.commander.ChangeMode(r.Context(), req.Mode)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"response": msg})
}

// handleHelp 帮助文本，响应 {"help": <text>}
func (s *Server) handleHelp(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{"help": s.commander.Help()})
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		log.Warn("write response: %v", err)
	}
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}
