// Package openai 提供 OpenAI 兼容接口到 ADK model.LLM 的适配
package openai

import (
	"context"
	"errors"
	"iter"

	"github.com/sashabaranov/go-openai"
	"google.golang.org/adk/model"

	"github.com/run-bigpig/finwise/internal/logger"
)

var modelLog = logger.New("openai:model")

var _ model.LLM = &Model{}

var ErrNoChoicesInResponse = errors.New("no choices in OpenAI response")

// Model 实现 model.LLM 接口，覆盖 OpenAI 及兼容网关
type Model struct {
	Client       *openai.Client
	ModelName    string
	NoSystemRole bool // 部分兼容网关不支持 system role，需降级为 user 消息
}

// NewModel 创建 OpenAI 兼容模型
func NewModel(modelName string, cfg openai.ClientConfig, noSystemRole bool) *Model {
	return &Model{
		Client:       openai.NewClientWithConfig(cfg),
		ModelName:    modelName,
		NoSystemRole: noSystemRole,
	}
}

// Name 返回模型名称
func (m *Model) Name() string {
	return m.ModelName
}

// GenerateContent 实现 model.LLM 接口
// 统一走非流式请求：回复在聚合后一次性推给前端，流式在这里没有收益
func (m *Model) GenerateContent(ctx context.Context, req *model.LLMRequest, stream bool) iter.Seq2[*model.LLMResponse, error] {
	return func(yield func(*model.LLMResponse, error) bool) {
		openaiReq, err := toChatCompletionRequest(req, m.ModelName, m.NoSystemRole)
		if err != nil {
			yield(nil, err)
			return
		}

		resp, err := m.Client.CreateChatCompletion(ctx, openaiReq)
		if err != nil {
			modelLog.Warn("chat completion 请求失败: %v", err)
			yield(nil, err)
			return
		}

		llmResp, err := convertChatCompletionResponse(&resp)
		if err != nil {
			yield(nil, err)
			return
		}

		yield(llmResp, nil)
	}
}
