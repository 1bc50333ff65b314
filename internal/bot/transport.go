package bot

import "context"

// LocalTransport 进程内传输：前端会话直接调用本地分发器，不经过网络
type LocalTransport struct {
	bot *Bot
}

// NewLocalTransport 创建进程内传输
func NewLocalTransport(b *Bot) *LocalTransport {
	return &LocalTransport{bot: b}
}

// SendCommand 处理命令
func (t *LocalTransport) SendCommand(ctx context.Context, command string) (any, error) {
	return t.bot.Process(ctx, command)
}

// ChangeMode 切换模式
func (t *LocalTransport) ChangeMode(ctx context.Context, mode string) (string, error) {
	return t.bot.ChangeMode(ctx, mode)
}

// FetchHelp 帮助文本
func (t *LocalTransport) FetchHelp(ctx context.Context) (string, error) {
	return t.bot.Help(), nil
}
