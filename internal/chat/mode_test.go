package chat

import (
	"context"
	"errors"
	"testing"

	"github.com/run-bigpig/finwise/internal/models"
)

// TestModeChangeSuccess 后端确认后模式才切换
func TestModeChangeSuccess(t *testing.T) {
	transport := &fakeTransport{modeMsg: "Switched to Analysis Mode"}
	ctrl := NewModeController(transport)

	if ctrl.Current() != models.ModeAdvisor {
		t.Fatalf("初始模式 = %s, 期望 advisor", ctrl.Current())
	}

	msg, err := ctrl.RequestModeChange(context.Background(), "analysis")
	if err != nil {
		t.Fatalf("切换失败: %v", err)
	}
	if msg != "Switched to Analysis Mode" {
		t.Errorf("确认文案 = %q", msg)
	}
	if ctrl.Current() != models.ModeAnalysis {
		t.Errorf("当前模式 = %s, 期望 analysis", ctrl.Current())
	}
}

// TestModeChangeFailure 后端失败时保持原模式
func TestModeChangeFailure(t *testing.T) {
	transport := &fakeTransport{modeErr: errors.New("backend down")}
	ctrl := NewModeController(transport)

	if _, err := ctrl.RequestModeChange(context.Background(), "portfolio"); err == nil {
		t.Fatal("期望切换失败返回错误")
	}
	if ctrl.Current() != models.ModeAdvisor {
		t.Errorf("失败后模式 = %s, 期望保持 advisor", ctrl.Current())
	}
}

// TestModeChangeUnknown 未知模式直接拒绝，不触达后端
func TestModeChangeUnknown(t *testing.T) {
	transport := &fakeTransport{modeMsg: "should not be used"}
	ctrl := NewModeController(transport)

	if _, err := ctrl.RequestModeChange(context.Background(), "turbo"); err == nil {
		t.Fatal("未知模式应返回错误")
	}
	if ctrl.Current() != models.ModeAdvisor {
		t.Errorf("模式 = %s, 期望保持 advisor", ctrl.Current())
	}
}
