package saved

import (
	"path/filepath"
	"testing"
)

// TestSaveAndList 收藏顺序与持久化
func TestSaveAndList(t *testing.T) {
	file := filepath.Join(t.TempDir(), "saved.json")
	store := NewStoreWithFile(file)

	if err := store.Save("first advice"); err != nil {
		t.Fatalf("Save 失败: %v", err)
	}
	if err := store.Save("second advice"); err != nil {
		t.Fatalf("Save 失败: %v", err)
	}

	items, err := store.List()
	if err != nil {
		t.Fatalf("List 失败: %v", err)
	}
	if len(items) != 2 {
		t.Fatalf("条目数 = %d, 期望 2", len(items))
	}
	if items[0].Text != "first advice" || items[1].Text != "second advice" {
		t.Errorf("条目顺序 = %q, %q", items[0].Text, items[1].Text)
	}
	if items[0].Timestamp == "" {
		t.Error("时间戳不应为空")
	}

	// 重新打开仍能读到
	reopened := NewStoreWithFile(file)
	items, _ = reopened.List()
	if len(items) != 2 {
		t.Errorf("重载后条目数 = %d", len(items))
	}
}

// TestSaveEmpty 空内容被拒绝
func TestSaveEmpty(t *testing.T) {
	store := NewStoreWithFile(filepath.Join(t.TempDir(), "saved.json"))

	if err := store.Save(""); err == nil {
		t.Error("空内容应返回错误")
	}
}

// TestListEmpty 无收藏时返回空列表
func TestListEmpty(t *testing.T) {
	store := NewStoreWithFile(filepath.Join(t.TempDir(), "saved.json"))

	items, err := store.List()
	if err != nil {
		t.Fatalf("List 失败: %v", err)
	}
	if len(items) != 0 {
		t.Errorf("条目数 = %d, 期望 0", len(items))
	}
}
