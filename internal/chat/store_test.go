package chat

import (
	"testing"

	"github.com/run-bigpig/finwise/internal/models"
)

// TestStoreAppend 追加条目分配唯一 ID 与时间戳
func TestStoreAppend(t *testing.T) {
	store := NewStore()

	first := store.Append(models.SenderUser, models.PlainText("hello"))
	second := store.Append(models.SenderBot, models.PlainText("hi"))

	if first.ID == "" || second.ID == "" {
		t.Fatal("条目 ID 不应为空")
	}
	if first.ID == second.ID {
		t.Error("条目 ID 不应重复")
	}
	if first.Timestamp.IsZero() || second.Timestamp.IsZero() {
		t.Error("条目时间戳不应为零值")
	}
	if second.Timestamp.Before(first.Timestamp) {
		t.Error("后追加的条目时间戳不应早于先追加的")
	}
	if store.Len() != 2 {
		t.Errorf("条目数 = %d, 期望 2", store.Len())
	}
}

// TestStoreSnapshot 快照与内部日志隔离
func TestStoreSnapshot(t *testing.T) {
	store := NewStore()
	store.Append(models.SenderUser, models.PlainText("one"))

	snap := store.Entries()
	snap[0].Fragment = models.PlainText("tampered")
	store.Append(models.SenderBot, models.PlainText("two"))

	fresh := store.Entries()
	if fresh[0].Fragment.Text() != "one" {
		t.Errorf("内部条目被快照篡改: %q", fresh[0].Fragment.Text())
	}
	if len(snap) != 1 {
		t.Errorf("旧快照长度 = %d, 期望 1", len(snap))
	}
}

// TestStoreOrder 条目按追加顺序排列
func TestStoreOrder(t *testing.T) {
	store := NewStore()
	inputs := []string{"a", "b", "c", "d"}
	for _, in := range inputs {
		store.Append(models.SenderUser, models.PlainText(in))
	}

	entries := store.Entries()
	for i, in := range inputs {
		if entries[i].Fragment.Text() != in {
			t.Errorf("第 %d 条 = %q, 期望 %q", i, entries[i].Fragment.Text(), in)
		}
	}
}
