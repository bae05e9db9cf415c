package domain

import (
	"context"
	"encoding/json"
	"reflect"
	"testing"
)

func TestDiff(t *testing.T) {
	tests := []struct {
		name     string
		old      map[string]any
		new      map[string]any
		wantDiff *StateDiff // nil means we expect no diff
	}{
		{
			name: "Initial Load (Old is Nil)",
			old:  nil,
			new:  map[string]any{"count": 1},
			wantDiff: &StateDiff{
				Path:    "root",
				Changes: map[string]any{"count": 1},
			},
		},
		{
			name:     "No Changes",
			old:      map[string]any{"count": 1, "items": []any{"a"}},
			new:      map[string]any{"count": 1, "items": []any{"a"}},
			wantDiff: nil,
		},
		{
			name: "Nested Change",
			old:  map[string]any{"count": 1, "items": []any{"a"}},
			new:  map[string]any{"count": 1, "items": []any{"a", "b"}},
			wantDiff: &StateDiff{
				Path:    "root",
				Changes: map[string]any{"items": []any{"a", "b"}},
			},
		},
		{
			name: "Add And Delete",
			old:  map[string]any{"gone": true},
			new:  map[string]any{"fresh": "yes"},
			wantDiff: &StateDiff{
				Path:    "root",
				Changes: map[string]any{"gone": nil, "fresh": "yes"},
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Diff("root", tt.old, tt.new)
			if !reflect.DeepEqual(got, tt.wantDiff) {
				gotJSON, _ := json.Marshal(got)
				wantJSON, _ := json.Marshal(tt.wantDiff)
				t.Errorf("Diff() = %s, want %s", gotJSON, wantJSON)
			}
			if tt.wantDiff == nil && !got.IsEmpty() {
				t.Errorf("expected empty diff")
			}
		})
	}
}

func TestMergeHooks(t *testing.T) {
	var calls []string
	first := LifecycleHooks{
		OnMutation: func(_ context.Context, m *MutationRecord) { calls = append(calls, "first:"+m.Type) },
	}
	second := LifecycleHooks{
		OnMutation:  func(_ context.Context, m *MutationRecord) { calls = append(calls, "second:"+m.Type) },
		OnViolation: func(_ context.Context, err error) { calls = append(calls, "violation") },
	}

	merged := MergeHooks(first, LifecycleHooks{}, second)
	merged.OnMutation(context.Background(), &MutationRecord{Type: "inc"})
	merged.OnViolation(context.Background(), &UnguardedWriteWarning{})

	want := []string{"first:inc", "second:inc", "violation"}
	if !reflect.DeepEqual(calls, want) {
		t.Errorf("calls = %v, want %v", calls, want)
	}
	if merged.OnTrigger != nil {
		t.Errorf("expected OnTrigger to stay nil")
	}
}

func TestQualify(t *testing.T) {
	if got := Qualify("root/todos", "addTodo"); got != "root/todos/addTodo" {
		t.Errorf("Qualify() = %q", got)
	}
	if got := Qualify("", ""); got != AnonymousName {
		t.Errorf("Qualify() = %q", got)
	}
	ev := TriggerEvent{Path: "root/todos/items", Key: "0"}
	if got := ev.KeyPath(); got != "root/todos/items/0" {
		t.Errorf("KeyPath() = %q", got)
	}
}
