/*
Copyright © 2026 Deutsche Telekom AG
*/
package conditions

import (
	"testing"
	"time"

	metav1 "k8s.io/apimachinery/pkg/apis/meta/v1"
)

func TestSet(t *testing.T) {
	t.Run("set new condition", func(t *testing.T) {
		e, _ := newTestEngine()
		obj := &testObject{}
		cond := &metav1.Condition{
			Type:    string(TestConditionType),
			Status:  metav1.ConditionTrue,
			Reason:  "TestReason",
			Message: "Test message",
		}

		e.Set(obj, cond)

		if len(obj.conditions) != 1 {
			t.Fatalf("expected 1 condition, got %d", len(obj.conditions))
		}
		want := metav1.NewTime(fixedTime)
		if !obj.conditions[0].LastTransitionTime.Equal(&want) {
			t.Errorf("LastTransitionTime = %v, want %v", obj.conditions[0].LastTransitionTime, want)
		}
		if !cond.LastTransitionTime.Equal(&want) {
			t.Error("input condition should carry the stored LastTransitionTime")
		}
	})

	t.Run("update condition with same state preserves LastTransitionTime", func(t *testing.T) {
		now := metav1.NewTime(time.Now().Add(-time.Minute).UTC().Truncate(time.Second))
		obj := &testObject{conditions: []metav1.Condition{
			{
				Type:               string(TestConditionType),
				Status:             metav1.ConditionTrue,
				Reason:             "TestReason",
				Message:            "Test message",
				LastTransitionTime: now,
			},
		}}

		Set(obj, &metav1.Condition{
			Type:    string(TestConditionType),
			Status:  metav1.ConditionTrue,
			Reason:  "TestReason",
			Message: "Test message",
		})

		if len(obj.conditions) != 1 {
			t.Fatalf("expected 1 condition, got %d", len(obj.conditions))
		}
		if !obj.conditions[0].LastTransitionTime.Equal(&now) {
			t.Error("LastTransitionTime should be preserved when state doesn't change")
		}
		if obj.writes != 0 {
			t.Errorf("unchanged Set wrote %d times", obj.writes)
		}
	})

	t.Run("update condition with different state updates LastTransitionTime", func(t *testing.T) {
		oldTime := metav1.NewTime(time.Now().Add(-1 * time.Hour))
		obj := &testObject{conditions: []metav1.Condition{
			{
				Type:               string(TestConditionType),
				Status:             metav1.ConditionTrue,
				Reason:             "TestReason",
				Message:            "Test message",
				LastTransitionTime: oldTime,
			},
		}}

		Set(obj, &metav1.Condition{
			Type:    string(TestConditionType),
			Status:  metav1.ConditionFalse,
			Reason:  "NewReason",
			Message: "New message",
		})

		if len(obj.conditions) != 1 {
			t.Fatalf("expected 1 condition, got %d", len(obj.conditions))
		}
		if obj.conditions[0].LastTransitionTime.Equal(&oldTime) {
			t.Error("LastTransitionTime should be updated when state changes")
		}
	})

	t.Run("new conditions are inserted in order", func(t *testing.T) {
		obj := &testObject{}
		Set(obj, &metav1.Condition{Type: "B", Status: metav1.ConditionTrue})
		Set(obj, &metav1.Condition{Type: "A", Status: metav1.ConditionTrue})
		if got := types(obj.conditions); len(got) != 2 || got[0] != "A" || got[1] != "B" {
			t.Errorf("types = %v, want [A B]", got)
		}
	})

	t.Run("nil object or condition is no-op", func(t *testing.T) {
		Set(nil, &metav1.Condition{})
		obj := &testObject{}
		Set(obj, nil)
		if len(obj.conditions) != 0 {
			t.Error("expected no conditions after nil set")
		}
	})
}

func TestConditionConstructors(t *testing.T) {
	tests := []struct {
		name       string
		cond       *metav1.Condition
		wantStatus metav1.ConditionStatus
	}{
		{"TrueCondition", TrueCondition(TestConditionType, 1, TestReason, TestMessage, "arg1"), metav1.ConditionTrue},
		{"FalseCondition", FalseCondition(TestConditionType, 1, TestReason, TestMessage, "arg1"), metav1.ConditionFalse},
		{"UnknownCondition", UnknownCondition(TestConditionType, 1, TestReason, TestMessage, "arg1"), metav1.ConditionUnknown},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.cond.Type != string(TestConditionType) {
				t.Errorf("Type = %q, want %q", tt.cond.Type, TestConditionType)
			}
			if tt.cond.Status != tt.wantStatus {
				t.Errorf("Status = %q, want %q", tt.cond.Status, tt.wantStatus)
			}
			if tt.cond.ObservedGeneration != 1 {
				t.Errorf("ObservedGeneration = %d, want 1", tt.cond.ObservedGeneration)
			}
			if tt.cond.Reason != string(TestReason) {
				t.Errorf("Reason = %q, want %q", tt.cond.Reason, TestReason)
			}
			if tt.cond.Message != "Test message: arg1" {
				t.Errorf("Message = %q, want %q", tt.cond.Message, "Test message: arg1")
			}
		})
	}
}

func TestMarkHelpers(t *testing.T) {
	obj := &testObject{}

	MarkTrue(obj, "T", 1, TestReason, TestMessage, "t")
	MarkFalse(obj, "F", 1, TestReason, TestMessage, "f")
	MarkUnknown(obj, "U", 1, TestReason, TestMessage, "u")

	if !IsTrue(obj, "T") || !IsFalse(obj, "F") || !IsUnknown(obj, "U") {
		t.Errorf("unexpected conditions: %+v", obj.conditions)
	}
	if got := types(obj.conditions); len(got) != 3 || got[0] != "F" || got[1] != "T" || got[2] != "U" {
		t.Errorf("types = %v, want [F T U]", got)
	}
}

func TestDelete(t *testing.T) {
	obj := &testObject{conditions: []metav1.Condition{
		{Type: string(TestConditionType), Status: metav1.ConditionTrue},
		{Type: string(OtherConditionType), Status: metav1.ConditionTrue},
	}}

	Delete(obj, TestConditionType)

	if Has(obj, TestConditionType) {
		t.Error("expected condition to be deleted")
	}
	if !Has(obj, OtherConditionType) {
		t.Error("expected other condition to remain")
	}

	writes := obj.writes
	Delete(obj, TestConditionType)
	if obj.writes != writes {
		t.Error("deleting a missing condition should not write")
	}
}

func TestDeleteNilObject(t *testing.T) {
	// Should not panic
	Delete(nil, TestConditionType)
}

func TestUpdate(t *testing.T) {
	base := metav1.Condition{
		Type:               "Test",
		Status:             metav1.ConditionTrue,
		ObservedGeneration: 1,
		Reason:             "Reason",
		Message:            "Message",
		LastTransitionTime: metav1.NewTime(fixedTime),
	}
	later := metav1.NewTime(fixedTime.Add(time.Minute))
	earlier := metav1.NewTime(fixedTime.Add(-time.Minute))

	tests := []struct {
		name        string
		now         metav1.Time
		fn          func(*metav1.Condition)
		wantChanged bool
		wantLTT     metav1.Time
	}{
		{
			name:    "same state",
			now:     later,
			fn:      func(c *metav1.Condition) { c.Status = metav1.ConditionTrue },
			wantLTT: base.LastTransitionTime,
		},
		{
			name:        "different status",
			now:         later,
			fn:          func(c *metav1.Condition) { c.Status = metav1.ConditionFalse },
			wantChanged: true,
			wantLTT:     later,
		},
		{
			name:        "different reason",
			now:         later,
			fn:          func(c *metav1.Condition) { c.Reason = "Other" },
			wantChanged: true,
			wantLTT:     later,
		},
		{
			name:        "different message",
			now:         later,
			fn:          func(c *metav1.Condition) { c.Message = "Other" },
			wantChanged: true,
			wantLTT:     later,
		},
		{
			name:        "different observedGeneration",
			now:         later,
			fn:          func(c *metav1.Condition) { c.ObservedGeneration = 2 },
			wantChanged: true,
			wantLTT:     later,
		},
		{
			name:        "clock behind the stored time",
			now:         earlier,
			fn:          func(c *metav1.Condition) { c.Status = metav1.ConditionFalse },
			wantChanged: true,
			wantLTT:     base.LastTransitionTime,
		},
		{
			name:    "only type and time touched",
			now:     later,
			fn:      func(c *metav1.Condition) { c.Type = "Other"; c.LastTransitionTime = later },
			wantLTT: base.LastTransitionTime,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := base
			if got := Update(&c, tt.now, tt.fn); got != tt.wantChanged {
				t.Errorf("Update() = %v, want %v", got, tt.wantChanged)
			}
			if c.Type != base.Type {
				t.Errorf("Type = %q, want %q", c.Type, base.Type)
			}
			if !c.LastTransitionTime.Equal(&tt.wantLTT) {
				t.Errorf("LastTransitionTime = %v, want %v", c.LastTransitionTime, tt.wantLTT)
			}
		})
	}

	if Update(nil, later, func(*metav1.Condition) {}) {
		t.Error("Update(nil) should report no change")
	}
	c := base
	if Update(&c, later, nil) {
		t.Error("Update with a nil func should report no change")
	}
}
