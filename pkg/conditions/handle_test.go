// SPDX-FileCopyrightText: 2026 Deutsche Telekom AG
//
// SPDX-License-Identifier: Apache-2.0

package conditions

import (
	"slices"
	"strings"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	metav1 "k8s.io/apimachinery/pkg/apis/meta/v1"
	"sigs.k8s.io/controller-runtime/pkg/client"
)

func types(conditions []metav1.Condition) []string {
	out := make([]string, len(conditions))
	for i, c := range conditions {
		out[i] = c.Type
	}
	return out
}

func TestMutInsertsDefault(t *testing.T) {
	e, _ := newTestEngine()
	obj := &testObject{}

	h := e.Mut(obj, TestConditionType)

	want := []metav1.Condition{{
		Type:               string(TestConditionType),
		Status:             metav1.ConditionUnknown,
		LastTransitionTime: metav1.NewTime(fixedTime),
	}}
	if diff := cmp.Diff(want, obj.conditions); diff != "" {
		t.Errorf("conditions mismatch (-want +got):\n%s", diff)
	}
	if h.Type() != TestConditionType {
		t.Errorf("Type() = %q, want %q", h.Type(), TestConditionType)
	}
}

func TestMutIsIdempotent(t *testing.T) {
	e, fake := newTestEngine()
	obj := &testObject{}

	e.Mut(obj, TestConditionType)
	first := slices.Clone(obj.conditions)
	writes := obj.writes

	fake.SetTime(fixedTime.Add(time.Minute))
	e.Mut(obj, TestConditionType)
	e.Mut(obj, TestConditionType)

	if diff := cmp.Diff(first, obj.conditions); diff != "" {
		t.Errorf("repeated Mut changed the conditions (-first +now):\n%s", diff)
	}
	if obj.writes != writes {
		t.Errorf("repeated Mut wrote %d more times, want 0", obj.writes-writes)
	}
}

func TestMutOrderingAndUniqueness(t *testing.T) {
	e, _ := newTestEngine()

	t.Run("list is sorted regardless of insertion order", func(t *testing.T) {
		a, b := &testObject{}, &testObject{}
		for _, name := range []ConditionType{"Zeta", "Alpha", "Mid"} {
			e.Mut(a, name)
		}
		for _, name := range []ConditionType{"Mid", "Zeta", "Alpha"} {
			e.Mut(b, name)
		}
		want := []string{"Alpha", "Mid", "Zeta"}
		if diff := cmp.Diff(want, types(a.conditions)); diff != "" {
			t.Errorf("order mismatch (-want +got):\n%s", diff)
		}
		if diff := cmp.Diff(types(a.conditions), types(b.conditions)); diff != "" {
			t.Errorf("insertion order leaked into the list (-a +b):\n%s", diff)
		}
	})

	t.Run("duplicates are compacted keeping the first", func(t *testing.T) {
		obj := &testObject{conditions: []metav1.Condition{
			{Type: "B", Status: metav1.ConditionTrue, Reason: "first"},
			{Type: "A", Status: metav1.ConditionFalse},
			{Type: "B", Status: metav1.ConditionFalse, Reason: "second"},
		}}

		e.Mut(obj, "A")

		if diff := cmp.Diff([]string{"A", "B"}, types(obj.conditions)); diff != "" {
			t.Errorf("types mismatch (-want +got):\n%s", diff)
		}
		if got := GetReason(obj, "B"); got != "first" {
			t.Errorf("kept duplicate reason = %q, want %q", got, "first")
		}
	})

	t.Run("unsorted list is sorted without inserting", func(t *testing.T) {
		obj := &testObject{conditions: []metav1.Condition{
			{Type: "B", Status: metav1.ConditionTrue},
			{Type: "A", Status: metav1.ConditionTrue},
		}}
		e.Mut(obj, "B")
		if diff := cmp.Diff([]string{"A", "B"}, types(obj.conditions)); diff != "" {
			t.Errorf("types mismatch (-want +got):\n%s", diff)
		}
		if obj.writes != 1 {
			t.Errorf("writes = %d, want 1", obj.writes)
		}
	})
}

func TestMutNilSetterPanics(t *testing.T) {
	defer func() {
		if r := recover(); r == nil {
			t.Error("Mut(nil) did not panic")
		}
	}()
	Mut(nil, TestConditionType)
}

// The reason changes back and forth while status stays True; every reason
// change is a transition of its own.
func TestHandleReasonRoundTrip(t *testing.T) {
	e, fake := newTestEngine()
	obj := &testObject{}

	h := e.Mut(obj, "Available")
	if !h.SetTrue() {
		t.Fatal("SetTrue() on the Unknown default should transition")
	}
	if !h.IsTrue() {
		t.Fatal("IsTrue() = false after SetTrue()")
	}
	t0 := h.Get().LastTransitionTime

	fake.SetTime(fixedTime.Add(time.Minute))
	if !h.SetReason("Yoyo") {
		t.Fatal("SetReason(Yoyo) should transition")
	}
	if !h.HasReason("Yoyo") {
		t.Error("HasReason(Yoyo) = false")
	}
	t1 := h.Get().LastTransitionTime
	if !t0.Before(&t1) {
		t.Errorf("transition time did not advance: %v -> %v", t0, t1)
	}

	fake.SetTime(fixedTime.Add(2 * time.Minute))
	if !h.SetReason("") {
		t.Fatal("clearing the reason should transition")
	}
	if h.HasReason("Yoyo") {
		t.Error("HasReason(Yoyo) = true after clearing")
	}
	t2 := h.Get().LastTransitionTime
	if !t1.Before(&t2) {
		t.Errorf("transition time did not advance: %v -> %v", t1, t2)
	}
	if !h.IsTrue() {
		t.Error("status changed while only the reason was set")
	}
}

func TestHandleNoOpSetterIsStable(t *testing.T) {
	e, fake := newTestEngine()
	obj := &testObject{}

	h := e.Mut(obj, TestConditionType)
	h.Apply(func(c *metav1.Condition) {
		c.Status = metav1.ConditionTrue
		c.Reason = string(TestReason)
		c.Message = "ok"
	})
	before := h.Get()
	writes := obj.writes

	fake.SetTime(fixedTime.Add(time.Hour))
	changed := []bool{
		h.SetTrue(),
		h.SetReason(TestReason),
		h.SetMessage("ok"),
		h.SetStatus(StatusTrue),
	}
	for i, c := range changed {
		if c {
			t.Errorf("setter %d reported a change for the current value", i)
		}
	}
	if diff := cmp.Diff(before, h.Get()); diff != "" {
		t.Errorf("no-op setters changed the condition (-before +after):\n%s", diff)
	}
	if obj.writes != writes {
		t.Errorf("no-op setters wrote %d times, want 0", obj.writes-writes)
	}
}

func TestHandleSetters(t *testing.T) {
	e, _ := newTestEngine()

	tests := []struct {
		name  string
		apply func(h *Handle) bool
		check func(c metav1.Condition) bool
	}{
		{"SetFalse", (*Handle).SetFalse, func(c metav1.Condition) bool { return c.Status == metav1.ConditionFalse }},
		{"SetTrue", (*Handle).SetTrue, func(c metav1.Condition) bool { return c.Status == metav1.ConditionTrue }},
		{
			"SetMessage with args",
			func(h *Handle) bool { return h.SetMessage(TestMessage, "arg") },
			func(c metav1.Condition) bool { return c.Message == "Test message: arg" },
		},
		{
			"SetMessage without args keeps verbs",
			func(h *Handle) bool { return h.SetMessage("100% done") },
			func(c metav1.Condition) bool { return c.Message == "100% done" },
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			obj := &testObject{}
			h := e.Mut(obj, TestConditionType)
			if !tt.apply(h) {
				t.Fatalf("%s reported no change", tt.name)
			}
			if c := h.Get(); !tt.check(c) {
				t.Errorf("%s produced %+v", tt.name, c)
			}
		})
	}

	t.Run("SetUnknown on the default is a no-op", func(t *testing.T) {
		obj := &testObject{}
		h := e.Mut(obj, TestConditionType)
		if h.SetUnknown() {
			t.Error("SetUnknown() on the Unknown default reported a change")
		}
		if !h.IsUnknown() || h.IsTrue() || h.IsFalse() {
			t.Error("predicates disagree with an Unknown condition")
		}
	})

	t.Run("long messages are truncated", func(t *testing.T) {
		obj := &testObject{}
		h := e.Mut(obj, TestConditionType)
		h.SetMessage(ConditionMessage(strings.Repeat("x", MaxConditionMessageLength+10)))
		msg := h.Get().Message
		if len(msg) != MaxConditionMessageLength || !strings.HasSuffix(msg, "...") {
			t.Errorf("message length = %d, want %d with ellipsis", len(msg), MaxConditionMessageLength)
		}
	})

	t.Run("Apply changes several fields in one transition", func(t *testing.T) {
		var transitions int
		e, _ := newTestEngine(WithObserver(ObserverFunc(func(client.Object, metav1.Condition, metav1.Condition) {
			transitions++
		})))
		obj := &testObject{}
		h := e.Mut(obj, TestConditionType)
		h.Apply(func(c *metav1.Condition) {
			c.Status = metav1.ConditionFalse
			c.Reason = "Broken"
			c.Message = "it broke"
			c.Type = "Renamed"
			c.LastTransitionTime = metav1.NewTime(fixedTime.Add(48 * time.Hour))
		})
		if transitions != 1 {
			t.Errorf("transitions = %d, want 1", transitions)
		}
		got := h.Get()
		if got.Type != string(TestConditionType) {
			t.Errorf("Apply() renamed the condition to %q", got.Type)
		}
		want := metav1.NewTime(fixedTime)
		if !got.LastTransitionTime.Equal(&want) {
			t.Errorf("LastTransitionTime = %v, want %v", got.LastTransitionTime, want)
		}
	})
}

func TestHandleGenerationCurrency(t *testing.T) {
	e, fake := newTestEngine()
	obj := &testObject{}
	obj.Generation = 1

	h := e.Mut(obj, TestConditionType)
	if h.IsCurrent(obj) {
		t.Fatal("a fresh default is not current")
	}
	h.SetTrue()
	if !h.SetGenerationFrom(obj) {
		t.Fatal("SetGenerationFrom() on a new generation should transition")
	}
	if !h.IsCurrent(obj) || !IsCurrent(obj, TestConditionType) {
		t.Fatal("condition should be current after SetGenerationFrom()")
	}
	t1 := h.Get().LastTransitionTime

	fake.SetTime(fixedTime.Add(time.Minute))
	if h.SetGenerationFrom(obj) {
		t.Error("re-observing the same generation should be a no-op")
	}

	obj.Generation = 2
	if h.IsCurrent(obj) {
		t.Error("condition should be stale after a generation bump")
	}
	if !h.SetGenerationFrom(obj) {
		t.Fatal("observing a bumped generation should transition")
	}
	t2 := h.Get().LastTransitionTime
	if !t1.Before(&t2) {
		t.Errorf("generation bump did not advance the transition time: %v -> %v", t1, t2)
	}

	if h.SetGenerationFrom(nil) || h.IsCurrent(nil) {
		t.Error("nil objects must be ignored")
	}
}

func TestHandleSurvivesReorderAndDelete(t *testing.T) {
	e, _ := newTestEngine()
	obj := &testObject{}

	h := e.Mut(obj, "M")
	e.Mut(obj, "A")
	e.Mut(obj, "Z")
	h.SetTrue()
	if !IsTrue(obj, "M") || IsTrue(obj, "A") || IsTrue(obj, "Z") {
		t.Fatalf("handle wrote to the wrong entry: %+v", obj.conditions)
	}

	Delete(obj, "M")
	if Has(obj, "M") {
		t.Fatal("Delete() left the condition in place")
	}
	h.SetFalse()
	if !IsFalse(obj, "M") {
		t.Error("handle did not re-insert the deleted condition")
	}
	if diff := cmp.Diff([]string{"A", "M", "Z"}, types(obj.conditions)); diff != "" {
		t.Errorf("order mismatch (-want +got):\n%s", diff)
	}
}

func TestObserversAndClock(t *testing.T) {
	type event struct {
		previous, current metav1.ConditionStatus
	}
	var events []event
	e, fake := newTestEngine(WithObserver(ObserverFunc(func(_ client.Object, previous, current metav1.Condition) {
		events = append(events, event{previous.Status, current.Status})
	})), WithObserver(nil), WithClock(nil))

	obj := &testObject{}
	h := e.Mut(obj, TestConditionType)
	h.SetTrue()
	h.SetTrue()
	fake.SetTime(fixedTime.Add(-time.Hour))
	h.SetFalse()

	want := []event{
		{metav1.ConditionUnknown, metav1.ConditionTrue},
		{metav1.ConditionTrue, metav1.ConditionFalse},
	}
	if diff := cmp.Diff(want, events, cmp.AllowUnexported(event{})); diff != "" {
		t.Errorf("observed transitions mismatch (-want +got):\n%s", diff)
	}

	// The clock stepped back an hour; the transition time must not follow.
	ltt := h.Get().LastTransitionTime
	want0 := metav1.NewTime(fixedTime)
	if !ltt.Equal(&want0) {
		t.Errorf("LastTransitionTime = %v, want it held at %v", ltt, want0)
	}
}

func TestDefaultEngine(t *testing.T) {
	if Default() == nil {
		t.Fatal("Default() = nil")
	}
	obj := &testObject{}
	before := time.Now().UTC().Truncate(time.Second)
	Mut(obj, TestConditionType).SetTrue()
	ltt := GetLastTransitionTime(obj, TestConditionType)
	if ltt == nil || ltt.Time.Before(before) || ltt.Time.Nanosecond() != 0 {
		t.Errorf("LastTransitionTime = %v, want a second-aligned time after %v", ltt, before)
	}
}
