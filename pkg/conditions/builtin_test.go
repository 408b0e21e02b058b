// SPDX-FileCopyrightText: 2026 Deutsche Telekom AG
//
// SPDX-License-Identifier: Apache-2.0

package conditions

import (
	"testing"
	"time"

	corev1 "k8s.io/api/core/v1"
	apiextensionsv1 "k8s.io/apiextensions-apiserver/pkg/apis/apiextensions/v1"
	metav1 "k8s.io/apimachinery/pkg/apis/meta/v1"
)

func TestForPod(t *testing.T) {
	e, _ := newTestEngine()
	reportedAt := metav1.NewTime(fixedTime.Add(-time.Hour))
	pod := &corev1.Pod{}
	pod.Generation = 7
	pod.Status.Conditions = []corev1.PodCondition{
		{Type: corev1.PodReady, Status: corev1.ConditionFalse, Reason: "ContainersNotReady", LastTransitionTime: reportedAt},
		{Type: corev1.PodScheduled, Status: corev1.ConditionTrue},
	}

	g := ForPod(pod)
	ready := e.Condition(g, ConditionType(corev1.PodReady))
	if ready.Status != metav1.ConditionFalse || ready.Reason != "ContainersNotReady" {
		t.Errorf("Ready = %+v", ready)
	}
	if ready.ObservedGeneration != 0 {
		t.Errorf("ObservedGeneration = %d, want 0", ready.ObservedGeneration)
	}
	if !ready.LastTransitionTime.Equal(&reportedAt) {
		t.Errorf("LastTransitionTime = %v, want %v", ready.LastTransitionTime, reportedAt)
	}

	scheduled := e.Condition(g, ConditionType(corev1.PodScheduled))
	want := metav1.NewTime(fixedTime)
	if !scheduled.LastTransitionTime.Equal(&want) {
		t.Errorf("missing LastTransitionTime should read as now, got %v", scheduled.LastTransitionTime)
	}
	if !pod.Status.Conditions[1].LastTransitionTime.IsZero() {
		t.Error("reading must not modify the pod")
	}

	if _, ok := g.(Setter); ok {
		t.Error("pod view must not be a Setter")
	}
}

func TestNilTargets(t *testing.T) {
	tests := []struct {
		name   string
		getter Getter
	}{
		{"pod", ForPod(nil)},
		{"node", ForNode(nil)},
		{"crd", ForCRD(nil)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.getter != nil {
				t.Fatalf("nil %s should give a nil Getter, got %T", tt.name, tt.getter)
			}
			if Has(tt.getter, "Ready") {
				t.Error("nil target should have no conditions")
			}
			if IsCurrent(tt.getter, "Ready") {
				t.Error("nil target should never be current")
			}
			if got := Condition(tt.getter, "Ready"); got.Status != metav1.ConditionUnknown {
				t.Errorf("Condition() on nil target = %q, want Unknown", got.Status)
			}
		})
	}
}

func TestForNode(t *testing.T) {
	node := &corev1.Node{}
	node.Status.Conditions = []corev1.NodeCondition{
		{Type: corev1.NodeReady, Status: corev1.ConditionTrue, Reason: "KubeletReady"},
		{Type: corev1.NodeMemoryPressure, Status: corev1.ConditionFalse},
	}

	g := ForNode(node)
	if !IsTrue(g, ConditionType(corev1.NodeReady)) || !HasReason(g, ConditionType(corev1.NodeReady), "KubeletReady") {
		t.Errorf("unexpected node conditions %+v", g.GetConditions())
	}
	if !IsFalse(g, ConditionType(corev1.NodeMemoryPressure)) {
		t.Error("MemoryPressure should be False")
	}
	if !IsUnknown(g, ConditionType(corev1.NodeDiskPressure)) {
		t.Error("missing DiskPressure should read as Unknown")
	}
	if _, ok := g.(Setter); ok {
		t.Error("node view must not be a Setter")
	}
}

func TestForCRD(t *testing.T) {
	crd := &apiextensionsv1.CustomResourceDefinition{}
	crd.Status.Conditions = []apiextensionsv1.CustomResourceDefinitionCondition{
		{Type: apiextensionsv1.Established, Status: apiextensionsv1.ConditionTrue},
		{Type: apiextensionsv1.NamesAccepted, Status: apiextensionsv1.ConditionFalse, Reason: "NameConflict"},
	}

	g := ForCRD(crd)
	if !IsTrue(g, ConditionType(apiextensionsv1.Established)) {
		t.Error("Established should be True")
	}
	if got := GetReason(g, ConditionType(apiextensionsv1.NamesAccepted)); got != "NameConflict" {
		t.Errorf("NamesAccepted reason = %q", got)
	}
	if _, ok := g.(Setter); ok {
		t.Error("CRD view must not be a Setter")
	}
}
