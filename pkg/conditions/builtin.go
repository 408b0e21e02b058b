// SPDX-FileCopyrightText: 2026 Deutsche Telekom AG
//
// SPDX-License-Identifier: Apache-2.0

package conditions

import (
	corev1 "k8s.io/api/core/v1"
	apiextensionsv1 "k8s.io/apiextensions-apiserver/pkg/apis/apiextensions/v1"
	metav1 "k8s.io/apimachinery/pkg/apis/meta/v1"
)

// Read-only views of built-in kinds. They implement Getter but not Setter:
// the conditions of these kinds belong to kubelet, the node controller and
// the apiextensions server, so passing them to Mut does not compile.
//
// None of these condition types record an observed generation, so it always
// reads as 0. A missing LastTransitionTime is left zero here and stamped by
// Condition on the returned copy.

type podConditions struct {
	*corev1.Pod
}

// ForPod returns a read-only Getter over the pod's status conditions, or nil
// for a nil pod.
func ForPod(pod *corev1.Pod) Getter {
	if pod == nil {
		return nil
	}
	return &podConditions{pod}
}

func (p *podConditions) GetConditions() []metav1.Condition {
	result := make([]metav1.Condition, len(p.Status.Conditions))
	for i, c := range p.Status.Conditions {
		result[i] = metav1.Condition{
			Type:               string(c.Type),
			Status:             metav1.ConditionStatus(c.Status),
			LastTransitionTime: c.LastTransitionTime,
			Reason:             c.Reason,
			Message:            c.Message,
		}
	}
	return result
}

type nodeConditions struct {
	*corev1.Node
}

// ForNode returns a read-only Getter over the node's status conditions, or
// nil for a nil node.
func ForNode(node *corev1.Node) Getter {
	if node == nil {
		return nil
	}
	return &nodeConditions{node}
}

func (n *nodeConditions) GetConditions() []metav1.Condition {
	result := make([]metav1.Condition, len(n.Status.Conditions))
	for i, c := range n.Status.Conditions {
		result[i] = metav1.Condition{
			Type:               string(c.Type),
			Status:             metav1.ConditionStatus(c.Status),
			LastTransitionTime: c.LastTransitionTime,
			Reason:             c.Reason,
			Message:            c.Message,
		}
	}
	return result
}

type crdConditions struct {
	*apiextensionsv1.CustomResourceDefinition
}

// ForCRD returns a read-only Getter over the CRD's status conditions, or nil
// for a nil CRD.
func ForCRD(crd *apiextensionsv1.CustomResourceDefinition) Getter {
	if crd == nil {
		return nil
	}
	return &crdConditions{crd}
}

func (c *crdConditions) GetConditions() []metav1.Condition {
	result := make([]metav1.Condition, len(c.Status.Conditions))
	for i, cond := range c.Status.Conditions {
		result[i] = metav1.Condition{
			Type:               string(cond.Type),
			Status:             metav1.ConditionStatus(cond.Status),
			LastTransitionTime: cond.LastTransitionTime,
			Reason:             cond.Reason,
			Message:            cond.Message,
		}
	}
	return result
}
