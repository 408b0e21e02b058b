// SPDX-FileCopyrightText: 2026 Deutsche Telekom AG
//
// SPDX-License-Identifier: Apache-2.0

package conditions

import (
	"cmp"
	"fmt"
	"slices"

	metav1 "k8s.io/apimachinery/pkg/apis/meta/v1"
)

// Setter is an interface for objects that can have conditions set.
type Setter interface {
	Getter
	SetConditions([]metav1.Condition)
}

// Mut ensures a condition of type t exists on to and returns a handle to it.
//
// A missing condition is inserted as the Unknown default. Afterwards the list
// is sorted by type and holds exactly one entry for every type. The list is
// only written back through SetConditions if it actually changed, so calling
// Mut repeatedly is idempotent.
func (e *Engine) Mut(to Setter, t ConditionType) *Handle {
	if to == nil {
		panic(fmt.Sprintf("conditions: Mut(%q) called with a nil Setter", t))
	}
	conditions, _, changed := e.ensure(to.GetConditions(), t)
	if changed {
		to.SetConditions(conditions)
	}
	return &Handle{engine: e, obj: to, conditionType: t}
}

// Mut is Engine.Mut on the default Engine.
func Mut(to Setter, t ConditionType) *Handle {
	return defaultEngine.Mut(to, t)
}

// ensure returns a sorted, deduplicated copy of conditions that contains t,
// the index of t in it and whether the copy differs from the input.
func (e *Engine) ensure(conditions []metav1.Condition, t ConditionType) ([]metav1.Condition, int, bool) {
	result := slices.Clone(conditions)
	changed := false

	if indexOf(result, t) < 0 {
		result = append(result, unknownCondition(t, e.now()))
		changed = true
	}

	if !slices.IsSortedFunc(result, compareType) {
		slices.SortStableFunc(result, compareType)
		changed = true
	}

	if n := len(result); n > 1 {
		result = slices.CompactFunc(result, func(a, b metav1.Condition) bool {
			return a.Type == b.Type
		})
		if len(result) != n {
			changed = true
		}
	}

	idx := indexOf(result, t)
	if idx < 0 {
		panic(fmt.Sprintf("conditions: condition %q missing right after insertion into %d conditions", t, len(result)))
	}
	return result, idx, changed
}

func compareType(a, b metav1.Condition) int {
	return cmp.Compare(a.Type, b.Type)
}

func indexOf(conditions []metav1.Condition, t ConditionType) int {
	return slices.IndexFunc(conditions, func(c metav1.Condition) bool {
		return ConditionType(c.Type) == t
	})
}
