// Copyright (c) 2025 StripeQL
// Licensed under the MIT License. See LICENSE file in the project root for details.

package scan

// Qual is a single filter condition supplied by the host engine.
type Qual struct {
	Field    string
	Operator string
	Value    Cell
	// UseOr marks a qual that is part of a disjunction. Disjunctive quals
	// are never pushed down: the upstream API would apply them
	// conjunctively and silently narrow the result.
	UseOr bool
}

// Limit is the host engine's row window. A nil *Limit means fetch all
// available rows; Count == 0 means the scan can be answered without any
// upstream call.
type Limit struct {
	Offset int64
	Count  int64
}

// Param is one planned upstream query parameter.
type Param struct {
	Name  string
	Value string
}

// PlanPushdown reduces quals to upstream query parameters. Eligible fields
// are visited in their declared order; for each, the first qual with a
// matching field, the `=` operator, a string value and no disjunction flag
// produces exactly one parameter. Everything else is skipped silently and
// left for the host engine to re-apply.
func PlanPushdown(quals []Qual, eligible []string) []Param {
	var params []Param
	for _, field := range eligible {
		for _, q := range quals {
			if q.Field != field || q.Operator != "=" || q.UseOr {
				continue
			}
			if q.Value.Kind() != KindString {
				continue
			}
			params = append(params, Param{Name: field, Value: q.Value.Text()})
			break
		}
	}
	return params
}
