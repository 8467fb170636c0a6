// Copyright (c) 2025 StripeQL
// Licensed under the MIT License. See LICENSE file in the project root for details.

package pgsync

import (
	"reflect"
	"testing"
)

func TestMissingColumns(t *testing.T) {
	customers := mustSchema(t, "customers")

	tests := []struct {
		name     string
		existing []string
		want     []string
	}{
		{
			name:     "complete table",
			existing: []string{"id", "email", "attrs"},
			want:     nil,
		},
		{
			name:     "extra live columns are fine",
			existing: []string{"id", "email", "attrs", "synced_at"},
			want:     nil,
		},
		{
			name:     "case differences match",
			existing: []string{"ID", "Email", "Attrs"},
			want:     nil,
		},
		{
			name:     "older table without attrs",
			existing: []string{"id", "email"},
			want:     []string{"attrs"},
		},
		{
			name:     "empty table shape",
			existing: nil,
			want:     []string{"id", "email", "attrs"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := MissingColumns(customers, tt.existing)
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("MissingColumns(%v) = %v, want %v", tt.existing, got, tt.want)
			}
		})
	}
}
