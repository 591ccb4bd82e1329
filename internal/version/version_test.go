// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package version

import "testing"

func TestInfoString(t *testing.T) {
	tests := []struct {
		name string
		info Info
		want string
	}{
		{
			name: "injected",
			info: Info{Version: "v1.2.0", GitCommit: "abc1234", BuildTime: "2026-01-30T12:00:00Z"},
			want: "v1.2.0 (commit: abc1234, built: 2026-01-30T12:00:00Z)",
		},
		{
			name: "zero value",
			want: "dev (commit: unknown, built: unknown)",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.info.String(); got != tt.want {
				t.Errorf("String() = %q, want %q", got, tt.want)
			}
		})
	}
}
