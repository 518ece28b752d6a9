// SPDX-License-Identifier: MPL-2.0

package modgen

import (
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestRender(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		modules []Module
		want    string
	}{
		{
			name:    "empty",
			modules: nil,
			want:    "",
		},
		{
			name:    "single module",
			modules: []Module{{Name: "c", IsFile: true}},
			want:    "pub mod c;\n\npub use self::{\n    c::*,\n};\n",
		},
		{
			name:    "keeps given order",
			modules: []Module{{Name: "zeta"}, {Name: "alpha", IsFile: true}},
			want:    "pub mod zeta;\npub mod alpha;\n\npub use self::{\n    zeta::*,\n    alpha::*,\n};\n",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			got := string(Render(tt.modules))
			if diff := cmp.Diff(tt.want, got); diff != "" {
				t.Errorf("Render() mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestIsRendered(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		content string
		want    bool
	}{
		{"generated", "pub mod a;\npub mod b;\n\npub use self::{\n    a::*,\n    b::*,\n};\n", true},
		{"empty", "", false},
		{"hand written", "mod private;\n\npub use self::private::Thing;\n", false},
		{"extra item", "pub mod a;\n\npub use self::{\n    a::*,\n};\n\nfn helper() {}\n", false},
		{"mismatched re-export", "pub mod a;\n\npub use self::{\n    b::*,\n};\n", false},
		{"missing trailing newline", "pub mod a;\n\npub use self::{\n    a::*,\n};", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			if got := IsRendered([]byte(tt.content)); got != tt.want {
				t.Errorf("IsRendered() = %v, want %v", got, tt.want)
			}
		})
	}
}
