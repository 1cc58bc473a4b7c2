package core

import (
	"testing"
)

func TestTableOf(t *testing.T) {
	tests := []struct {
		name string
		id   string
		want string
	}{
		{
			name: "plain identifier",
			id:   "notebook:x7kq2",
			want: "notebook",
		},
		{
			name: "key containing separators",
			id:   "note:a:b:c",
			want: "note",
		},
		{
			name: "no separator returns input whole",
			id:   "notebook",
			want: "notebook",
		},
		{
			name: "empty string",
			id:   "",
			want: "",
		},
		{
			name: "leading separator",
			id:   ":orphan",
			want: "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := TableOf(tt.id); got != tt.want {
				t.Errorf("TableOf(%q) = %q, want %q", tt.id, got, tt.want)
			}
		})
	}
}

func TestKeyOf(t *testing.T) {
	tests := []struct {
		name string
		id   string
		want string
	}{
		{
			name: "plain identifier",
			id:   "source:9f3m",
			want: "9f3m",
		},
		{
			name: "key keeps later separators",
			id:   "note:a:b",
			want: "a:b",
		},
		{
			name: "no separator has no key",
			id:   "source",
			want: "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := KeyOf(tt.id); got != tt.want {
				t.Errorf("KeyOf(%q) = %q, want %q", tt.id, got, tt.want)
			}
		})
	}
}

func TestJoin(t *testing.T) {
	if got := Join("settings", "main"); got != "settings:main" {
		t.Errorf("Join() = %q, want %q", got, "settings:main")
	}
}
