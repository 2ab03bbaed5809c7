package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestError(t *testing.T) {
	tests := []struct {
		name string
		err  *Error
		want string
	}{
		{"empty", &Error{}, ""},
		{
			name: "missing vars",
			err:  &Error{Path: "ytjar.toml", Missing: []string{"YTJAR_COOKIE_STORE", "PROXY_URL"}},
			want: "config ytjar.toml: 2 unresolved variables (YTJAR_COOKIE_STORE, PROXY_URL)",
		},
		{
			name: "single validation error",
			err:  &Error{Errors: []string{"cookies.store: required"}},
			want: "config environment: cookies.store: required",
		},
		{
			name: "several validation errors",
			err:  &Error{Path: "c.toml", Errors: []string{"a: x", "b: y"}},
			want: "config c.toml: 2 invalid settings",
		},
		{
			name: "both",
			err:  &Error{Path: "c.toml", Missing: []string{"A"}, Errors: []string{"b: bad"}},
			want: "config c.toml: 1 unresolved variable (A); b: bad",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.err.Error())
			assert.Equal(t, tt.want != "", tt.err.HasErrors())
		})
	}
}
