package cookies

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vmunix/ytjar/internal/platform"
)

func TestFilter_KeepsSessionCookiesOnPlatformDomains(t *testing.T) {
	raw := []Cookie{
		{Name: "SID", Value: "a", Domain: ".youtube.com"},
		{Name: "SAPISID", Value: "b", Domain: ".youtube.com"},
		{Name: "PREF", Value: "c", Domain: ".youtube.com"},
		{Name: "SID", Value: "d", Domain: ".google.com"},
		{Name: "SID", Value: "e", Domain: ".example.com"},
		{Name: "__Secure-3PSID", Value: "f", Domain: ".youtube.com"},
	}

	kept, err := Filter(raw, platform.YouTube())
	require.NoError(t, err)

	assert.Equal(t, []string{"SID", "SAPISID", "SID", "__Secure-3PSID"}, Names(kept))
}

func TestFilter_NoCredentials(t *testing.T) {
	tests := []struct {
		name string
		raw  []Cookie
	}{
		{"empty", nil},
		{"only non-session", []Cookie{{Name: "PREF", Domain: ".youtube.com"}, {Name: "YSC", Domain: ".youtube.com"}}},
		{"session on foreign domain", []Cookie{{Name: "SID", Domain: ".example.com"}}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Filter(tt.raw, platform.YouTube())
			assert.True(t, errors.Is(err, ErrNoCredentials), "got %v", err)
		})
	}
}

func TestFilter_Insufficient(t *testing.T) {
	tests := []struct {
		name  string
		raw   []Cookie
		found []string
	}{
		{
			name:  "missing both required",
			raw:   []Cookie{{Name: "HSID", Domain: ".youtube.com"}, {Name: "__Secure-1PSID", Domain: ".youtube.com"}},
			found: nil,
		},
		{
			name:  "only SID",
			raw:   []Cookie{{Name: "SID", Domain: ".youtube.com"}, {Name: "HSID", Domain: ".youtube.com"}},
			found: []string{"SID"},
		},
		{
			name:  "only SAPISID",
			raw:   []Cookie{{Name: "SAPISID", Domain: ".google.com"}},
			found: []string{"SAPISID"},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Filter(tt.raw, platform.YouTube())

			var insErr *InsufficientError
			require.True(t, errors.As(err, &insErr), "got %v", err)
			assert.Equal(t, tt.found, insErr.Found)
			assert.Equal(t, 2, insErr.Min)
			assert.False(t, errors.Is(err, ErrNoCredentials))
		})
	}
}

func TestFilter_DropsCookiesThatWouldBreakJarLines(t *testing.T) {
	raw := []Cookie{
		{Name: "SID", Value: "ok", Domain: ".youtube.com"},
		{Name: "SAPISID", Value: "ok", Domain: ".youtube.com"},
		{Name: "APISID", Value: "bad\tvalue", Domain: ".youtube.com"},
	}

	kept, err := Filter(raw, platform.YouTube())
	require.NoError(t, err)
	assert.Equal(t, []string{"SID", "SAPISID"}, Names(kept))
}

func TestPrimary_ExactDomainSorted(t *testing.T) {
	in := []Cookie{
		{Name: "SSID", Domain: ".youtube.com", Path: "/"},
		{Name: "SID", Domain: ".google.com", Path: "/"},
		{Name: "APISID", Domain: "youtube.com", Path: "/"},
		{Name: "SID", Domain: "www.youtube.com", Path: "/"},
		{Name: "APISID", Domain: ".youtube.com", Path: "/a"},
	}

	got := Primary(in, platform.YouTube())

	require.Len(t, got, 3)
	assert.Equal(t, "APISID", got[0].Name)
	assert.Equal(t, "/", got[0].Path)
	assert.Equal(t, "APISID", got[1].Name)
	assert.Equal(t, "/a", got[1].Path)
	assert.Equal(t, "SSID", got[2].Name)
}

func TestErrors_Messages(t *testing.T) {
	ins := &InsufficientError{Required: []string{"SID", "SAPISID"}, Min: 2}
	assert.Equal(t, "insufficient session cookies: need 2 of [SID, SAPISID], found none", ins.Error())

	src := &SourceError{Browser: "chrome", Path: "/x/Cookies", Err: errors.New("keychain access denied")}
	assert.Equal(t, `read chrome cookie store "/x/Cookies": keychain access denied`, src.Error())

	assert.True(t, IsCredentialError(src))
	assert.True(t, IsCredentialError(ins))
	assert.True(t, IsCredentialError(ErrNoCredentials))
	assert.False(t, IsCredentialError(errors.New("other")))
}
