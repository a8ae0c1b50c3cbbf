package oauth2client

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNormalize(t *testing.T) {
	tests := []struct {
		name   string
		params map[string]string
		want   string
	}{
		{"empty", map[string]string{}, ""},
		{"nil", nil, ""},
		{"single", map[string]string{"a": "1"}, "a=1"},
		{
			"sorted by key",
			map[string]string{"grant_type": "client_credentials", "client_secret": "s", "client_id": "p"},
			"client_id=p&client_secret=s&grant_type=client_credentials",
		},
		{"ordinal comparison", map[string]string{"b": "1", "B": "2", "a": "3"}, "B=2&a=3&b=1"},
		{"no escaping", map[string]string{"q": "a b&c"}, "q=a b&c"},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, Normalize(tc.params))
		})
	}
}

func TestNormalize_OrderIndependent(t *testing.T) {
	keys := []string{"z", "y", "x", "w", "v", "u"}

	forward := make(map[string]string)
	for i, k := range keys {
		forward[k] = string(rune('a' + i))
	}
	backward := make(map[string]string)
	for i := len(keys) - 1; i >= 0; i-- {
		backward[keys[i]] = string(rune('a' + i))
	}

	want := Normalize(forward)
	for i := 0; i < 50; i++ {
		assert.Equal(t, want, Normalize(backward))
		assert.Equal(t, want, Normalize(forward))
	}
	assert.Equal(t, "u=f&v=e&w=d&x=c&y=b&z=a", want)
}

func TestNormalizeEscaped(t *testing.T) {
	got := normalizeEscaped(map[string]string{"client_secret": "a+b/c", "q": "x y"})
	assert.Equal(t, "client_secret=a%2Bb%2Fc&q=x+y", got)
}
