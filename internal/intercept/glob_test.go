package intercept

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"pgregory.net/rapid"
)

func TestCompileGlob(t *testing.T) {
	tests := []struct {
		glob  string
		url   string
		match bool
	}{
		{"**/functions/v1/create-order", "http://localhost:8080/functions/v1/create-order", true},
		{"**/functions/v1/create-order", "https://x.supabase.co/functions/v1/create-order", true},
		{"**/functions/v1/create-order", "http://localhost:8080/functions/v1/notify-order", false},
		{"**/functions/v1/create-order", "http://localhost:8080/functions/v1/create-order-v2", false},
		{"**/api/*/stock", "http://h/api/42/stock", true},
		{"**/api/*/stock", "http://h/api/42/7/stock", false},
		{"**/functions/v1/{create,notify}-order", "http://h/functions/v1/notify-order", true},
		{"**/functions/v1/{create,notify}-order", "http://h/functions/v1/cancel-order", false},
		{"http://h/search?q=*", "http://h/search?q=soda", true},
		{"http://h/search?q=*", "http://h/searchXq=soda", false},
	}

	for _, tt := range tests {
		t.Run(tt.glob+" "+tt.url, func(t *testing.T) {
			re, err := CompileGlob(tt.glob)
			require.NoError(t, err)
			assert.Equal(t, tt.match, re.MatchString(tt.url))
		})
	}
}

func TestCompileGlob_Errors(t *testing.T) {
	_, err := CompileGlob("")
	assert.Error(t, err)

	_, err = CompileGlob("**/{create,notify")
	assert.Error(t, err)
}

func TestCompileGlob_LiteralSegmentsMatchThemselves(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		segs := rapid.SliceOfN(rapid.StringMatching(`[a-z0-9.\-+()\[\]$^|]{1,8}`), 1, 4).Draw(t, "segments")
		path := "/" + strings.Join(segs, "/")

		re, err := CompileGlob("**" + path)
		if err != nil {
			t.Fatalf("CompileGlob(%q): %v", "**"+path, err)
		}
		if !re.MatchString("http://store.test" + path) {
			t.Fatalf("%s does not match its own path", re)
		}
		if re.MatchString("http://store.test" + path + "/extra") {
			t.Fatalf("%s matches beyond its last segment", re)
		}
	})
}
