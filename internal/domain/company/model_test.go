package company

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSlug(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"punctuation and parens", "Alphabet Inc. (Class A)", "alphabet-inc-class-a"},
		{"leading and trailing junk", "  --Apple Inc--  ", "apple-inc"},
		{"digits kept", "3M Company", "3m-company"},
		{"ampersand run", "AT&T  Inc.", "at-t-inc"},
		{"non ascii collapses", "Nestlé S.A.", "nestl-s-a"},
		{"only symbols", "!!!", ""},
		{"empty", "", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Slug(tt.in))
		})
	}
}

func TestBaseSymbol(t *testing.T) {
	assert.Equal(t, "AAPL", BaseSymbol("AAPL_US"))
	assert.Equal(t, "BRK.B", BaseSymbol("BRK.B_US"))
	assert.Equal(t, "VOD", BaseSymbol("VOD_LSE_EQ"))
	assert.Equal(t, "MSFT", BaseSymbol("MSFT"))
	assert.Equal(t, "", BaseSymbol("_US"))

	r := &Record{Ticker: "NVDA_US"}
	assert.Equal(t, "NVDA", r.BaseSymbol())
}

func TestRecord_IsComplete(t *testing.T) {
	name := "Apple Inc."
	empty := ""

	assert.False(t, (*Record)(nil).IsComplete())
	assert.False(t, (&Record{Ticker: "AAPL_US"}).IsComplete())
	assert.False(t, (&Record{Ticker: "AAPL_US", Name: &name}).IsComplete())
	assert.False(t, (&Record{Ticker: "AAPL_US", Name: &empty, LogoURL: "https://x/a.png"}).IsComplete())
	assert.False(t, (&Record{Ticker: "AAPL_US", LogoURL: "https://x/a.png"}).IsComplete())
	assert.True(t, (&Record{Ticker: "AAPL_US", Name: &name, LogoURL: "https://x/a.png"}).IsComplete())
}

func TestValidateTicker(t *testing.T) {
	assert.True(t, ValidateTicker("AAPL_US"))
	assert.True(t, ValidateTicker("BRK.B"))
	assert.False(t, ValidateTicker(""))
	assert.False(t, ValidateTicker("AA PL"))
	assert.False(t, ValidateTicker("AAPL\n"))
	assert.False(t, ValidateTicker("ABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"))
}

func TestMerge(t *testing.T) {
	apple := "Apple Inc"

	t.Run("fills empty fields", func(t *testing.T) {
		cur := Record{Ticker: "AAPL_US"}
		got, changed := Merge(cur, Patch{Name: StringPtr("Apple Inc."), LogoURL: StringPtr("https://x/apple.png")})

		assert.True(t, changed)
		assert.Equal(t, "Apple Inc.", got.DisplayName())
		assert.Equal(t, "https://x/apple.png", got.LogoURL)
	})

	t.Run("empty proposals never clear", func(t *testing.T) {
		empty := ""
		blank := "   "
		cur := Record{Ticker: "AAPL_US", Name: &apple, LogoURL: "https://x/apple.png"}
		got, changed := Merge(cur, Patch{Name: &empty, LogoURL: &blank})

		assert.False(t, changed)
		assert.Equal(t, "Apple Inc", got.DisplayName())
		assert.Equal(t, "https://x/apple.png", got.LogoURL)
	})

	t.Run("same values are not a change", func(t *testing.T) {
		cur := Record{Ticker: "AAPL_US", Name: &apple, LogoURL: "https://x/apple.png"}
		_, changed := Merge(cur, Patch{Name: StringPtr("Apple Inc"), LogoURL: StringPtr("https://x/apple.png")})
		assert.False(t, changed)
	})

	t.Run("nil fields untouched", func(t *testing.T) {
		cur := Record{Ticker: "AAPL_US", Name: &apple}
		got, changed := Merge(cur, Patch{LogoURL: StringPtr("https://x/apple.png")})

		assert.True(t, changed)
		assert.Equal(t, "Apple Inc", got.DisplayName())
	})

	t.Run("does not alias caller name", func(t *testing.T) {
		cur := Record{Ticker: "AAPL_US", Name: &apple}
		got, _ := Merge(cur, Patch{Name: StringPtr("Apple Inc.")})

		assert.Equal(t, "Apple Inc", apple)
		assert.Equal(t, "Apple Inc.", got.DisplayName())
	})
}

func TestMerge_UpgradeOnlySequence(t *testing.T) {
	patches := []Patch{
		{Name: StringPtr("Apple")},
		{LogoURL: StringPtr("https://a/1.png")},
		{Name: StringPtr(""), LogoURL: StringPtr("")},
		{},
		{LogoURL: StringPtr("https://a/2.png")},
		{Name: StringPtr(" ")},
	}

	rec := Record{Ticker: "AAPL_US"}
	hadName, hadLogo := false, false
	for i, p := range patches {
		rec, _ = Merge(rec, p)
		if hadName {
			assert.NotEmpty(t, rec.DisplayName(), "name cleared at step %d", i)
		}
		if hadLogo {
			assert.NotEmpty(t, rec.LogoURL, "logo cleared at step %d", i)
		}
		hadName = hadName || rec.DisplayName() != ""
		hadLogo = hadLogo || rec.LogoURL != ""
	}

	assert.Equal(t, "Apple", rec.DisplayName())
	assert.Equal(t, "https://a/2.png", rec.LogoURL)
}

func TestPatch_IsEmpty(t *testing.T) {
	assert.True(t, Patch{}.IsEmpty())
	assert.False(t, Patch{LogoURL: StringPtr("https://x/l.png")}.IsEmpty())
}
