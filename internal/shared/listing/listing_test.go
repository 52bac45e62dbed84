package listing

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

var bookFields = SortFields{
	"title":        "b.title",
	"published_at": "b.published_at",
	"likes":        "stats.likes",
}

func intPtr(i int) *int { return &i }

func TestParseSort(t *testing.T) {
	tests := []struct {
		raw    string
		column string
		desc   bool
	}{
		{"title", "b.title", false},
		{"+title", "b.title", false},
		{"-likes", "stats.likes", true},
		{"", "b.published_at", true},
		{"-password", "b.published_at", true},
		{"title; DROP TABLE books", "b.published_at", true},
		{"-", "b.published_at", true},
	}

	for _, tt := range tests {
		t.Run(tt.raw, func(t *testing.T) {
			o := ParseSort(tt.raw, bookFields, "-published_at")
			assert.Equal(t, tt.column, o.Column)
			assert.Equal(t, tt.desc, o.Desc)
		})
	}
}

func TestEffectiveLimit(t *testing.T) {
	assert.Equal(t, DefaultLimit, (&Params{}).EffectiveLimit())
	assert.Equal(t, 0, (&Params{Limit: intPtr(0)}).EffectiveLimit())
	assert.Equal(t, 5, (&Params{Limit: intPtr(5)}).EffectiveLimit())
	assert.Equal(t, MaxLimit, (&Params{Limit: intPtr(1000)}).EffectiveLimit())
}

func TestValidate(t *testing.T) {
	assert.NoError(t, (&Params{Limit: intPtr(0)}).Validate())
	assert.Error(t, (&Params{Limit: intPtr(-1)}).Validate())
	assert.Error(t, (&Params{Offset: -3}).Validate())
}

func TestNormalize(t *testing.T) {
	p := &Params{Sort: " -title ", Search: "  dun ", Tags: []string{" fantasy", "", "  "}}
	p.Normalize()

	assert.Equal(t, "-title", p.Sort)
	assert.Equal(t, "dun", p.Search)
	assert.Equal(t, []string{"fantasy"}, p.Tags)
}

func TestBuilderWindow(t *testing.T) {
	t.Run("offset zero is omitted", func(t *testing.T) {
		var b Builder
		b.Write("SELECT 1 FROM books b")
		b.Window(&Params{}, ParseSort("title", bookFields, "-published_at"), "b.bid")

		assert.Equal(t, "SELECT 1 FROM books b ORDER BY b.title ASC, b.bid ASC LIMIT $1", b.SQL())
		assert.Equal(t, []any{DefaultLimit}, b.Args())
	})

	t.Run("limit zero is kept", func(t *testing.T) {
		var b Builder
		b.Window(&Params{Limit: intPtr(0), Offset: 10}, ParseSort("-likes", bookFields, "-published_at"), "")

		assert.Equal(t, " ORDER BY stats.likes DESC LIMIT $1 OFFSET $2", b.SQL())
		assert.Equal(t, []any{0, 10}, b.Args())
	})
}

func TestPrefixEscapesWildcards(t *testing.T) {
	var b Builder
	b.Write("SELECT 1 FROM books b")
	b.Where(b.PrefixMatch("b.title", `50%_off\`))

	assert.Equal(t, "SELECT 1 FROM books b WHERE b.title ILIKE $1 || '%'", b.SQL())
	assert.Equal(t, []any{`50\%\_off\\`}, b.Args())
}

func TestWhere(t *testing.T) {
	var b Builder
	b.Write("SELECT 1").Where()
	assert.Equal(t, "SELECT 1", b.SQL())

	b.Where("a = "+b.Arg(1), "b IS NULL")
	assert.Equal(t, "SELECT 1 WHERE a = $1 AND b IS NULL", b.SQL())
}
