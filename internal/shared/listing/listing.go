package listing

import (
	"strconv"
	"strings"

	validation "github.com/go-ozzo/ozzo-validation/v4"
)

const (
	DefaultLimit = 20
	MaxLimit     = 100
)

// Params are the pagination, sort and filter inputs shared by list endpoints.
//
// Limit is a pointer so that an explicit limit=0 (no rows) can be told apart
// from an absent limit (default page size).
type Params struct {
	Sort   string   `form:"sort"`
	Limit  *int     `form:"limit"`
	Offset int      `form:"offset"`
	Tags   []string `form:"tag"`
	Search string   `form:"search"`
}

func (p *Params) Validate() error {
	return validation.ValidateStruct(p,
		validation.Field(&p.Limit, validation.Min(0)),
		validation.Field(&p.Offset, validation.Min(0)),
		validation.Field(&p.Search, validation.Length(0, 100)),
		validation.Field(&p.Tags, validation.Length(0, 10)),
	)
}

// Normalize trims the free-text inputs and drops blank tags.
func (p *Params) Normalize() {
	p.Sort = strings.TrimSpace(p.Sort)
	p.Search = strings.TrimSpace(p.Search)

	tags := p.Tags[:0]
	for _, t := range p.Tags {
		if t = strings.TrimSpace(t); t != "" {
			tags = append(tags, t)
		}
	}
	p.Tags = tags
}

// EffectiveLimit resolves the page size: unset means DefaultLimit, values
// above MaxLimit are clamped, 0 stays 0.
func (p *Params) EffectiveLimit() int {
	if p.Limit == nil {
		return DefaultLimit
	}
	if *p.Limit > MaxLimit {
		return MaxLimit
	}
	return *p.Limit
}

// SortFields maps an API field name to the SQL expression it orders by.
type SortFields map[string]string

// Order is a resolved ORDER BY term.
type Order struct {
	Field  string
	Column string
	Desc   bool
}

func (o Order) SQL() string {
	if o.Desc {
		return o.Column + " DESC"
	}
	return o.Column + " ASC"
}

// ParseSort resolves "(+|-)field" against the allow-list. An empty, malformed
// or unlisted value resolves to fallback, which must itself be allowed.
func ParseSort(raw string, allowed SortFields, fallback string) Order {
	if o, ok := parseSort(raw, allowed); ok {
		return o
	}
	o, _ := parseSort(fallback, allowed)
	return o
}

func parseSort(raw string, allowed SortFields) (Order, bool) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return Order{}, false
	}

	desc := false
	switch raw[0] {
	case '-':
		desc = true
		raw = raw[1:]
	case '+':
		raw = raw[1:]
	}

	column, ok := allowed[raw]
	if !ok {
		return Order{}, false
	}
	return Order{Field: raw, Column: column, Desc: desc}, true
}

// EscapeLike escapes LIKE metacharacters so user input matches literally.
func EscapeLike(s string) string {
	r := strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)
	return r.Replace(s)
}

// Builder accumulates a SQL statement and its positional arguments.
type Builder struct {
	sb   strings.Builder
	args []any
}

func (b *Builder) Write(parts ...string) *Builder {
	for _, p := range parts {
		b.sb.WriteString(p)
	}
	return b
}

// Arg records a value and returns its placeholder ($1, $2, ...).
func (b *Builder) Arg(v any) string {
	b.args = append(b.args, v)
	return "$" + strconv.Itoa(len(b.args))
}

func (b *Builder) SQL() string   { return b.sb.String() }
func (b *Builder) Args() []any   { return b.args }
func (b *Builder) ArgCount() int { return len(b.args) }

// PrefixMatch returns a case-insensitive prefix match of column against
// search, recording search as an argument.
func (b *Builder) PrefixMatch(column, search string) string {
	return column + " ILIKE " + b.Arg(EscapeLike(search)) + " || '%'"
}

// Where writes the conditions joined by AND. No conditions writes nothing.
func (b *Builder) Where(conds ...string) *Builder {
	if len(conds) == 0 {
		return b
	}
	return b.Write(" WHERE ", strings.Join(conds, " AND "))
}

// Window writes ORDER BY, LIMIT and (when non-zero) OFFSET. The tiebreak
// column keeps pagination stable when the order column has duplicates.
func (b *Builder) Window(p *Params, order Order, tiebreak string) *Builder {
	b.Write(" ORDER BY ", order.SQL())
	if tiebreak != "" && tiebreak != order.Column {
		b.Write(", ", tiebreak, " ASC")
	}
	b.Write(" LIMIT ", b.Arg(p.EffectiveLimit()))
	if p.Offset > 0 {
		b.Write(" OFFSET ", b.Arg(p.Offset))
	}
	return b
}
