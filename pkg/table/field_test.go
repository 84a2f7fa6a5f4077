package table

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mesh-intelligence/tablerow/pkg/types"
)

type sample struct {
	Text    string
	Count   int
	Big     int64
	Ratio   float64
	Flag    bool
	Blob    []byte
	Comment *string
}

func TestBindConverts(t *testing.T) {
	var s sample
	tests := []struct {
		name  string
		field Field[sample]
		in    any
		check func(t *testing.T)
	}{
		{"string from bytes", Bind("text", func(s *sample) *string { return &s.Text }), []byte("hi"),
			func(t *testing.T) { assert.Equal(t, "hi", s.Text) }},
		{"int from string", Bind("count", func(s *sample) *int { return &s.Count }), "7",
			func(t *testing.T) { assert.Equal(t, 7, s.Count) }},
		{"int64 from bytes", Bind("big", func(s *sample) *int64 { return &s.Big }), []byte("9000"),
			func(t *testing.T) { assert.Equal(t, int64(9000), s.Big) }},
		{"float from string", Bind("ratio", func(s *sample) *float64 { return &s.Ratio }), "0.25",
			func(t *testing.T) { assert.Equal(t, 0.25, s.Ratio) }},
		{"bool from int", Bind("flag", func(s *sample) *bool { return &s.Flag }), int64(1),
			func(t *testing.T) { assert.True(t, s.Flag) }},
		{"bytes kept", Bind("blob", func(s *sample) *[]byte { return &s.Blob }), []byte{0, 1},
			func(t *testing.T) { assert.Equal(t, []byte{0, 1}, s.Blob) }},
		{"nullable set", Bind("comment", func(s *sample) **string { return &s.Comment }, Nullable()), "note",
			func(t *testing.T) {
				require.NotNil(t, s.Comment)
				assert.Equal(t, "note", *s.Comment)
			}},
		{"nullable cleared", Bind("comment", func(s *sample) **string { return &s.Comment }, Nullable()), nil,
			func(t *testing.T) { assert.Nil(t, s.Comment) }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			require.NoError(t, tt.field.Set(&s, tt.in))
			tt.check(t)
		})
	}
}

func TestBindRejectsUnconvertible(t *testing.T) {
	var s sample
	f := Bind("count", func(s *sample) *int { return &s.Count })
	assert.ErrorIs(t, f.Set(&s, "seven"), types.ErrInvalidData)

	type point struct{ X, Y int }
	type holder struct{ P point }
	var h holder
	g := Bind("p", func(h *holder) *point { return &h.P })
	assert.ErrorIs(t, g.Set(&h, "1,2"), types.ErrInvalidData)
	require.NoError(t, g.Set(&h, point{1, 2}))
	assert.Equal(t, point{1, 2}, h.P)
}

func TestSchema(t *testing.T) {
	s := personSchema("person")
	assert.Equal(t, []string{"name", "email", "age"}, s.Columns())
	assert.Equal(t, "table.person", s.TypeName())

	f, ok := s.Field("age")
	require.True(t, ok)
	assert.True(t, f.Optional())
	f, ok = s.Field("name")
	require.True(t, ok)
	assert.False(t, f.Optional())
	_, ok = s.Field("nope")
	assert.False(t, ok)
}
