package jpql

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gnolang/dynfinder/parser"
	"github.com/gnolang/dynfinder/query"
)

var personProperties = []string{"name", "age", "married", "pets"}

func TestRenderParsed(t *testing.T) {
	t.Parallel()
	tests := []struct {
		method    string
		args      []string
		statement string
		settings  []string
	}{
		{
			method:    "find",
			statement: "SELECT e FROM Person e",
		},
		{
			method:    "getByName",
			args:      []string{"name"},
			statement: "SELECT e FROM Person e WHERE e.name = :name",
			settings:  []string{"maxResults=1"},
		},
		{
			method:    "findTop10ByAgeGreaterThanEqualOrderByNameDesc",
			args:      []string{"age"},
			statement: "SELECT e FROM Person e WHERE e.age >= :age ORDER BY e.name DESC",
			settings:  []string{"maxResults=10"},
		},
		{
			method:    "findByNameAfterOrAgeBeforeAndMarried",
			args:      []string{"n", "a", "m"},
			statement: "SELECT e FROM Person e WHERE e.name > :n OR e.age < :a AND e.married = :m",
		},
		{
			method:    "findCountDistinctNameByMarriedTrue",
			statement: "SELECT COUNT(DISTINCT e.name) FROM Person e WHERE e.married = TRUE",
		},
		{
			method:    "findCount",
			statement: "SELECT COUNT(e) FROM Person e",
		},
		{
			method:    "findDistinctByPetsIsNotEmpty",
			statement: "SELECT DISTINCT e FROM Person e WHERE NOT (e.pets IS EMPTY)",
		},
		{
			method:    "getMaxAge",
			statement: "SELECT MAX(e.age) FROM Person e",
			settings:  []string{"maxResults=1"},
		},
		{
			method:    "findByNameNotTrue",
			statement: "SELECT e FROM Person e WHERE e.name = FALSE",
		},
		{
			method:    "findByAgeNotBetweenAndNameIsNull",
			args:      []string{"lo", "hi"},
			statement: "SELECT e FROM Person e WHERE NOT (e.age BETWEEN :lo AND :hi) AND e.name IS NULL",
		},
		{
			method:    "findByNameContainsOrNameStartsWithOrNameEndingWith",
			args:      []string{"a", "b", "c"},
			statement: "SELECT e FROM Person e WHERE e.name LIKE CONCAT('%', :a, '%') OR e.name LIKE CONCAT(:b, '%') OR e.name LIKE CONCAT('%', :c)",
		},
		{
			method:    "findByNameIlikeAndNameLikeAndAgeInList",
			args:      []string{"a", "b", "ages"},
			statement: "SELECT e FROM Person e WHERE LOWER(e.name) LIKE LOWER(:a) AND e.name LIKE :b AND e.age IN :ages",
		},
		{
			method:    "findOrderByNameAndAgeDesc",
			statement: "SELECT e FROM Person e ORDER BY e.name ASC, e.age DESC",
		},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.method, func(t *testing.T) {
			t.Parallel()
			f, err := parser.Parse(personProperties, tt.method, tt.args)
			require.NoError(t, err)

			stmt, settings := query.Render(f, New("Person"))
			assert.Equal(t, tt.statement, stmt)
			if tt.settings == nil {
				assert.Empty(t, settings)
			} else {
				assert.Equal(t, tt.settings, settings)
			}
		})
	}
}

func TestRenderNestedCompound(t *testing.T) {
	t.Parallel()
	inner, err := query.NewCompound(
		&query.Condition{Property: "age", Operator: query.OpLessThan, Parameters: []query.Parameter{query.Value{Val: 18}}},
		query.Junction{Operator: query.Or, Expression: &query.Condition{Property: "married", Operator: query.OpFalse}},
	)
	require.NoError(t, err)

	b := query.NewBuilder()
	require.NoError(t, b.Select(query.MethodFind))
	require.NoError(t, b.Condition("name", true, query.OpEquals, query.Value{Val: "O'Brien"}))
	require.NoError(t, b.And())
	require.NoError(t, b.Where(inner))
	f, err := b.Build()
	require.NoError(t, err)

	stmt, _ := query.Render(f, New("Person", WithAlias("p")))
	assert.Equal(t,
		"SELECT p FROM Person p WHERE NOT (p.name = 'O''Brien') AND (p.age < 18 OR p.married = FALSE)",
		stmt)
}

func TestRendererReuse(t *testing.T) {
	t.Parallel()
	r := New("Person")

	f, err := parser.Parse(personProperties, "getTop3", nil)
	require.NoError(t, err)
	stmt, settings := query.Render(f, r)
	assert.Equal(t, "SELECT e FROM Person e", stmt)
	assert.Equal(t, []string{"maxResults=3"}, settings)

	f, err = parser.Parse(personProperties, "findOrderByAge", nil)
	require.NoError(t, err)
	stmt, settings = query.Render(f, r)
	assert.Equal(t, "SELECT e FROM Person e ORDER BY e.age ASC", stmt)
	assert.Empty(t, settings)
}

func TestLiteral(t *testing.T) {
	t.Parallel()
	tests := []struct {
		give any
		want string
	}{
		{nil, "NULL"},
		{"it's", "'it''s'"},
		{true, "TRUE"},
		{false, "FALSE"},
		{42, "42"},
		{3.5, "3.5"},
		{time.Second, "'1s'"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, literal(tt.give))
	}
}
