package template_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/randalmurphal/fibergraph/pkg/fibergraph/template"
)

func TestExpandStyles(t *testing.T) {
	vars := map[string]any{"name": "zeta", "port": 8080}

	cases := []struct {
		in   string
		want string
	}{
		{"", ""},
		{"plain text", "plain text"},
		{"hello ${name}", "hello zeta"},
		{"hello $name", "hello zeta"},
		{"${name}:${port}", "zeta:8080"},
		{"$port close", "8080 close"},
		{"literal $$ stays", "literal $$ stays"},
	}
	for _, tc := range cases {
		got, err := template.New().Expand(tc.in, vars)
		require.NoError(t, err)
		assert.Equal(t, tc.want, got, "input %q", tc.in)
	}
}

func TestExpandWordBoundary(t *testing.T) {
	got, err := template.New().Expand("$portNumber", map[string]any{"port": 1})
	require.NoError(t, err)
	// $port must not match inside $portNumber.
	assert.Equal(t, "$portNumber", got)
}

func TestExpandMissingActions(t *testing.T) {
	e := template.New()
	got, err := e.Expand("v=${ghost}", nil)
	require.NoError(t, err)
	assert.Equal(t, "v=${ghost}", got)

	e = template.New(template.WithMissingAction(template.MissingEmpty))
	got, err = e.Expand("v=${ghost}", nil)
	require.NoError(t, err)
	assert.Equal(t, "v=", got)

	e = template.New(template.WithMissingAction(template.MissingError))
	_, err = e.Expand("${ghost} and ${phantom}", nil)
	var uerr *template.UndefinedVariableError
	require.ErrorAs(t, err, &uerr)
	assert.Equal(t, []string{"ghost", "phantom"}, uerr.Names)
	assert.Contains(t, uerr.Error(), "ghost")
}

func TestExpandDollarStyleDisabled(t *testing.T) {
	e := template.New(template.WithDollarStyle(false))
	got, err := e.Expand("${name} $name", map[string]any{"name": "z"})
	require.NoError(t, err)
	assert.Equal(t, "z $name", got)
}

func TestExpandValueTypePreserving(t *testing.T) {
	e := template.New()
	vars := map[string]any{"count": 7, "tags": []any{"a"}, "name": "z"}

	got, err := e.ExpandValue("${count}", vars)
	require.NoError(t, err)
	assert.Equal(t, 7, got)

	got, err = e.ExpandValue("${tags}", vars)
	require.NoError(t, err)
	assert.Equal(t, []any{"a"}, got)

	// Embedded references still stringify.
	got, err = e.ExpandValue("n=${count}", vars)
	require.NoError(t, err)
	assert.Equal(t, "n=7", got)

	// A whole-string reference with no value falls through to string
	// expansion.
	got, err = e.ExpandValue("${ghost}", vars)
	require.NoError(t, err)
	assert.Equal(t, "${ghost}", got)
}

func TestExpandValueRecurses(t *testing.T) {
	e := template.New()
	vars := map[string]any{"who": "guard", "n": 3}

	got, err := e.ExpandValue(map[string]any{
		"target": "${who}",
		"nested": []any{"${n}", "x ${who}", 42},
	}, vars)
	require.NoError(t, err)

	assert.Equal(t, map[string]any{
		"target": "guard",
		"nested": []any{3, "x guard", 42},
	}, got)

	got, err = e.ExpandValue(99, vars)
	require.NoError(t, err)
	assert.Equal(t, 99, got)
}

func TestPackageLevelHelpers(t *testing.T) {
	assert.Equal(t, "hi z", template.Expand("hi ${name}", map[string]any{"name": "z"}))
	assert.Equal(t, 5, template.ExpandValue("${n}", map[string]any{"n": 5}))
}
