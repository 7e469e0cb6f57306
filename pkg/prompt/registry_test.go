package prompt

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewParsesEveryBuiltinTemplate(t *testing.T) {
	r := New()
	assert.Len(t, r.templates, len(rawTemplates))
}

func TestRenderRouter(t *testing.T) {
	r := New()
	out, err := r.Render(Router, struct{ UserInput string }{"plan a trip to Rome"})
	require.NoError(t, err)
	assert.Contains(t, out, "plan a trip to Rome")
	assert.Contains(t, out, `"agent"`)
}

func TestRenderRoutePlannerBindings(t *testing.T) {
	r := New()
	out, err := r.Render(RoutePlanner, struct {
		PreviousRoutePlan string
		BudgetConstraint  string
		RevisionRequest   string
		UserInput         string
	}{
		PreviousRoutePlan: "Previous route: None",
		BudgetConstraint:  "",
		RevisionRequest:   "",
		UserInput:         "3 days in Paris",
	})
	require.NoError(t, err)
	assert.Contains(t, out, "3 days in Paris")
	assert.Contains(t, out, "Previous route: None")
}

func TestRenderUnknownTemplate(t *testing.T) {
	r := New()
	_, err := r.Render(TemplateID("missing"), nil)
	assert.Error(t, err)
}
