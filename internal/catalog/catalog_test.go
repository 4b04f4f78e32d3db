package catalog

import (
	"context"
	"strings"
	"testing"

	"scavenger-hunt-api/internal/rules"
	"scavenger-hunt-api/internal/store"
	"scavenger-hunt-api/internal/testutil"

	"github.com/stretchr/testify/require"
)

func TestDefault_IsPlayable(t *testing.T) {
	tasks, err := Default()
	require.NoError(t, err)
	require.Len(t, tasks, 11)

	total := 0
	for i, task := range tasks {
		require.True(t, task.Active)
		if i > 0 {
			require.Greater(t, task.Order, tasks[i-1].Order)
		}
		total += task.Points
	}
	require.Equal(t, 130, total)

	require.Equal(t, rules.KindNone, tasks[len(tasks)-1].Validation.Kind)
	last := tasks[len(tasks)-2]
	require.Equal(t, rules.KindTextEquals, last.Validation.Kind)
	require.Equal(t, "1378", last.Validation.Expected)
	require.Equal(t, 1, last.Validation.Floor)
}

func TestParse_RejectsBadCatalogs(t *testing.T) {
	cases := map[string]string{
		"duplicate order": `
tasks:
  - {id: a, title: A, order: 1, points: 5, rule: photo}
  - {id: b, title: B, order: 1, points: 5, rule: photo}
`,
		"duplicate id": `
tasks:
  - {id: a, title: A, order: 1, points: 5, rule: photo}
  - {id: a, title: B, order: 2, points: 5, rule: photo}
`,
		"unknown rule":  "tasks:\n  - {id: a, title: A, order: 1, points: 5, rule: dance}\n",
		"floor too big": "tasks:\n  - {id: a, title: A, order: 1, points: 5, validation: {kind: text_equals, expected: x, floor: 9}}\n",
		"unknown field": "tasks:\n  - {id: a, title: A, order: 1, points: 5, rule: photo, colour: red}\n",
		"both forms":    "tasks:\n  - {id: a, title: A, order: 1, points: 5, rule: photo, validation: {kind: photo_upload}}\n",
	}
	for name, doc := range cases {
		_, err := Parse(strings.NewReader(doc))
		require.ErrorIs(t, err, ErrInvalid, name)
	}
}

func TestParse_InactiveTasksMayShareOrder(t *testing.T) {
	tasks, err := Parse(strings.NewReader(`
tasks:
  - {id: a, title: A, order: 1, points: 5, rule: photo}
  - {id: b, title: B, order: 1, points: 5, rule: photo, active: false}
`))
	require.NoError(t, err)
	require.False(t, tasks[1].Active)
}

func TestSeed_ReplaceDeactivatesMissingTasks(t *testing.T) {
	ctx := context.Background()
	db, err := testutil.NewInMemoryDB()
	require.NoError(t, err)
	s := store.New(db)

	tasks, err := Default()
	require.NoError(t, err)
	require.NoError(t, Seed(ctx, s, tasks, false))

	active, err := s.ListActiveTasks(ctx)
	require.NoError(t, err)
	require.Len(t, active, len(tasks))

	small, err := Parse(strings.NewReader("tasks:\n  - {id: task-2, title: Clock, order: 3, points: 8, rule: \"text:equals:13\"}\n"))
	require.NoError(t, err)
	require.NoError(t, Seed(ctx, s, small, true))

	active, err = s.ListActiveTasks(ctx)
	require.NoError(t, err)
	require.Len(t, active, 1)
	require.Equal(t, 8, active[0].Points)

	all, err := s.ListAllTasks(ctx)
	require.NoError(t, err)
	require.Len(t, all, len(tasks))
}

func TestSeed_RejectsOrderTakenByStoredTask(t *testing.T) {
	ctx := context.Background()
	db, err := testutil.NewInMemoryDB()
	require.NoError(t, err)
	s := store.New(db)

	base, err := Parse(strings.NewReader(`
tasks:
  - {id: riddle, title: Clock, order: 1, points: 10, rule: "text:equals:13"}
  - {id: photo, title: Selfie, order: 2, points: 5, rule: photo}
`))
	require.NoError(t, err)
	require.NoError(t, Seed(ctx, s, base, false))

	clash, err := Parse(strings.NewReader("tasks:\n  - {id: new, title: New, order: 1, points: 5, rule: photo}\n"))
	require.NoError(t, err)
	require.ErrorIs(t, Seed(ctx, s, clash, false), ErrInvalid)

	_, err = s.GetTask(ctx, "new")
	require.Error(t, err)
	active, err := s.ListActiveTasks(ctx)
	require.NoError(t, err)
	require.Len(t, active, 2)

	// with replace the stored tasks are deactivated, so the order is free
	require.NoError(t, Seed(ctx, s, clash, true))
	active, err = s.ListActiveTasks(ctx)
	require.NoError(t, err)
	require.Len(t, active, 1)
	require.Equal(t, "new", active[0].ID)
}

func TestSeed_AllowsSwappingOrders(t *testing.T) {
	ctx := context.Background()
	db, err := testutil.NewInMemoryDB()
	require.NoError(t, err)
	s := store.New(db)

	first, err := Parse(strings.NewReader(`
tasks:
  - {id: a, title: A, order: 1, points: 5, rule: photo}
  - {id: b, title: B, order: 2, points: 5, rule: photo}
`))
	require.NoError(t, err)
	require.NoError(t, Seed(ctx, s, first, false))

	swapped, err := Parse(strings.NewReader(`
tasks:
  - {id: a, title: A, order: 2, points: 5, rule: photo}
  - {id: b, title: B, order: 1, points: 5, rule: photo}
`))
	require.NoError(t, err)
	require.NoError(t, Seed(ctx, s, swapped, false))

	active, err := s.ListActiveTasks(ctx)
	require.NoError(t, err)
	require.Equal(t, "b", active[0].ID)
	require.Equal(t, "a", active[1].ID)
}
