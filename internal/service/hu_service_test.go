package service

import (
	"context"
	"testing"

	"github.com/naskek/FlowStock-sub000/internal/model"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHuGenerate_ConsecutiveCodes(t *testing.T) {
	env := newTestEnv()
	svc := env.huSvc()

	first, err := svc.Generate(context.Background(), 5, "alice")
	require.NoError(t, err)
	second, err := svc.Generate(context.Background(), 3, "bob")
	require.NoError(t, err)

	require.Len(t, first, 5)
	require.Len(t, second, 3)
	assert.Equal(t, "HU-000001", first[0].Code)
	assert.Equal(t, "HU-000005", first[4].Code)
	assert.Equal(t, "HU-000006", second[0].Code)
	assert.Equal(t, "HU-000008", second[2].Code)

	for _, hu := range first {
		assert.Equal(t, model.HuStatusOpen, hu.Status)
		assert.Equal(t, "alice", hu.CreatedBy)
	}
	assert.Len(t, env.hus.hus, 8)
}

func TestHuGenerate_RejectsZeroCount(t *testing.T) {
	env := newTestEnv()
	_, err := env.huSvc().Generate(context.Background(), 0, "alice")
	assert.Error(t, err)
}

func TestHuClose_EmptyOnly(t *testing.T) {
	env := newTestEnv()
	item := env.seedItem("Bolt M8", "pcs", nil)
	loc := env.seedLocation("A-01")
	env.seedHu("HU-000001", model.HuStatusActive)
	env.seedStock(item.ID, loc.ID, strPtr("HU-000001"), dec("5"))
	svc := env.huSvc()

	err := svc.Close(context.Background(), "HU-000001", nil)
	assert.ErrorIs(t, err, ErrHuNotEmpty)

	// Emptied out: close succeeds and is terminal.
	env.seedStock(item.ID, loc.ID, strPtr("HU-000001"), dec("-5"))
	require.NoError(t, svc.Close(context.Background(), "HU-000001", nil))
	assert.Equal(t, model.HuStatusClosed, env.hus.hus["HU-000001"].Status)
	assert.NotNil(t, env.hus.hus["HU-000001"].ClosedAt)

	err = svc.Close(context.Background(), "HU-000001", nil)
	assert.ErrorIs(t, err, ErrHuTerminal)
}

func TestHuVoid_Terminal(t *testing.T) {
	env := newTestEnv()
	env.seedHu("HU-000002", model.HuStatusOpen)
	svc := env.huSvc()

	note := "fell off the truck"
	require.NoError(t, svc.Void(context.Background(), "HU-000002", &note))
	assert.Equal(t, model.HuStatusVoid, env.hus.hus["HU-000002"].Status)

	err := svc.Void(context.Background(), "HU-000002", nil)
	assert.ErrorIs(t, err, ErrHuTerminal)
}

func TestHuComposition_DerivedFromPostings(t *testing.T) {
	env := newTestEnv()
	item := env.seedItem("Bolt M8", "pcs", nil)
	other := env.seedItem("Nut M8", "pcs", nil)
	loc := env.seedLocation("A-01")
	env.seedHu("HU-000003", model.HuStatusActive)
	env.seedStock(item.ID, loc.ID, strPtr("HU-000003"), dec("12"))
	env.seedStock(other.ID, loc.ID, strPtr("HU-000003"), dec("4"))
	// Fully picked out again: must not show up.
	env.seedStock(other.ID, loc.ID, strPtr("HU-000003"), dec("-4"))
	svc := env.huSvc()

	rows, err := svc.Composition(context.Background(), "HU-000003")
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, item.ID, rows[0].ItemID)
	assert.Equal(t, "12", rows[0].Qty.String())
}

func TestHuLabelSheet_UnknownCode(t *testing.T) {
	env := newTestEnv()
	_, err := env.huSvc().LabelSheet(context.Background(), []string{"HU-999999"})
	assert.ErrorContains(t, err, "HU-999999")
}
