package cart

import (
	"path/filepath"
	"testing"

	"mini-shop/internal/model"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testProduct(id string, price int64) model.Product {
	return model.Product{
		ID:       id,
		Name:     "Product " + id,
		Price:    price,
		Currency: model.DefaultCurrency,
		Category: "Tổng hợp",
		Stock:    50,
	}
}

func newTestCart(t *testing.T) *Cart {
	t.Helper()
	return New(NewMemorySnapshotter(), zerolog.Nop())
}

func TestCart_AddMergesLines(t *testing.T) {
	c := newTestCart(t)
	shoes := testProduct("1", 2_490_000)

	require.NoError(t, c.Add(shoes, 1))
	require.NoError(t, c.Add(shoes, 2))

	lines := c.Lines()
	require.Len(t, lines, 1, "adding the same product twice must not create a second line")
	assert.Equal(t, 3, lines[0].Quantity)
	assert.Equal(t, 3, c.Count())
}

func TestCart_AddRejectsNonPositiveQuantity(t *testing.T) {
	c := newTestCart(t)

	err := c.Add(testProduct("1", 1000), 0)
	assert.ErrorIs(t, err, model.ErrInvalidQuantity)

	err = c.Add(testProduct("1", 1000), -3)
	assert.ErrorIs(t, err, model.ErrInvalidQuantity)
	assert.Empty(t, c.Lines())
}

func TestCart_TotalAndCount(t *testing.T) {
	c := newTestCart(t)

	require.NoError(t, c.Add(testProduct("A", 2_490_000), 1))
	require.NoError(t, c.Add(testProduct("B", 190_000), 2))

	assert.Equal(t, int64(2_870_000), c.Total())
	assert.Equal(t, 3, c.Count())
}

func TestCart_TotalMatchesLinesAfterMutations(t *testing.T) {
	c := newTestCart(t)

	require.NoError(t, c.Add(testProduct("A", 100), 2))
	require.NoError(t, c.Add(testProduct("B", 250), 1))
	require.NoError(t, c.SetQuantity("A", 5))
	require.NoError(t, c.Add(testProduct("C", 40), 3))
	require.NoError(t, c.Remove("B"))

	var want int64
	seen := map[string]bool{}
	for _, line := range c.Lines() {
		require.False(t, seen[line.Product.ID], "duplicate line for product %s", line.Product.ID)
		seen[line.Product.ID] = true
		want += line.Product.Price * int64(line.Quantity)
	}
	assert.Equal(t, want, c.Total())
	assert.Equal(t, int64(5*100+3*40), c.Total())
}

func TestCart_SetQuantityZeroEqualsRemove(t *testing.T) {
	a := newTestCart(t)
	b := newTestCart(t)

	for _, c := range []*Cart{a, b} {
		require.NoError(t, c.Add(testProduct("1", 1000), 2))
		require.NoError(t, c.Add(testProduct("2", 2000), 1))
	}

	require.NoError(t, a.SetQuantity("1", 0))
	require.NoError(t, b.Remove("1"))

	assert.Equal(t, b.Lines(), a.Lines())
	assert.Equal(t, b.Total(), a.Total())
}

func TestCart_SetQuantityUnknownProductIsNoop(t *testing.T) {
	c := newTestCart(t)
	require.NoError(t, c.Add(testProduct("1", 1000), 1))

	require.NoError(t, c.SetQuantity("missing", 4))
	assert.Len(t, c.Lines(), 1)
	assert.Equal(t, 1, c.Count())
}

func TestCart_ClearThenRehydrateIsEmpty(t *testing.T) {
	snap := NewMemorySnapshotter()
	c := New(snap, zerolog.Nop())

	require.NoError(t, c.Add(testProduct("1", 1000), 3))
	require.NoError(t, c.Clear())

	rehydrated := New(snap, zerolog.Nop())
	assert.Empty(t, rehydrated.Lines())
	assert.Zero(t, rehydrated.Total())
	assert.Zero(t, rehydrated.Count())
}

func TestCart_FileSnapshotRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "cart.json")
	snap := NewFileSnapshotter(path, zerolog.Nop())

	c := New(snap, zerolog.Nop())
	require.NoError(t, c.Add(testProduct("1", 2_490_000), 1))
	require.NoError(t, c.Add(testProduct("2", 190_000), 2))

	rehydrated := New(NewFileSnapshotter(path, zerolog.Nop()), zerolog.Nop())
	assert.Equal(t, c.Lines(), rehydrated.Lines())
	assert.Equal(t, int64(2_870_000), rehydrated.Total())
}

func TestCart_MissingSnapshotStartsEmpty(t *testing.T) {
	path := filepath.Join(t.TempDir(), "does-not-exist", "cart.json")
	c := New(NewFileSnapshotter(path, zerolog.Nop()), zerolog.Nop())

	assert.Empty(t, c.Lines())
}
