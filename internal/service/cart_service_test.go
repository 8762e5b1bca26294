package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/koma-shop/account-service/internal/repository"
)

func newCartService(t *testing.T) (*CartService, string) {
	repo := repository.NewMemoryRepository(false)
	sut := NewCartService(repo, &mockCache{})
	return sut, seedUser(t, repo, "alice")
}

func TestCartList_UnknownUser(t *testing.T) {
	repo := repository.NewMemoryRepository(false)
	sut := NewCartService(repo, &mockCache{})

	_, err := sut.List(context.Background(), "ffffffffffffffffffffffff")
	assert.ErrorIs(t, err, repository.ErrUserNotFound)
}

func TestCartAdd_MergesByProductID(t *testing.T) {
	sut, userID := newCartService(t)
	ctx := context.Background()

	lines, err := sut.AddOrIncrement(ctx, userID, CartAddParams{
		ProductID: "p1", Name: "mug", Price: 9.5, Quantity: float64(1),
	})
	require.NoError(t, err)
	require.Len(t, lines, 1)

	lines, err = sut.AddOrIncrement(ctx, userID, CartAddParams{
		ProductID: "p1", Quantity: float64(2),
	})
	require.NoError(t, err)
	require.Len(t, lines, 1)
	assert.Equal(t, 3, lines[0].Quantity)
}

func TestCartAdd_NoQuantityDefaultsToOne(t *testing.T) {
	sut, userID := newCartService(t)
	ctx := context.Background()

	_, err := sut.AddOrIncrement(ctx, userID, CartAddParams{ProductID: "p1"})
	require.NoError(t, err)

	lines, err := sut.AddOrIncrement(ctx, userID, CartAddParams{ProductID: "p1"})
	require.NoError(t, err)
	require.Len(t, lines, 1)
	assert.Equal(t, 2, lines[0].Quantity)
}

func TestCartAdd_MergesByCartID(t *testing.T) {
	sut, userID := newCartService(t)
	ctx := context.Background()

	_, err := sut.AddOrIncrement(ctx, userID, CartAddParams{CartID: "c1", Name: "mug"})
	require.NoError(t, err)

	lines, err := sut.AddOrIncrement(ctx, userID, CartAddParams{CartID: "c1", Quantity: float64(4)})
	require.NoError(t, err)
	require.Len(t, lines, 1)
	assert.Equal(t, "c1", lines[0].CartID)
	assert.Equal(t, 5, lines[0].Quantity)
}

func TestCartAdd_ProductIDMatchWinsOverCartID(t *testing.T) {
	sut, userID := newCartService(t)
	ctx := context.Background()

	_, err := sut.AddOrIncrement(ctx, userID, CartAddParams{CartID: "c1", ProductID: "p1"})
	require.NoError(t, err)
	_, err = sut.AddOrIncrement(ctx, userID, CartAddParams{CartID: "c2", ProductID: "p2"})
	require.NoError(t, err)

	// cartId names line c2, but the productId match on c1 takes priority.
	lines, err := sut.AddOrIncrement(ctx, userID, CartAddParams{CartID: "c2", ProductID: "p1", Quantity: float64(3)})
	require.NoError(t, err)
	require.Len(t, lines, 2)
	assert.Equal(t, 4, lines[0].Quantity)
	assert.Equal(t, 1, lines[1].Quantity)
}

func TestCartAdd_GeneratesUniqueCartIDs(t *testing.T) {
	sut, userID := newCartService(t)
	ctx := context.Background()

	_, err := sut.AddOrIncrement(ctx, userID, CartAddParams{ProductID: "p1"})
	require.NoError(t, err)
	lines, err := sut.AddOrIncrement(ctx, userID, CartAddParams{ProductID: "p2"})
	require.NoError(t, err)

	require.Len(t, lines, 2)
	assert.NotEmpty(t, lines[0].CartID)
	assert.NotEmpty(t, lines[1].CartID)
	assert.NotEqual(t, lines[0].CartID, lines[1].CartID)
	assert.False(t, lines[0].AddedAt.IsZero())
}

func TestCartAdd_KeepsCallerCartID(t *testing.T) {
	sut, userID := newCartService(t)

	lines, err := sut.AddOrIncrement(context.Background(), userID, CartAddParams{CartID: "mine", ProductID: "p1"})
	require.NoError(t, err)
	require.Len(t, lines, 1)
	assert.Equal(t, "mine", lines[0].CartID)
}

func TestNormalizeQuantity(t *testing.T) {
	tests := []struct {
		name string
		in   any
		want int
	}{
		{"absent", nil, 1},
		{"number", float64(3), 3},
		{"numeric string", "2", 2},
		{"non-numeric string", "abc", 1},
		{"zero", float64(0), 1},
		{"negative", float64(-2), 1},
		{"bool", true, 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, normalizeQuantity(tt.in))
		})
	}
}

func TestCartSetQuantity_AllowsZero(t *testing.T) {
	sut, userID := newCartService(t)
	ctx := context.Background()

	_, err := sut.AddOrIncrement(ctx, userID, CartAddParams{CartID: "c1", ProductID: "p1"})
	require.NoError(t, err)

	// Direct set has no minimum, unlike the add path.
	lines, err := sut.SetQuantity(ctx, userID, "c1", float64(0))
	require.NoError(t, err)
	assert.Equal(t, 0, lines[0].Quantity)
}

func TestCartSetQuantity_CoercesLikeAddPath(t *testing.T) {
	sut, userID := newCartService(t)
	ctx := context.Background()

	_, err := sut.AddOrIncrement(ctx, userID, CartAddParams{CartID: "c1", ProductID: "p1"})
	require.NoError(t, err)

	lines, err := sut.SetQuantity(ctx, userID, "c1", "7")
	require.NoError(t, err)
	assert.Equal(t, 7, lines[0].Quantity)

	// Negative overwrites are stored as sent.
	lines, err = sut.SetQuantity(ctx, userID, "c1", float64(-2))
	require.NoError(t, err)
	assert.Equal(t, -2, lines[0].Quantity)
}

func TestCartSetQuantity_NonNumericLeavesLineUntouched(t *testing.T) {
	sut, userID := newCartService(t)
	ctx := context.Background()

	_, err := sut.AddOrIncrement(ctx, userID, CartAddParams{CartID: "c1", Quantity: float64(3)})
	require.NoError(t, err)

	lines, err := sut.SetQuantity(ctx, userID, "c1", "abc")
	require.NoError(t, err)
	assert.Equal(t, 3, lines[0].Quantity)
}

func TestCartSetQuantity_NilLeavesLineUntouched(t *testing.T) {
	sut, userID := newCartService(t)
	ctx := context.Background()

	_, err := sut.AddOrIncrement(ctx, userID, CartAddParams{CartID: "c1", Quantity: float64(4)})
	require.NoError(t, err)

	lines, err := sut.SetQuantity(ctx, userID, "c1", nil)
	require.NoError(t, err)
	assert.Equal(t, 4, lines[0].Quantity)
}

func TestCartSetQuantity_MissingLine(t *testing.T) {
	sut, userID := newCartService(t)

	_, err := sut.SetQuantity(context.Background(), userID, "missing", float64(2))
	assert.ErrorIs(t, err, ErrCartItemNotFound)
}

func TestCartMerge_ZeroedLineCountsAsOne(t *testing.T) {
	sut, userID := newCartService(t)
	ctx := context.Background()

	_, err := sut.AddOrIncrement(ctx, userID, CartAddParams{CartID: "c1", ProductID: "p1"})
	require.NoError(t, err)
	_, err = sut.SetQuantity(ctx, userID, "c1", float64(0))
	require.NoError(t, err)

	lines, err := sut.AddOrIncrement(ctx, userID, CartAddParams{ProductID: "p1"})
	require.NoError(t, err)
	assert.Equal(t, 2, lines[0].Quantity)
}

func TestCartRemove(t *testing.T) {
	sut, userID := newCartService(t)
	ctx := context.Background()

	_, err := sut.AddOrIncrement(ctx, userID, CartAddParams{CartID: "c1"})
	require.NoError(t, err)
	_, err = sut.AddOrIncrement(ctx, userID, CartAddParams{CartID: "c2"})
	require.NoError(t, err)

	lines, err := sut.Remove(ctx, userID, "c1")
	require.NoError(t, err)
	require.Len(t, lines, 1)
	assert.Equal(t, "c2", lines[0].CartID)
}

func TestCartRemove_AbsentIsNoOp(t *testing.T) {
	sut, userID := newCartService(t)
	ctx := context.Background()

	_, err := sut.AddOrIncrement(ctx, userID, CartAddParams{CartID: "c1"})
	require.NoError(t, err)

	lines, err := sut.Remove(ctx, userID, "missing")
	require.NoError(t, err)
	assert.Len(t, lines, 1)
}

func TestCartAdd_RetriesOnVersionConflict(t *testing.T) {
	inner := repository.NewMemoryRepository(true)
	repo := &conflictRepo{UserRepository: inner, conflicts: 1}
	sut := NewCartService(repo, &mockCache{})
	userID := seedUser(t, inner, "alice")
	ctx := context.Background()

	lines, err := sut.AddOrIncrement(ctx, userID, CartAddParams{ProductID: "p1"})
	require.NoError(t, err)
	require.Len(t, lines, 1)
}

func TestCartAdd_GivesUpAfterBoundedRetries(t *testing.T) {
	inner := repository.NewMemoryRepository(true)
	repo := &conflictRepo{UserRepository: inner, conflicts: 10}
	sut := NewCartService(repo, &mockCache{})
	userID := seedUser(t, inner, "alice")

	_, err := sut.AddOrIncrement(context.Background(), userID, CartAddParams{ProductID: "p1"})
	assert.ErrorIs(t, err, repository.ErrVersionConflict)
}
