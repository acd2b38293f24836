package optimistic_test

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/arjunks/kharcha/internal/events"
	"github.com/arjunks/kharcha/internal/optimistic"
	"github.com/arjunks/kharcha/internal/transaction"
)

func seedTransactions(n int) []*transaction.Transaction {
	txs := make([]*transaction.Transaction, n)
	for i := range txs {
		txs[i] = &transaction.Transaction{
			ID:          uuid.New(),
			Type:        transaction.TypeExpense,
			Amount:      int64((i + 1) * 1000),
			Description: "seed",
			Category:    "Other",
			Date:        time.Date(2024, 3, 1+i, 0, 0, 0, 0, time.UTC),
		}
	}

	return txs
}

func ids(txs []*transaction.Transaction) []uuid.UUID {
	out := make([]uuid.UUID, len(txs))
	for i, tx := range txs {
		out[i] = tx.ID
	}

	return out
}

func TestStore_DeleteRollbackRestoresExactState(t *testing.T) {
	store := optimistic.NewStore(nil)
	seed := seedTransactions(5)
	store.Replace(seed)

	before := store.All()

	patch, err := store.StageDelete(seed[2].ID)
	require.NoError(t, err)
	require.Len(t, store.All(), 4)

	// Simulated server failure: the inverse patch must restore the
	// same ids, same field values, same order.
	store.Rollback(patch)

	after := store.All()
	require.Len(t, after, 5)
	assert.Equal(t, ids(before), ids(after))

	for i := range before {
		assert.Equal(t, *before[i], *after[i])
	}

	assert.Zero(t, store.Pending())
}

func TestStore_CreateStagesPlaceholderAndConfirms(t *testing.T) {
	store := optimistic.NewStore(nil)
	store.Replace(seedTransactions(2))

	patch := store.StageCreate(transaction.CreateParams{
		Type:        transaction.TypeExpense,
		Amount:      4200,
		Description: "Chai",
		Category:    "Food & Dining",
		Date:        time.Date(2024, 3, 10, 0, 0, 0, 0, time.UTC),
	})

	all := store.All()
	require.Len(t, all, 3)
	assert.Equal(t, patch.Temp.ID, all[0].ID, "placeholder is prepended")
	assert.False(t, all[0].CreatedAt.IsZero())

	confirmed := patch.Temp.Clone()
	confirmed.ID = uuid.New() // server-assigned id
	store.ConfirmCreate(patch, confirmed)

	all = store.All()
	require.Len(t, all, 3)
	assert.Equal(t, confirmed.ID, all[0].ID)
	assert.Zero(t, store.Pending())
}

func TestStore_CreateRollbackRemovesPlaceholder(t *testing.T) {
	store := optimistic.NewStore(nil)
	store.Replace(seedTransactions(2))

	patch := store.StageCreate(transaction.CreateParams{
		Type:   transaction.TypeIncome,
		Amount: 100000,
	})
	require.Len(t, store.All(), 3)

	store.Rollback(patch)
	assert.Len(t, store.All(), 2)
}

func TestStore_UpdateRollbackRestoresPreviousValues(t *testing.T) {
	store := optimistic.NewStore(nil)
	seed := seedTransactions(3)
	store.Replace(seed)

	newAmount := int64(99999)
	newDesc := "edited"

	patch, err := store.StageUpdate(seed[1].ID, transaction.UpdateParams{
		Amount:      &newAmount,
		Description: &newDesc,
	})
	require.NoError(t, err)

	got := store.All()[1]
	assert.Equal(t, int64(99999), got.Amount)
	assert.Equal(t, "edited", got.Description)
	assert.False(t, got.UpdatedAt.IsZero())

	store.Rollback(patch)

	got = store.All()[1]
	assert.Equal(t, int64(2000), got.Amount)
	assert.Equal(t, "seed", got.Description)
}

func TestStore_UpdateUnknownID(t *testing.T) {
	store := optimistic.NewStore(nil)

	_, err := store.StageUpdate(uuid.New(), transaction.UpdateParams{})
	assert.ErrorIs(t, err, transaction.ErrNotFound)

	_, err = store.StageDelete(uuid.New())
	assert.ErrorIs(t, err, transaction.ErrNotFound)
}

// Two in-flight operations: rolling back A must not undo B.
func TestStore_ConcurrentPatchesAreIndependent(t *testing.T) {
	store := optimistic.NewStore(nil)
	seed := seedTransactions(4)
	store.Replace(seed)

	deletePatch, err := store.StageDelete(seed[0].ID)
	require.NoError(t, err)

	newAmount := int64(777)
	updatePatch, err := store.StageUpdate(seed[3].ID, transaction.UpdateParams{Amount: &newAmount})
	require.NoError(t, err)

	assert.Equal(t, 2, store.Pending())

	// The delete fails server-side, the update succeeds.
	store.Rollback(deletePatch)
	store.Commit(updatePatch)

	all := store.All()
	require.Len(t, all, 4)
	assert.Equal(t, seed[0].ID, all[0].ID, "rolled-back delete reinserted at its index")
	assert.Equal(t, int64(777), all[3].Amount, "committed update kept")
	assert.Zero(t, store.Pending())
}

// Two updates to the same record race; the server answers the second
// one first. Whichever response resolves last supplies the final
// values.
func TestStore_SameRecordUpdateRaceLastResponseWins(t *testing.T) {
	store := optimistic.NewStore(nil)
	seed := seedTransactions(3)
	store.Replace(seed)

	id := seed[1].ID

	firstAmount := int64(15000)
	firstPatch, err := store.StageUpdate(id, transaction.UpdateParams{Amount: &firstAmount})
	require.NoError(t, err)

	secondAmount := int64(17500)
	secondPatch, err := store.StageUpdate(id, transaction.UpdateParams{Amount: &secondAmount})
	require.NoError(t, err)

	require.Equal(t, 2, store.Pending())

	// The second request's response arrives first.
	secondResp := seed[1].Clone()
	secondResp.Amount = secondAmount
	store.ConfirmUpdate(secondPatch, secondResp)

	assert.Equal(t, secondAmount, store.All()[1].Amount)

	// Then the first request's response resolves; its values stand.
	firstResp := seed[1].Clone()
	firstResp.Amount = firstAmount
	store.ConfirmUpdate(firstPatch, firstResp)

	assert.Equal(t, firstAmount, store.All()[1].Amount)
	assert.Zero(t, store.Pending())
}

func TestStore_RollbackAfterCommitIsANoop(t *testing.T) {
	store := optimistic.NewStore(nil)
	seed := seedTransactions(2)
	store.Replace(seed)

	patch, err := store.StageDelete(seed[0].ID)
	require.NoError(t, err)

	store.Commit(patch)
	store.Rollback(patch)

	assert.Len(t, store.All(), 1)
}

func TestStore_PublishesMutationsAndInverses(t *testing.T) {
	bus := events.NewBus()

	var seen []events.Mutation

	bus.Subscribe(func(m events.Mutation) { seen = append(seen, m) })

	store := optimistic.NewStore(bus)

	patch := store.StageCreate(transaction.CreateParams{
		Type:   transaction.TypeExpense,
		Amount: 5000,
	})
	store.Rollback(patch)

	require.Len(t, seen, 2)
	assert.Equal(t, events.KindCreated, seen[0].Kind)
	assert.False(t, seen[0].Rollback)
	assert.Equal(t, events.KindDeleted, seen[1].Kind)
	assert.True(t, seen[1].Rollback)
	assert.Equal(t, int64(5000), seen[1].Before.Amount)
}
