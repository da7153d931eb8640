package store_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/stocksync/internal/domain/entity"
	"github.com/jhoicas/stocksync/internal/domain/repository"
	"github.com/jhoicas/stocksync/internal/domain/store"
)

type memKV struct{ data map[string][]byte }

func newMemKV() *memKV { return &memKV{data: map[string][]byte{}} }

func (m *memKV) Load(_ context.Context, key string) ([]byte, bool, error) {
	v, ok := m.data[key]
	return v, ok, nil
}

func (m *memKV) Save(_ context.Context, key string, value []byte) error {
	m.data[key] = append([]byte(nil), value...)
	return nil
}

func (m *memKV) Delete(_ context.Context, key string) error {
	delete(m.data, key)
	return nil
}

func (m *memKV) Close() error { return nil }

func seed(t *testing.T, s *store.Store) {
	t.Helper()
	_, err := s.Update(func(tx *store.Tx) error {
		tx.PutProduct(entity.Product{ID: "P1", Name: "Tornillo", Unit: "caja"})
		tx.PutProduct(entity.Product{ID: "P2", Name: "Tuerca", Unit: "caja"})
		tx.PutLocation(entity.Location{ID: "L1", Name: "Bodega", Address: "Calle 1"})
		tx.PutLine(entity.InventoryLine{ProductID: "P1", LocationID: "L1", Quantity: 3})
		tx.AppendRecord(entity.TransactionRecord{ID: "R1", Type: entity.TransactionIn, ProductID: "P1", LocationID: "L1", Quantity: 3})
		return nil
	})
	require.NoError(t, err)
}

func TestStore_UpdateCommitsAndReportsTouched(t *testing.T) {
	s := store.New()
	seed(t, s)

	touched, err := s.Update(func(tx *store.Tx) error {
		tx.PutProduct(entity.Product{ID: "P3", Name: "Arandela", Unit: "u"})
		return nil
	})
	require.NoError(t, err)
	assert.Equal(t, []string{entity.CollectionProducts}, touched)

	ids := []string{}
	for _, p := range s.Products() {
		ids = append(ids, p.ID)
	}
	assert.Equal(t, []string{"P1", "P2", "P3"}, ids)
}

func TestStore_UpdateRollsBackOnError(t *testing.T) {
	s := store.New()
	seed(t, s)
	before := s.Snapshot()

	boom := errors.New("boom")
	touched, err := s.Update(func(tx *store.Tx) error {
		tx.RemoveProduct("P1")
		tx.RemoveLinesWhere(func(entity.InventoryLine) bool { return true })
		tx.SetSettings(entity.Settings{LowStockThreshold: 99})
		return boom
	})
	assert.ErrorIs(t, err, boom)
	assert.Nil(t, touched)
	assert.Equal(t, before, s.Snapshot())
	assert.Equal(t, entity.DefaultLowStockThreshold, s.Settings().LowStockThreshold)
}

func TestStore_TxSeesStagedWrites(t *testing.T) {
	s := store.New()
	_, err := s.Update(func(tx *store.Tx) error {
		tx.PutLocation(entity.Location{ID: "L1", Name: "Bodega"})
		_, ok := tx.Location("L1")
		assert.True(t, ok)
		return nil
	})
	require.NoError(t, err)
}

func TestStore_RemoveWhereKeepsOrder(t *testing.T) {
	s := store.New()
	_, err := s.Update(func(tx *store.Tx) error {
		for _, id := range []string{"a", "b", "c", "d"} {
			tx.AppendRecord(entity.TransactionRecord{ID: id, ProductID: id})
		}
		n := tx.RemoveRecordsWhere(func(r entity.TransactionRecord) bool { return r.ID == "b" || r.ID == "d" })
		assert.Equal(t, 2, n)
		return nil
	})
	require.NoError(t, err)
	recs := s.Records()
	require.Len(t, recs, 2)
	assert.Equal(t, "a", recs[0].ID)
	assert.Equal(t, "c", recs[1].ID)
}

func TestStore_ReplaceOnlyPresentCollections(t *testing.T) {
	s := store.New()
	seed(t, s)
	before := s.Snapshot()

	touched := s.Replace(entity.Snapshot{Products: []entity.Product{{ID: "X", Name: "Remoto", Unit: "u"}}})
	assert.Equal(t, []string{entity.CollectionProducts}, touched)

	after := s.Snapshot()
	assert.Equal(t, []entity.Product{{ID: "X", Name: "Remoto", Unit: "u"}}, after.Products)
	assert.Equal(t, before.Locations, after.Locations)
	assert.Equal(t, before.Inventory, after.Inventory)
	assert.Equal(t, before.Records, after.Records)
}

func TestStore_ReplaceKeepsRowsWithDuplicateIDs(t *testing.T) {
	s := store.New()
	in := []entity.Product{{ID: "A", Name: "uno"}, {ID: "A", Name: "dos"}, {Name: "sin id"}}
	s.Replace(entity.Snapshot{Products: in})
	assert.Equal(t, in, s.Products())
}

func TestStore_RemoveProductDropsDuplicates(t *testing.T) {
	s := store.New()
	s.Replace(entity.Snapshot{
		Products:  []entity.Product{{ID: "A", Name: "uno"}, {ID: "B"}, {ID: "A", Name: "dos"}},
		Locations: []entity.Location{{ID: "L"}, {ID: "L"}},
	})
	_, err := s.Update(func(tx *store.Tx) error {
		assert.True(t, tx.RemoveProduct("A"))
		assert.True(t, tx.RemoveLocation("L"))
		assert.False(t, tx.RemoveProduct("A"))
		return nil
	})
	require.NoError(t, err)
	assert.Equal(t, []entity.Product{{ID: "B"}}, s.Products())
	assert.Empty(t, s.Locations())
}

func TestStore_SnapshotNeverNil(t *testing.T) {
	snap := store.New().Snapshot()
	assert.NotNil(t, snap.Products)
	assert.NotNil(t, snap.Locations)
	assert.NotNil(t, snap.Inventory)
	assert.NotNil(t, snap.Records)
}

func TestStore_PersistAndLoadRoundTrip(t *testing.T) {
	ctx := context.Background()
	kv := newMemKV()
	s := store.New()
	seed(t, s)
	last := time.Date(2024, 5, 1, 10, 0, 0, 0, time.UTC)
	_, err := s.Update(func(tx *store.Tx) error {
		st := tx.Settings()
		st.LowStockThreshold = 8
		st.RemoteURL = "http://remoto"
		st.AutoSyncEnabled = true
		st.SyncIntervalMinutes = 10
		st.LastSyncTime = &last
		tx.SetSettings(st)
		return nil
	})
	require.NoError(t, err)
	require.NoError(t, s.Persist(ctx, kv))

	assert.JSONEq(t, `8`, string(kv.data[repository.KeyLowStockThreshold]))
	assert.JSONEq(t, `"http://remoto"`, string(kv.data[repository.KeyRemoteURL]))
	assert.JSONEq(t, `true`, string(kv.data[repository.KeyAutoSyncEnabled]))

	loaded := store.New()
	require.NoError(t, loaded.Load(ctx, kv))
	assert.Equal(t, s.Snapshot(), loaded.Snapshot())
	st := loaded.Settings()
	assert.Equal(t, 8, st.LowStockThreshold)
	assert.Equal(t, "http://remoto", st.RemoteURL)
	assert.True(t, st.AutoSyncEnabled)
	assert.Equal(t, 10, st.SyncIntervalMinutes)
	require.NotNil(t, st.LastSyncTime)
	assert.True(t, last.Equal(*st.LastSyncTime))
}

func TestStore_LoadEmptyKeepsDefaults(t *testing.T) {
	s := store.New()
	require.NoError(t, s.Load(context.Background(), newMemKV()))
	assert.Equal(t, entity.DefaultSettings(), s.Settings())
	assert.Empty(t, s.Products())
}

func TestStore_PersistUnknownCollection(t *testing.T) {
	err := store.New().Persist(context.Background(), newMemKV(), "nope")
	assert.Error(t, err)
}
