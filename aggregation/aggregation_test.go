package aggregation

import (
	"testing"

	"github.com/jmoiron/sqlx"
	_ "github.com/mattn/go-sqlite3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"bancali/ledger"
	"bancali/model"
	"bancali/registry"
	"bancali/store"
)

func newTestAggregator(t *testing.T) (*Aggregator, *ledger.Ledger, *registry.Registry) {
	t.Helper()
	db, err := sqlx.Open("sqlite3", ":memory:")
	require.NoError(t, err)
	db.SetMaxOpenConns(1)
	t.Cleanup(func() { db.Close() })

	st := store.New(db)
	require.NoError(t, st.Init())
	reg := registry.New(st)
	led := ledger.New(st, reg)
	return New(led, reg), led, reg
}

func TestAggregateSumsPerLocationAndType(t *testing.T) {
	agg, led, reg := newTestAggregator(t)

	shop, err := reg.Add(model.KindShop, "Negozio Centro", "")
	require.NoError(t, err)

	for i, args := range []model.ScanMoveArgs{
		{Code: "P1", PalletType: "EUR/EPAL", Qty: 3, ToKind: model.KindShop, ToID: shop.ID},
		{Code: "P2", PalletType: "EUR/EPAL", Qty: 2, ToKind: model.KindShop, ToID: shop.ID},
		{Code: "P3", PalletType: "CHEP", Qty: 5, ToKind: model.KindShop, ToID: shop.ID},
	} {
		_, err := led.ApplyScanMove(args)
		require.NoError(t, err, "move %d", i)
	}

	rows, err := agg.Aggregate()
	require.NoError(t, err)
	require.Len(t, rows, 2)

	// Sorted by (label, palletType): CHEP before EUR/EPAL.
	assert.Equal(t, "CHEP", rows[0].PalletType)
	assert.Equal(t, 5, rows[0].Qty)
	assert.Equal(t, "EUR/EPAL", rows[1].PalletType)
	assert.Equal(t, 5, rows[1].Qty)
	assert.Equal(t, "Negozio Centro", rows[0].Label)
}

func TestAggregateIdempotent(t *testing.T) {
	agg, led, _ := newTestAggregator(t)

	_, err := led.ApplyScanMove(model.ScanMoveArgs{
		Code: "P1", PalletType: "IFCO", Qty: 4,
		ToKind: model.KindShop, ToID: "shop_main",
	})
	require.NoError(t, err)

	first, err := agg.Aggregate()
	require.NoError(t, err)
	second, err := agg.Aggregate()
	require.NoError(t, err)
	assert.Equal(t, first, second)
}

func TestAggregateEmptyLedger(t *testing.T) {
	agg, _, _ := newTestAggregator(t)

	rows, err := agg.Aggregate()
	require.NoError(t, err)
	assert.Empty(t, rows)
}

func TestAggregateDanglingLocationGetsGenericLabel(t *testing.T) {
	agg, led, _ := newTestAggregator(t)

	_, err := led.Upsert(model.Pallet{
		ID: "id-1", Code: "P1", PalletType: "CHEP", Qty: 2,
		Location: model.LocationRef{Kind: model.KindDriver, ID: "drv_gone"},
	})
	require.NoError(t, err)

	rows, err := agg.Aggregate()
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, "Autista", rows[0].Label)
	assert.Equal(t, "drv_gone", rows[0].LocationID)
}

func TestAggregateFollowsLedgerMoves(t *testing.T) {
	agg, led, _ := newTestAggregator(t)

	_, err := led.ApplyScanMove(model.ScanMoveArgs{
		Code: "P1", PalletType: "EUR/EPAL", Qty: 3,
		ToKind: model.KindShop, ToID: "shop_main",
	})
	require.NoError(t, err)

	_, err = led.ApplyScanMove(model.ScanMoveArgs{
		Code: "P1", PalletType: "EUR/EPAL", Qty: 3,
		ToKind: model.KindDriver, ToID: "drv_1",
	})
	require.NoError(t, err)

	rows, err := agg.Aggregate()
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, model.KindDriver, rows[0].LocationKind)
	assert.Equal(t, 3, rows[0].Qty)
}
