package aggregation

import (
	"sort"

	"bancali/ledger"
	"bancali/model"
	"bancali/registry"
)

// Aggregator derives stock-on-hand per (location, pallet type) from the
// current ledger snapshot. The result is a pure projection: recomputing
// it without intervening mutation yields identical output.
type Aggregator struct {
	led *ledger.Ledger
	reg *registry.Registry
}

func New(led *ledger.Ledger, reg *registry.Registry) *Aggregator {
	return &Aggregator{led: led, reg: reg}
}

type groupKey struct {
	kind       model.LocationKind
	id         string
	palletType string
}

// Aggregate folds the pallet snapshot once, resolving display labels
// through the registry, and returns rows sorted by (label, palletType).
func (a *Aggregator) Aggregate() ([]model.StockRow, error) {
	pallets, err := a.led.Pallets()
	if err != nil {
		return nil, err
	}

	totals := make(map[groupKey]int)
	for _, p := range pallets {
		key := groupKey{kind: p.Location.Kind, id: p.Location.ID, palletType: p.PalletType}
		totals[key] += p.Qty
	}

	rows := make([]model.StockRow, 0, len(totals))
	for key, qty := range totals {
		rows = append(rows, model.StockRow{
			LocationKind: key.kind,
			LocationID:   key.id,
			Label:        a.reg.Label(key.kind, key.id),
			PalletType:   key.palletType,
			Qty:          qty,
		})
	}

	sort.Slice(rows, func(i, j int) bool {
		if rows[i].Label != rows[j].Label {
			return rows[i].Label < rows[j].Label
		}
		if rows[i].PalletType != rows[j].PalletType {
			return rows[i].PalletType < rows[j].PalletType
		}
		// Same label and type can still come from two location ids.
		return rows[i].LocationID < rows[j].LocationID
	})
	return rows, nil
}
