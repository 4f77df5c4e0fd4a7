package ledger

import (
	"bancali/model"
	"bancali/store"
)

// Movements returns the movement log, newest first. Entries are
// immutable; the only permitted mutation is ClearMovements.
func (l *Ledger) Movements() ([]model.StockMove, error) {
	var moves []model.StockMove
	if err := l.st.ReadJSON(store.KeyStockMoves, &moves); err != nil {
		return nil, err
	}
	return moves, nil
}

// ClearMovements empties the movement log.
func (l *Ledger) ClearMovements() error {
	return l.st.WriteJSON(store.KeyStockMoves, []model.StockMove{})
}
