package ledger

import (
	"time"

	"bancali/model"
	"bancali/store"
)

// RecordScan appends a raw scan event to the history log. It always
// succeeds regardless of whether the operator goes on to commit a move;
// scanning and committing are decoupled actions.
func (l *Ledger) RecordScan(entry model.ScanHistoryItem) error {
	if entry.Ts.IsZero() {
		entry.Ts = time.Now()
	}
	var history []model.ScanHistoryItem
	if err := l.st.ReadJSON(store.KeyHistory, &history); err != nil {
		return err
	}
	history = append([]model.ScanHistoryItem{entry}, history...)
	if len(history) > l.historyCap {
		history = history[:l.historyCap]
	}
	return l.st.WriteJSON(store.KeyHistory, history)
}

// History returns the scan log, newest first.
func (l *Ledger) History() ([]model.ScanHistoryItem, error) {
	var history []model.ScanHistoryItem
	if err := l.st.ReadJSON(store.KeyHistory, &history); err != nil {
		return nil, err
	}
	return history, nil
}

// AttachPosition augments the newest history entry with coordinates.
// GPS is best-effort and arrives after the entry is committed; a late
// fix overwrites an earlier one (last writer wins) and an empty history
// makes this a no-op.
func (l *Ledger) AttachPosition(lat, lng, accuracy float64) error {
	var history []model.ScanHistoryItem
	if err := l.st.ReadJSON(store.KeyHistory, &history); err != nil {
		return err
	}
	if len(history) == 0 {
		return nil
	}
	history[0].Lat = &lat
	history[0].Lng = &lng
	history[0].Accuracy = &accuracy
	return l.st.WriteJSON(store.KeyHistory, history)
}

// ClearHistory empties the scan log.
func (l *Ledger) ClearHistory() error {
	return l.st.WriteJSON(store.KeyHistory, []model.ScanHistoryItem{})
}
