package ledger

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/rs/zerolog/log"

	"bancali/model"
)

func statusFor(err error) int {
	var ve *model.ValidationError
	var nf *model.NotFoundError
	var ce *model.ConflictError
	switch {
	case errors.As(err, &ve):
		return http.StatusBadRequest
	case errors.As(err, &nf):
		return http.StatusNotFound
	case errors.As(err, &ce):
		return http.StatusConflict
	}
	return http.StatusInternalServerError
}

// ListPalletsHandler returns the current ledger snapshot.
func ListPalletsHandler(l *Ledger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		pallets, err := l.Pallets()
		if err != nil {
			log.Error().Err(err).Msg("list pallets failed")
			http.Error(w, "Failed to list pallets", http.StatusInternalServerError)
			return
		}
		if pallets == nil {
			pallets = []model.Pallet{}
		}
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(pallets)
	}
}

// FindPalletHandler resolves one pallet by scan code:
// GET /api/pallets/by_code/{code}.
func FindPalletHandler(l *Ledger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		code := strings.TrimPrefix(r.URL.Path, "/api/pallets/by_code/")
		if code == "" {
			http.Error(w, "code is required", http.StatusBadRequest)
			return
		}
		pallet, err := l.FindByCode(code)
		if err != nil {
			http.Error(w, "Failed to look up pallet", http.StatusInternalServerError)
			return
		}
		if pallet == nil {
			http.NotFound(w, r)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(pallet)
	}
}

// DeletePalletHandler removes one ledger row:
// POST /api/pallets/delete/{id}.
func DeletePalletHandler(l *Ledger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id := strings.TrimPrefix(r.URL.Path, "/api/pallets/delete/")
		if id == "" {
			http.Error(w, "id is required", http.StatusBadRequest)
			return
		}
		if err := l.Delete(id); err != nil {
			http.Error(w, err.Error(), statusFor(err))
			return
		}
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(map[string]string{"message": "deleted"})
	}
}

// ApplyScanMoveHandler commits a scan as a stock update:
// POST /api/scan/apply.
func ApplyScanMoveHandler(l *Ledger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var args model.ScanMoveArgs
		if err := json.NewDecoder(r.Body).Decode(&args); err != nil {
			http.Error(w, "Invalid request body", http.StatusBadRequest)
			return
		}
		result, err := l.ApplyScanMove(args)
		if err != nil {
			status := statusFor(err)
			if status == http.StatusInternalServerError {
				log.Error().Err(err).Str("code", args.Code).Msg("apply scan move failed")
			}
			http.Error(w, err.Error(), status)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(result)
	}
}

// RecordScanHandler logs a raw scan event: POST /api/scan/record.
func RecordScanHandler(l *Ledger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var entry model.ScanHistoryItem
		if err := json.NewDecoder(r.Body).Decode(&entry); err != nil {
			http.Error(w, "Invalid request body", http.StatusBadRequest)
			return
		}
		if entry.Source == "" {
			entry.Source = model.SourceManual
		}
		if err := l.RecordScan(entry); err != nil {
			log.Error().Err(err).Str("code", entry.Code).Msg("record scan failed")
			http.Error(w, "Failed to record scan", http.StatusInternalServerError)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(map[string]string{"message": "recorded"})
	}
}

// AttachPositionHandler augments the newest history entry with a GPS
// fix: POST /api/scan/position.
func AttachPositionHandler(l *Ledger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var input struct {
			Lat      float64 `json:"lat"`
			Lng      float64 `json:"lng"`
			Accuracy float64 `json:"accuracy"`
		}
		if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
			http.Error(w, "Invalid request body", http.StatusBadRequest)
			return
		}
		if err := l.AttachPosition(input.Lat, input.Lng, input.Accuracy); err != nil {
			http.Error(w, "Failed to attach position", http.StatusInternalServerError)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(map[string]string{"message": "attached"})
	}
}

// LastScanHandler returns the most recently committed pallet code.
func LastScanHandler(l *Ledger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		code, err := l.LastScan()
		if err != nil {
			http.Error(w, "Failed to read last scan", http.StatusInternalServerError)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(map[string]string{"code": code})
	}
}

// HistoryHandler returns the scan log, newest first.
func HistoryHandler(l *Ledger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		history, err := l.History()
		if err != nil {
			http.Error(w, "Failed to list history", http.StatusInternalServerError)
			return
		}
		if history == nil {
			history = []model.ScanHistoryItem{}
		}
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(history)
	}
}

// MovementsHandler returns the movement log, newest first.
func MovementsHandler(l *Ledger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		moves, err := l.Movements()
		if err != nil {
			http.Error(w, "Failed to list movements", http.StatusInternalServerError)
			return
		}
		if moves == nil {
			moves = []model.StockMove{}
		}
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(moves)
	}
}

// ClearHistoryHandler empties the scan log: POST /api/history/clear.
func ClearHistoryHandler(l *Ledger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := l.ClearHistory(); err != nil {
			http.Error(w, "Failed to clear history", http.StatusInternalServerError)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(map[string]string{"message": "cleared"})
	}
}

// ClearMovementsHandler empties the movement log: POST /api/movements/clear.
func ClearMovementsHandler(l *Ledger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := l.ClearMovements(); err != nil {
			http.Error(w, "Failed to clear movements", http.StatusInternalServerError)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(map[string]string{"message": "cleared"})
	}
}

// PalletTypesHandler returns the catalogue for UI pickers.
func PalletTypesHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(model.PalletTypes)
	}
}
