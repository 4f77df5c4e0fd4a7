package aggregation

import (
	"encoding/json"
	"net/http"

	"github.com/rs/zerolog/log"

	"bancali/model"
)

// StockHandler returns the aggregated stock view: GET /api/stock.
func StockHandler(agg *Aggregator) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		rows, err := agg.Aggregate()
		if err != nil {
			log.Error().Err(err).Msg("stock aggregation failed")
			http.Error(w, "Failed to aggregate stock", http.StatusInternalServerError)
			return
		}
		if rows == nil {
			rows = []model.StockRow{}
		}
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(rows)
	}
}
