package export

import (
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/rs/zerolog/log"

	"bancali/aggregation"
	"bancali/ledger"
)

func writeCSV(w http.ResponseWriter, r *http.Request, name string, header []string, rows [][]string) {
	doc := Render(header, rows)
	charset := r.URL.Query().Get("charset")
	doc, err := Transcode(doc, charset)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	filename := fmt.Sprintf("%s_%s.csv", name, time.Now().Format("20060102"))
	w.Header().Set("Content-Type", "text/csv")
	w.Header().Set("Content-Disposition", "attachment; filename*=UTF-8''"+url.PathEscape(filename))
	if _, err := w.Write(doc); err != nil {
		log.Error().Err(err).Str("export", name).Msg("csv write failed")
	}
}

func fmtFloat(v *float64) string {
	if v == nil {
		return ""
	}
	return strconv.FormatFloat(*v, 'f', -1, 64)
}

// StockCSVHandler exports the aggregated stock view:
// GET /api/stock/export_csv.
func StockCSVHandler(agg *aggregation.Aggregator) http.HandlerFunc {
	header := []string{"locationKind", "locationId", "label", "palletType", "qty"}
	return func(w http.ResponseWriter, r *http.Request) {
		stockRows, err := agg.Aggregate()
		if err != nil {
			http.Error(w, "Failed to aggregate stock for export", http.StatusInternalServerError)
			return
		}
		rows := make([][]string, 0, len(stockRows))
		for _, row := range stockRows {
			rows = append(rows, []string{
				string(row.LocationKind), row.LocationID, row.Label,
				row.PalletType, strconv.Itoa(row.Qty),
			})
		}
		writeCSV(w, r, "stock", header, rows)
	}
}

// MovementsCSVHandler exports the movement log:
// GET /api/movements/export_csv.
func MovementsCSVHandler(led *ledger.Ledger) http.HandlerFunc {
	header := []string{"ts", "code", "palletType", "qty", "fromKind", "fromId", "toKind", "toId", "note"}
	return func(w http.ResponseWriter, r *http.Request) {
		moves, err := led.Movements()
		if err != nil {
			http.Error(w, "Failed to list movements for export", http.StatusInternalServerError)
			return
		}
		rows := make([][]string, 0, len(moves))
		for _, m := range moves {
			rows = append(rows, []string{
				m.Ts.Format(time.RFC3339), m.Code, m.PalletType, strconv.Itoa(m.Qty),
				string(m.From.Kind), m.From.ID, string(m.To.Kind), m.To.ID, m.Note,
			})
		}
		writeCSV(w, r, "movimenti", header, rows)
	}
}

// HistoryCSVHandler exports the scan history log:
// GET /api/history/export_csv.
func HistoryCSVHandler(led *ledger.Ledger) http.HandlerFunc {
	header := []string{"ts", "code", "source", "declaredKind", "declaredId", "palletType", "qty", "lat", "lng", "accuracy"}
	return func(w http.ResponseWriter, r *http.Request) {
		history, err := led.History()
		if err != nil {
			http.Error(w, "Failed to list history for export", http.StatusInternalServerError)
			return
		}
		rows := make([][]string, 0, len(history))
		for _, h := range history {
			rows = append(rows, []string{
				h.Ts.Format(time.RFC3339), h.Code, string(h.Source),
				string(h.DeclaredKind), h.DeclaredID, h.PalletType, strconv.Itoa(h.Qty),
				fmtFloat(h.Lat), fmtFloat(h.Lng), fmtFloat(h.Accuracy),
			})
		}
		writeCSV(w, r, "storico_scan", header, rows)
	}
}
