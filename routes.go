package main

import (
	"net/http"

	"bancali/aggregation"
	"bancali/export"
	"bancali/ledger"
	"bancali/registry"
	"bancali/scan"
)

func SetupRoutes(mux *http.ServeMux, reg *registry.Registry, led *ledger.Ledger, agg *aggregation.Aggregator, src scan.Source) {

	mux.HandleFunc("/api/locations", registry.LocationsHandler(reg))
	mux.HandleFunc("/api/locations/update", registry.UpdateLocationHandler(reg))
	mux.HandleFunc("/api/locations/delete/", registry.DeleteLocationHandler(reg))

	mux.HandleFunc("/api/pallets", ledger.ListPalletsHandler(led))
	mux.HandleFunc("/api/pallets/by_code/", ledger.FindPalletHandler(led))
	mux.HandleFunc("/api/pallets/delete/", ledger.DeletePalletHandler(led))
	mux.HandleFunc("/api/pallet_types", ledger.PalletTypesHandler())

	mux.HandleFunc("/api/scan/apply", ledger.ApplyScanMoveHandler(led))
	mux.HandleFunc("/api/scan/record", ledger.RecordScanHandler(led))
	mux.HandleFunc("/api/scan/position", ledger.AttachPositionHandler(led))
	mux.HandleFunc("/api/scan/last", ledger.LastScanHandler(led))
	mux.HandleFunc("/api/scan/cameras", scan.CamerasHandler(src))

	mux.HandleFunc("/api/history", ledger.HistoryHandler(led))
	mux.HandleFunc("/api/history/clear", ledger.ClearHistoryHandler(led))
	mux.HandleFunc("/api/history/export_csv", export.HistoryCSVHandler(led))

	mux.HandleFunc("/api/movements", ledger.MovementsHandler(led))
	mux.HandleFunc("/api/movements/clear", ledger.ClearMovementsHandler(led))
	mux.HandleFunc("/api/movements/export_csv", export.MovementsCSVHandler(led))

	mux.HandleFunc("/api/stock", aggregation.StockHandler(agg))
	mux.HandleFunc("/api/stock/export_csv", export.StockCSVHandler(agg))

	mux.HandleFunc("/api/config", func(w http.ResponseWriter, r *http.Request) {
		switch r.Method {
		case http.MethodGet:
			GetConfigHandler()(w, r)
		case http.MethodPost:
			SaveConfigHandler()(w, r)
		default:
			http.Error(w, "Method Not Allowed", http.StatusMethodNotAllowed)
		}
	})
}
