package main

import (
	"net/http"
	"os"
	"os/exec"
	"runtime"

	_ "github.com/mattn/go-sqlite3"
	"github.com/rs/zerolog/log"

	"bancali/aggregation"
	"bancali/config"
	"bancali/ledger"
	"bancali/logs"
	"bancali/model"
	"bancali/registry"
	"bancali/store"
)

func main() {
	logs.New("./bancali.log", true)

	cfg, err := config.LoadConfig()
	if err != nil {
		log.Warn().Err(err).Msg("failed to load config file, using defaults")
		cfg = config.GetConfig()
	}

	st, err := store.Open(cfg.DatabasePath)
	if err != nil {
		log.Fatal().Err(err).Str("path", cfg.DatabasePath).Msg("store open failed")
	}
	defer st.Close()
	log.Info().Str("path", cfg.DatabasePath).Msg("store ready")

	reg := registry.New(st)
	// Each kind must have at least one entry before the first scan.
	for _, kind := range model.Kinds {
		if _, err := reg.GetOrCreateDefault(kind); err != nil {
			log.Fatal().Err(err).Str("kind", string(kind)).Msg("default location init failed")
		}
	}

	led := ledger.New(st, reg)
	led.SetCaps(cfg.HistoryCap, cfg.MovesCap)
	agg := aggregation.New(led, reg)

	mux := http.NewServeMux()

	if _, err := os.Stat("./static"); err == nil {
		mux.Handle("/", http.FileServer(http.Dir("./static")))
	}

	// The QR capture source is operator-side; no server-side source is
	// configured, so camera enumeration answers empty.
	SetupRoutes(mux, reg, led, agg, nil)

	url := "http://localhost" + cfg.ListenAddr
	log.Info().Str("addr", cfg.ListenAddr).Msgf("starting server on %s", url)

	if cfg.AutoOpenBrowser {
		openBrowser(url)
	}

	if err := http.ListenAndServe(cfg.ListenAddr, mux); err != nil {
		log.Fatal().Err(err).Msg("server start error")
	}
}

func openBrowser(url string) {
	var err error
	switch runtime.GOOS {
	case "windows":
		err = exec.Command("rundll32", "url.dll,FileProtocolHandler", url).Start()
	case "darwin":
		err = exec.Command("open", url).Start()
	default:
		err = exec.Command("xdg-open", url).Start()
	}
	if err != nil {
		log.Warn().Err(err).Msg("failed to open browser")
	}
}
