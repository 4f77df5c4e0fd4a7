package config

import (
	"encoding/json"
	"os"
	"sync"
)

type Config struct {
	DatabasePath    string `json:"databasePath"`
	ListenAddr      string `json:"listenAddr"`
	HistoryCap      int    `json:"historyCap"`
	MovesCap        int    `json:"movesCap"`
	AutoOpenBrowser bool   `json:"autoOpenBrowser"`
}

var (
	cfg Config
	mu  sync.RWMutex
)

const configFilePath = "./bancali_config.json"

func applyDefaults(c *Config) {
	if c.DatabasePath == "" {
		c.DatabasePath = "./bancali.db"
	}
	if c.ListenAddr == "" {
		c.ListenAddr = ":8080"
	}
	if c.HistoryCap == 0 {
		c.HistoryCap = 5000
	}
	if c.MovesCap == 0 {
		c.MovesCap = 10000
	}
}

func LoadConfig() (Config, error) {
	mu.Lock()
	defer mu.Unlock()

	cfg = Config{AutoOpenBrowser: true}
	applyDefaults(&cfg)

	file, err := os.ReadFile(configFilePath)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return cfg, err
	}

	var tempCfg Config
	if err := json.Unmarshal(file, &tempCfg); err != nil {
		return cfg, err
	}
	applyDefaults(&tempCfg)
	cfg = tempCfg
	return cfg, nil
}

func SaveConfig(newCfg Config) error {
	mu.Lock()
	defer mu.Unlock()

	applyDefaults(&newCfg)

	file, err := json.MarshalIndent(newCfg, "", "  ")
	if err != nil {
		return err
	}
	if err := os.WriteFile(configFilePath, file, 0644); err != nil {
		return err
	}
	cfg = newCfg
	return nil
}

func GetConfig() Config {
	mu.RLock()
	defer mu.RUnlock()
	return cfg
}
