package config

import (
	"encoding/json"
	"os"
	"time"

	"github.com/secureballot/cli/internal/flagx"
	"github.com/secureballot/cli/internal/timex"
)

// JsonConfig is a DTO used exclusively for JSON unmarshalling. It relies on
// timex.Duration so JSON can specify intervals either as strings like "3s"
// or as integer nanoseconds. After parsing, values are copied into the
// runtime Config (which uses time.Duration).
type JsonConfig struct {
	APIBaseURL         string         `json:"api_base_url"`
	RequestTimeout     timex.Duration `json:"request_timeout"`
	SessionStorePath   string         `json:"session_store_path"`
	StoreWatchInterval timex.Duration `json:"store_watch_interval"`
}

// parseJson overlays Config with values loaded from a JSON file.
//
// The file path comes from the -c or -config flags via flagx.JsonConfigFlags;
// if empty, no JSON is loaded. Read or unmarshal errors panic (caller should
// recover if desired). Intended usage: defaults -> parseJson -> parseFlags,
// where later stages override earlier ones.
func parseJson(cfg *Config) {
	jsonConfigFile := flagx.JsonConfigFlags()
	if jsonConfigFile == "" {
		return
	}

	var jc JsonConfig

	data, err := os.ReadFile(jsonConfigFile)
	if err != nil {
		panic(err)
	}
	if err := json.Unmarshal(data, &jc); err != nil {
		panic(err)
	}

	cfg.APIBaseURL = jc.APIBaseURL
	cfg.RequestTimeout = time.Duration(jc.RequestTimeout.Duration)
	cfg.SessionStorePath = jc.SessionStorePath
	cfg.StoreWatchInterval = time.Duration(jc.StoreWatchInterval.Duration)
}
