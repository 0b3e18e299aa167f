// Package version reads the deploy version stamped into version.json by
// the release script. Missing or malformed files fall back to 0.0.0 so
// a dev checkout still boots.
package version

import (
	"encoding/json"
	"log"
	"os"
)

type Info struct {
	Name    string `json:"name"`
	Version string `json:"version"`
}

var fallback = Info{Name: "yemenflix-server", Version: "0.0.0"}

func Load() Info {
	data, err := os.ReadFile("version.json")
	if err != nil {
		log.Printf("warning: could not read version.json: %v", err)
		return fallback
	}
	var info Info
	if err := json.Unmarshal(data, &info); err != nil {
		log.Printf("warning: could not parse version.json: %v", err)
		return fallback
	}
	if info.Name == "" {
		info.Name = fallback.Name
	}
	return info
}
