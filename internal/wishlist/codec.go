package wishlist

import (
	"bytes"
	"encoding/json"
	"fmt"

	"github.com/cristianoliveira/appwish/internal/colors"
	"github.com/cristianoliveira/appwish/internal/domain"
)

// KeyApps is the storage key holding the serialized collection.
const KeyApps = "wishlist.apps"

// SchemaVersion is the current version of the persisted collection.
//
// Version history:
//
//	0: bare JSON array of apps (no envelope)
//	1: {"version":1,"apps":[...]}
const SchemaVersion = 1

type envelope struct {
	Version int                 `json:"version"`
	Apps    []domain.TrackedApp `json:"apps"`
}

// Encode serializes apps in the current schema.
func Encode(apps []domain.TrackedApp) ([]byte, error) {
	if apps == nil {
		apps = []domain.TrackedApp{}
	}
	data, err := json.Marshal(envelope{Version: SchemaVersion, Apps: apps})
	if err != nil {
		return nil, fmt.Errorf("encode wishlist: %w", err)
	}
	return data, nil
}

// Decode reads any known schema version. migrated reports whether the data
// was in an older version and should be written back.
func Decode(data []byte) (apps []domain.TrackedApp, migrated bool, err error) {
	data = bytes.TrimSpace(data)
	if len(data) == 0 {
		return []domain.TrackedApp{}, false, nil
	}

	var env envelope
	if data[0] == '[' {
		if err := json.Unmarshal(data, &env.Apps); err != nil {
			return nil, false, fmt.Errorf("decode wishlist (legacy): %w", err)
		}
		migrated = true
	} else {
		if err := json.Unmarshal(data, &env); err != nil {
			return nil, false, fmt.Errorf("decode wishlist: %w", err)
		}
		if env.Version > SchemaVersion {
			return nil, false, fmt.Errorf("decode wishlist: schema version %d is newer than supported version %d", env.Version, SchemaVersion)
		}
		migrated = env.Version < SchemaVersion
	}

	seen := make(map[int64]bool, len(env.Apps))
	apps = make([]domain.TrackedApp, 0, len(env.Apps))
	for _, app := range env.Apps {
		app.Normalize()
		if err := app.Validate(); err != nil {
			return nil, false, fmt.Errorf("decode wishlist: app %d: %w", app.ID, err)
		}
		if seen[app.ID] {
			colors.Warning(fmt.Sprintf("dropping duplicate wishlist entry for app %d", app.ID))
			migrated = true
			continue
		}
		seen[app.ID] = true
		apps = append(apps, app)
	}
	return apps, migrated, nil
}
