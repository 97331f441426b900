package admin

import "context"

type SettingsRepository interface {
	// Get returns (nil, nil) when no settings row has been saved.
	Get(ctx context.Context) (*ClinicSettings, error)
	Save(ctx context.Context, s *ClinicSettings) error
}

// DataRepository exports and clears whole datasets for admin tooling.
type DataRepository interface {
	DumpTable(ctx context.Context, table string) ([]map[string]interface{}, error)
	DeleteAll(ctx context.Context, tables ...string) error
}
