package config

import "fmt"

// Validate reports configuration combinations that cannot start.
func (c Config) Validate() error {
	if len(c.JWTSecret) == 0 {
		return fmt.Errorf("missing required env JWT_SECRET")
	}
	switch c.StorageDriver {
	case StorageFile:
		if c.DataDir == "" {
			return fmt.Errorf("missing required env DATA_DIR")
		}
	case StorageSQLite:
		if c.SQLitePath == "" {
			return fmt.Errorf("missing required env SQLITE_PATH")
		}
	case StoragePostgres:
		if c.DatabaseURL == "" {
			return fmt.Errorf("missing required env DATABASE_URL")
		}
	default:
		return fmt.Errorf("unknown STORAGE_DRIVER %q", c.StorageDriver)
	}
	return nil
}
