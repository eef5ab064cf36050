package config

// Default configuration values.
const (
	DefaultDatabase = "decltree.db"
	DefaultParallel = true
	DefaultWorkers  = 0
)

func defaults() map[string]any {
	return map[string]any{
		"database": DefaultDatabase,
		"parallel": DefaultParallel,
		"workers":  DefaultWorkers,
	}
}

// ApplyDefaults fills unset values of c.
func ApplyDefaults(c *Config) {
	if c == nil {
		return
	}
	if c.Database == "" {
		c.Database = DefaultDatabase
	}
	c.Languages = splitLanguages(c.Languages)
}
