package config

// EntityConfig configures the database entity casts resolve against. Tables maps
// entity names to table names, an entity without mapping uses its own name.
type EntityConfig struct {
	Driver string
	DSN    string `mapstructure:"dsn"`
	Tables map[string]string
}

func (c *EntityConfig) Enabled() bool {
	return "" != c.Driver && "" != c.DSN
}
