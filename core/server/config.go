package server

// Config holds configuration for the browse HTTP server.
type Config struct {
	// Port is the port where the server will listen.
	Port string `mapstructure:"port" default:"8080"`
	// PageSize is the default number of titles returned per page.
	PageSize int `mapstructure:"page_size" default:"50"`
	// MaxPageSize caps the per-request limit parameter.
	MaxPageSize int `mapstructure:"max_page_size" default:"500"`
}

// Limit clamps a requested page size to the configured bounds. Values at or
// below zero fall back to the default page size.
func (c Config) Limit(requested int) int {
	if requested <= 0 {
		return c.PageSize
	}
	if c.MaxPageSize > 0 && requested > c.MaxPageSize {
		return c.MaxPageSize
	}
	return requested
}
