package types

import "time"

const (
	// DefaultTemplateID is applied when create_report does not specify a
	// template. It matches a stock template shipped with the backing API.
	DefaultTemplateID = "67b1dac12c8d23272ad47cbd"

	// ReadTimeout bounds GET and DELETE calls to the backing API.
	ReadTimeout = 10 * time.Second
	// WriteTimeout bounds POST and PUT calls. Writes carry larger payloads
	// and may take longer upstream.
	WriteTimeout = 15 * time.Second

	// TokenEnvVar names the environment variable holding the default
	// bearer credential. Its absence is not fatal; each call may supply
	// its own bearerToken.
	TokenEnvVar = "PENTEST_MCP_TOKEN"
)
