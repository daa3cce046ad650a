package driver

import "os"

// DefaultTokenKey is the environment entry holding the plugin token.
const DefaultTokenKey = "PLUGIN_TOKEN"

// EnvCredentials reads the bearer token from the process environment on every
// call, so a rotated token is picked up without a restart.
type EnvCredentials struct {
	Key string

	// LookupEnv defaults to os.LookupEnv.
	LookupEnv func(string) (string, bool)
}

func NewEnvCredentials(key string) *EnvCredentials {
	if key == "" {
		key = DefaultTokenKey
	}
	return &EnvCredentials{Key: key, LookupEnv: os.LookupEnv}
}

func (c *EnvCredentials) Resolve() string {
	lookup := c.LookupEnv
	if lookup == nil {
		lookup = os.LookupEnv
	}
	token, _ := lookup(c.Key)
	return token
}
