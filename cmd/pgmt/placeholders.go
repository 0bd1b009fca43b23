package main

import (
	"os"
	"strings"

	"github.com/metagram-net/pgmt"
)

// placeholderEnvPrefix is the prefix the migrate command strips from
// environment variables to build the placeholder map the core engine
// receives as a finished key->value mapping.
const placeholderEnvPrefix = "PGMT_PLACEHOLDERS_"

// placeholdersFromEnvironment collects every PGMT_PLACEHOLDERS_<NAME>
// variable into a pgmt.Placeholders map keyed by <NAME> lower-cased.
func placeholdersFromEnvironment(environ []string) pgmt.Placeholders {
	out := make(pgmt.Placeholders)
	for _, kv := range environ {
		key, value, ok := strings.Cut(kv, "=")
		if !ok {
			continue
		}
		name, ok := strings.CutPrefix(key, placeholderEnvPrefix)
		if !ok {
			continue
		}
		out[strings.ToLower(name)] = value
	}
	return out
}

func collectPlaceholders() pgmt.Placeholders {
	return placeholdersFromEnvironment(os.Environ())
}
