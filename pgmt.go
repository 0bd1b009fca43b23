// Package pgmt applies ordered PostgreSQL migrations from one or more
// directories of .sql files and records the outcome in a bookkeeping
// table so later runs can detect drift and resume correctly.
package pgmt

// Placeholders maps a lower-cased name to the text that replaces
// ${name} tokens in a migration script. Producers (the CLI's
// environment-variable collector) are expected to lower-case keys;
// this package only ever does exact, case-sensitive lookups.
type Placeholders map[string]string
