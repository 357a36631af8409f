// Package config loads marquee's TOML configuration file.
//
// # Configuration Discovery
//
// The Load function follows this resolution order:
//
//  1. If a path is explicitly provided, use it
//  2. Otherwise, use ~/.config/marquee/config.toml
//  3. If the config file doesn't exist, fall back to Default()
//  4. If the file exists but fields are missing or blank, use per-field defaults
//
// # TOML Format
//
//	api_url = "http://localhost:3000"
//	film_timeout = "5s"
//	requests_per_second = 10
//	fallback_catalog = "~/films.yaml"
//	log_file = "~/.local/state/marquee/marquee.log"
//	log_level = "info"
//
// Every field is optional. Tilde expansion is applied to fallback_catalog
// and log_file. A zero requests_per_second disables client-side throttling.
//
// # Error Handling
//
// Load returns errors for path expansion failures, read errors other than
// os.ErrNotExist, malformed TOML, and out-of-range values. Parse and value
// errors mention "parse config".
package config
