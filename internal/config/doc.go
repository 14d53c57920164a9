// Package config loads storefront's startup configuration.
//
// # Configuration Discovery
//
// The Load function follows this resolution order:
//
//  1. If a path is explicitly provided, use it
//  2. Otherwise, use ~/.config/storefront/config.toml (default)
//  3. If the config file doesn't exist, fall back to built-in defaults
//  4. Blank or missing fields keep their defaults
//  5. STOREFRONT_* environment variables override the file
//
// Command-line flags are applied by the caller on top of the result.
//
// # File Formats
//
// Files ending in .yaml or .yml are parsed as YAML; anything else as TOML.
//
//	api_base = "https://dummyjson.com"
//	page_limit = 100
//	locale = "en"
//	request_timeout = "10s"
//	log_file = "~/.local/state/storefront/storefront.log"
//	log_level = "info"
//
// # Environment
//
//   - STOREFRONT_API_BASE
//   - STOREFRONT_PAGE_LIMIT
//   - STOREFRONT_LOCALE (BCP 47 tag used to collate titles)
//   - STOREFRONT_REQUEST_TIMEOUT (Go duration)
//   - STOREFRONT_LOG_FILE
//   - STOREFRONT_LOG_LEVEL
//
// Missing config files are not an error. Parse failures, a non-positive
// page limit or timeout, and an unparsable locale are.
package config
