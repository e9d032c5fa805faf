// Package config loads lunchbox's TOML configuration.
//
// # Configuration Discovery
//
// Load follows this resolution order:
//
//  1. If a path is explicitly provided, use it
//  2. Otherwise, use ~/.config/lunchbox/config.toml
//  3. If the file doesn't exist, fall back to defaults
//  4. If the file exists but fields are missing or blank, use defaults
//
// # TOML Format
//
//	api_base        = "https://www.themealdb.com/api/json/v1/1/"
//	request_timeout = ""        # Go duration; empty means no timeout
//	stale_results   = "drop"    # or "apply"
//	session_dir     = "/run/user/1000/lunchbox"
//	session_id      = ""        # defaults to $LUNCHBOX_SESSION, then the parent pid
//	log_file        = "~/.local/state/lunchbox/lunchbox.log"
//	log_level       = "info"
//
// Setting log_file to an empty string disables file logging.
//
// # Session Scope
//
// Favorites live only as long as the session. The default session directory
// is under XDG_RUNTIME_DIR, which is removed at logout. The default session id
// is the parent process, so a new shell starts with an empty favorites list.
//
// Missing config files are NOT an error. Invalid TOML or unparseable values
// are reported as "parse config" errors.
package config
