// Package config loads the ebs configuration file.
//
// # Configuration Discovery
//
// The Load function follows this resolution order:
//
//  1. If a path is explicitly provided, use it
//  2. Otherwise, use ~/.config/ebs/config.toml (default)
//  3. If the config file doesn't exist, fall back to defaults
//  4. If the file exists but fields are missing/empty, use defaults
//  5. EBS_* environment variables override whatever the file said
//
// LoadEnvFile reads a .env file into the environment beforehand, so local
// runs can keep overrides next to the checkout.
//
// # Default Values
//
//   - Config file: ~/.config/ebs/config.toml
//   - API URL: http://adamsweb.asuscomm.com:8080
//   - Previous search limit: 30
//   - Request timeout: 10s
//   - Log directory: ~/.local/share/ebs/logs
//   - TUI log: <log_dir>/ebs.log
//   - Trace export: <log_dir>/traces.jsonl (only with tracing = true)
//   - History database: ~/.local/share/ebs/history.db
//
// # TOML Format
//
//	api_url = "http://adamsweb.asuscomm.com:8080"
//	previous_search_limit = 30
//	request_timeout = "10s"
//	log_dir = "~/.local/share/ebs/logs"
//	log_level = "info"          # debug, info, warn, error
//	log_format = "text"         # text or json
//	tracing = false
//	history_path = "~/.local/share/ebs/history.db"
//	record_history = true
//	previous_searches = "remote" # remote or local
//
// # Environment Overrides
//
//   - EBS_API_URL
//   - EBS_LOG_LEVEL
//   - EBS_LOG_FORMAT
//   - EBS_TRACING (parsed with strconv.ParseBool)
//   - EBS_HISTORY_PATH
//
// # Error Handling
//
// Load returns errors for path expansion failures, read errors other than a
// missing file, TOML parse errors, malformed durations or environment values,
// and settings that fail Validate. Missing config files are NOT an error.
package config
