// Package configs loads envsync settings.
//
// Settings are layered, later layers overriding earlier ones:
//
//   - Built-in defaults
//   - The TOML config file (envsync.toml by default), if present
//   - ENVSYNC_* environment variables, e.g. ENVSYNC_TOKEN or ENVSYNC_API_URL
//
// When no token or repository is configured, the GitHub Actions variables
// GITHUB_TOKEN and GITHUB_REPOSITORY ("owner/repo") are used, so the tool
// works unchanged inside a workflow.
//
// # Settings
//
//	owner               = "acme"
//	repository          = "infrastructure"
//	token               = "..."            # prefer ENVSYNC_TOKEN
//	api_url             = "https://api.github.com"
//	timeout             = "30s"
//	requests_per_second = 5
//	ignore_remote       = ["CODECOV_*"]
//	snapshot_dir        = "."
//	audit_log           = ".envsync/audit.jsonl"
//
// Use WriteSample to create a starting config file.
package configs
