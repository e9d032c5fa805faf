// Package app is the composition root for lunchbox.
//
// Run loads the config and preferences, opens the log file and the session
// storage, and hands the wired components to the UI:
//
//	┌──────────────┐
//	│   Run()      │
//	└──────┬───────┘
//	       ├─────> config.Load()          TOML config with defaults
//	       ├─────> newLogger()            hclog to a file, or discard
//	       ├─────> prefs.Load()           theme and language
//	       ├─────> mealdb.NewClient()     TheMealDB HTTP client
//	       ├─────> openStorage()          session files, memory on failure
//	       ├─────> favorites.Open()       favorites from session storage
//	       └─────> ui.Run()               TUI (blocks)
//
// Fatal errors are an unreadable config, an invalid API base and an unusable
// log file. An unusable session directory only costs persistence: favorites
// are then kept in memory for the run.
package app
