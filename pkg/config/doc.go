// Package config loads typed configuration from environment variables.
//
// It wraps github.com/joho/godotenv and github.com/caarlos0/env/v11:
//
//   - Load parses the environment into any struct using `env` tags and caches
//     the result per type, so each configuration is parsed once per process.
//   - The default .env in the working directory is read on first Load.
//   - LoadEnv reads explicit .env files; ForceReload and ResetCache help tests.
//
// App holds the settings of the report service itself. Storage, email and lock
// settings are declared by their own packages and loaded the same way.
//
// # Usage
//
//	var app config.App
//	config.MustLoad(&app)
//
//	loc, err := app.Location()
//	if err != nil {
//	    return err
//	}
//
//	var pgCfg postgres.Config
//	if err := config.Load(&pgCfg); err != nil {
//	    return err
//	}
//
// Empty variables with an `envDefault` tag fall back to the default.
//
// # Error Handling
//
// Parse failures wrap ErrParsingConfig and are not cached, so a later Load
// sees a corrected environment. App.Location returns ErrInvalidTimezone for
// an unknown TZ value.
package config
