// Package config manages user-level settings stored at ~/.newt/config.yaml.
// Values can be overridden with NEWT_* environment variables. Keys cover the
// host default language, the package feed, update checks, locale, and extra
// template source folders.
package config
