// Package config loads templar configuration.
//
// Sources are layered with koanf, later ones overriding earlier ones:
// the embedded defaults, the user config under XDG_CONFIG_HOME, a project
// templar.toml (or an explicit file) and TEMPLAR_ environment variables.
package config
