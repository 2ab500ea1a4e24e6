// Package config turns the user-facing render options into a validated
// vidrender.Config.
//
// Options are read from YAML (or built in code with Ptr) and resolved
// against the source stream:
//
//	opts, err := config.Load("render.yaml")
//	if err != nil {
//		return err
//	}
//	cfg, err := config.Resolve(opts, clip.Info())
//
// An unset option takes its value from the selected preset (default, fast
// or high_quality) and otherwise from the documented default. Without a
// preset every optional processing step is disabled.
package config
