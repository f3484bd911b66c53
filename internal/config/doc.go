// Package config holds the project configuration: where entity and container
// files live, which keywords introduce blocks, which fields count for
// coverage and how the rules are tuned.
//
// Configuration is layered. Default returns the built-in values; Load
// overlays an optional HCL project file on top of them. Only the attributes
// present in the file replace a default. Expressions in the file are
// evaluated with an `env` object holding the process environment, so
//
//	entity {
//	  dir = "${env.LOOKML_ROOT}/views"
//	}
//
// works as expected. WriteTemplate renders the defaults as a commented
// starting point for a new project.
package config
