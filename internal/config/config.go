package config

import (
	"errors"
	"fmt"
)

// DefaultFileName is the project file looked up when no path is given.
const DefaultFileName = "lookmlaudit.hcl"

// Config is the resolved configuration of one project.
type Config struct {
	Entity    Entity
	Container Container
	Fields    Fields
	Rules     Rules
	Scan      Scan
}

// Entity describes the entity (view) files.
type Entity struct {
	Dir      string
	Patterns []string
	Keyword  string
}

// Container describes the container (model) files.
type Container struct {
	Dir         string
	Patterns    []string
	RootKeyword string
	JoinKeyword string
}

// Fields selects the field blocks used for coverage and primary keys.
type Fields struct {
	Kinds            []string
	PrimaryKeyMarker string
}

// Rules tunes the assessment.
type Rules struct {
	Disabled    []string
	MaxRoots    int
	MaxEntities int
}

// Scan controls file discovery and caching.
type Scan struct {
	RespectGitignore bool
	CacheSize        int
}

// Default returns the built-in configuration.
func Default() *Config {
	return &Config{
		Entity: Entity{
			Dir:      "views",
			Patterns: []string{"*.view.lkml"},
			Keyword:  "view",
		},
		Container: Container{
			Dir:         "models",
			Patterns:    []string{"*.model.lkml"},
			RootKeyword: "explore",
			JoinKeyword: "join",
		},
		Fields: Fields{
			Kinds:            []string{"dimension", "measure"},
			PrimaryKeyMarker: "primary_key: yes",
		},
		Rules: Rules{
			MaxRoots:    75,
			MaxEntities: 150,
		},
		Scan: Scan{
			RespectGitignore: true,
			CacheSize:        4096,
		},
	}
}

// Validate reports every invalid setting at once.
func (c *Config) Validate() error {
	var errs []error
	check := func(ok bool, format string, args ...any) {
		if !ok {
			errs = append(errs, fmt.Errorf(format, args...))
		}
	}

	check(c.Entity.Dir != "", "entity.dir must not be empty")
	check(len(c.Entity.Patterns) > 0, "entity.patterns must not be empty")
	check(c.Entity.Keyword != "", "entity.keyword must not be empty")
	check(c.Container.Dir != "", "container.dir must not be empty")
	check(len(c.Container.Patterns) > 0, "container.patterns must not be empty")
	check(c.Container.RootKeyword != "", "container.root_keyword must not be empty")
	check(c.Container.JoinKeyword != "", "container.join_keyword must not be empty")
	check(c.Container.RootKeyword != c.Container.JoinKeyword, "container.root_keyword and container.join_keyword must differ, both are %q", c.Container.RootKeyword)
	check(len(c.Fields.Kinds) > 0, "fields.kinds must not be empty")
	check(c.Fields.PrimaryKeyMarker != "", "fields.primary_key_marker must not be empty")
	check(c.Rules.MaxRoots >= 0, "rules.max_roots must not be negative, got %d", c.Rules.MaxRoots)
	check(c.Rules.MaxEntities >= 0, "rules.max_entities must not be negative, got %d", c.Rules.MaxEntities)
	check(c.Scan.CacheSize > 0, "scan.cache_size must be positive, got %d", c.Scan.CacheSize)

	return errors.Join(errs...)
}
