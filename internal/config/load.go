package config

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strings"

	"github.com/hashicorp/hcl/v2"
	"github.com/hashicorp/hcl/v2/gohcl"
	"github.com/hashicorp/hcl/v2/hclparse"
	"github.com/specialistvlad/lookmlaudit/internal/ctxlog"
	"github.com/zclconf/go-cty/cty"
)

// fileRoot mirrors the project file. Every block and attribute is optional;
// nil means "keep the default". Unknown blocks and attributes are errors.
type fileRoot struct {
	Entity    *entityBlock    `hcl:"entity,block"`
	Container *containerBlock `hcl:"container,block"`
	Fields    *fieldsBlock    `hcl:"fields,block"`
	Rules     *rulesBlock     `hcl:"rules,block"`
	Scan      *scanBlock      `hcl:"scan,block"`
}

type entityBlock struct {
	Dir      *string   `hcl:"dir,optional"`
	Patterns *[]string `hcl:"patterns,optional"`
	Keyword  *string   `hcl:"keyword,optional"`
}

type containerBlock struct {
	Dir         *string   `hcl:"dir,optional"`
	Patterns    *[]string `hcl:"patterns,optional"`
	RootKeyword *string   `hcl:"root_keyword,optional"`
	JoinKeyword *string   `hcl:"join_keyword,optional"`
}

type fieldsBlock struct {
	Kinds            *[]string `hcl:"kinds,optional"`
	PrimaryKeyMarker *string   `hcl:"primary_key_marker,optional"`
}

type rulesBlock struct {
	Disabled    *[]string `hcl:"disabled,optional"`
	MaxRoots    *int      `hcl:"max_roots,optional"`
	MaxEntities *int      `hcl:"max_entities,optional"`
}

type scanBlock struct {
	RespectGitignore *bool `hcl:"respect_gitignore,optional"`
	CacheSize        *int  `hcl:"cache_size,optional"`
}

// Load reads the HCL file at path over the defaults. A missing file yields an
// error wrapping fs.ErrNotExist; use LoadOrDefault when the file is optional.
func Load(ctx context.Context, path string) (*Config, error) {
	logger := ctxlog.FromContext(ctx)
	logger.Debug("Loading config file...", "path", path)

	if _, err := os.Stat(path); err != nil {
		return nil, fmt.Errorf("config file %s: %w", path, err)
	}

	parser := hclparse.NewParser()
	file, diags := parser.ParseHCLFile(path)
	if diags.HasErrors() {
		return nil, fmt.Errorf("failed to parse config file %s: %w", path, diags)
	}

	var root fileRoot
	diags = gohcl.DecodeBody(file.Body, EvalContext(os.Environ()), &root)
	if diags.HasErrors() {
		return nil, fmt.Errorf("failed to decode config file %s: %w", path, diags)
	}
	cfg := Default()
	root.apply(cfg)
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config file %s: %w", path, err)
	}

	logger.Debug("Config file loaded.", "path", path)
	return cfg, nil
}

// LoadOrDefault behaves like Load but falls back to Default when the file
// does not exist.
func LoadOrDefault(ctx context.Context, path string) (*Config, error) {
	cfg, err := Load(ctx, path)
	if errors.Is(err, fs.ErrNotExist) {
		ctxlog.FromContext(ctx).Debug("No config file found, using defaults.", "path", path)
		return Default(), nil
	}
	return cfg, err
}

// EvalContext exposes environ, in "KEY=value" form, as the `env` object.
// Keys that are not valid identifiers stay reachable as env["KEY"].
func EvalContext(environ []string) *hcl.EvalContext {
	vars := make(map[string]cty.Value, len(environ))
	for _, kv := range environ {
		k, v, ok := strings.Cut(kv, "=")
		if !ok || k == "" {
			continue
		}
		vars[k] = cty.StringVal(v)
	}
	env := cty.EmptyObjectVal
	if len(vars) > 0 {
		env = cty.ObjectVal(vars)
	}
	return &hcl.EvalContext{
		Variables: map[string]cty.Value{"env": env},
	}
}

func (r *fileRoot) apply(cfg *Config) {
	if b := r.Entity; b != nil {
		setString(&cfg.Entity.Dir, b.Dir)
		setStrings(&cfg.Entity.Patterns, b.Patterns)
		setString(&cfg.Entity.Keyword, b.Keyword)
	}
	if b := r.Container; b != nil {
		setString(&cfg.Container.Dir, b.Dir)
		setStrings(&cfg.Container.Patterns, b.Patterns)
		setString(&cfg.Container.RootKeyword, b.RootKeyword)
		setString(&cfg.Container.JoinKeyword, b.JoinKeyword)
	}
	if b := r.Fields; b != nil {
		setStrings(&cfg.Fields.Kinds, b.Kinds)
		setString(&cfg.Fields.PrimaryKeyMarker, b.PrimaryKeyMarker)
	}
	if b := r.Rules; b != nil {
		setStrings(&cfg.Rules.Disabled, b.Disabled)
		setInt(&cfg.Rules.MaxRoots, b.MaxRoots)
		setInt(&cfg.Rules.MaxEntities, b.MaxEntities)
	}
	if b := r.Scan; b != nil {
		if b.RespectGitignore != nil {
			cfg.Scan.RespectGitignore = *b.RespectGitignore
		}
		setInt(&cfg.Scan.CacheSize, b.CacheSize)
	}
}

func setString(dst *string, src *string) {
	if src != nil {
		*dst = *src
	}
}

func setStrings(dst *[]string, src *[]string) {
	if src != nil {
		*dst = append([]string{}, (*src)...)
	}
}

func setInt(dst *int, src *int) {
	if src != nil {
		*dst = *src
	}
}
