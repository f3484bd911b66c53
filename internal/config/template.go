package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"

	"github.com/hashicorp/hcl/v2/hclwrite"
	"github.com/zclconf/go-cty/cty"
)

// ErrConfigExists is returned by WriteTemplate when the target already exists.
var ErrConfigExists = errors.New("config file already exists")

// Template renders cfg as an HCL project file.
func Template(cfg *Config) []byte {
	f := hclwrite.NewEmptyFile()
	root := f.Body()

	entity := root.AppendNewBlock("entity", nil).Body()
	entity.SetAttributeValue("dir", cty.StringVal(cfg.Entity.Dir))
	entity.SetAttributeValue("patterns", stringList(cfg.Entity.Patterns))
	entity.SetAttributeValue("keyword", cty.StringVal(cfg.Entity.Keyword))
	root.AppendNewline()

	container := root.AppendNewBlock("container", nil).Body()
	container.SetAttributeValue("dir", cty.StringVal(cfg.Container.Dir))
	container.SetAttributeValue("patterns", stringList(cfg.Container.Patterns))
	container.SetAttributeValue("root_keyword", cty.StringVal(cfg.Container.RootKeyword))
	container.SetAttributeValue("join_keyword", cty.StringVal(cfg.Container.JoinKeyword))
	root.AppendNewline()

	fields := root.AppendNewBlock("fields", nil).Body()
	fields.SetAttributeValue("kinds", stringList(cfg.Fields.Kinds))
	fields.SetAttributeValue("primary_key_marker", cty.StringVal(cfg.Fields.PrimaryKeyMarker))
	root.AppendNewline()

	rules := root.AppendNewBlock("rules", nil).Body()
	rules.SetAttributeValue("disabled", stringList(cfg.Rules.Disabled))
	rules.SetAttributeValue("max_roots", cty.NumberIntVal(int64(cfg.Rules.MaxRoots)))
	rules.SetAttributeValue("max_entities", cty.NumberIntVal(int64(cfg.Rules.MaxEntities)))
	root.AppendNewline()

	scan := root.AppendNewBlock("scan", nil).Body()
	scan.SetAttributeValue("respect_gitignore", cty.BoolVal(cfg.Scan.RespectGitignore))
	scan.SetAttributeValue("cache_size", cty.NumberIntVal(int64(cfg.Scan.CacheSize)))

	return hclwrite.Format(f.Bytes())
}

// WriteTemplate writes the default configuration to path. It never
// overwrites an existing file.
func WriteTemplate(path string) error {
	out, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o644)
	if err != nil {
		if errors.Is(err, fs.ErrExist) {
			return fmt.Errorf("%w: %s", ErrConfigExists, path)
		}
		return fmt.Errorf("failed to create config file: %w", err)
	}
	defer out.Close()

	if _, err := out.Write(Template(Default())); err != nil {
		return fmt.Errorf("failed to write config file %s: %w", path, err)
	}
	return out.Close()
}

func stringList(items []string) cty.Value {
	if len(items) == 0 {
		return cty.ListValEmpty(cty.String)
	}
	vals := make([]cty.Value, len(items))
	for i, s := range items {
		vals[i] = cty.StringVal(s)
	}
	return cty.ListVal(vals)
}
