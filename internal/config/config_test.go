package config

import (
	"context"
	"io/fs"
	"os"
	"path/filepath"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), DefaultFileName)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestDefault_IsValid(t *testing.T) {
	t.Parallel()

	cfg := Default()

	require.NoError(t, cfg.Validate())
	assert.Equal(t, "views", cfg.Entity.Dir)
	assert.Equal(t, []string{"*.model.lkml"}, cfg.Container.Patterns)
	assert.Equal(t, "primary_key: yes", cfg.Fields.PrimaryKeyMarker)
	assert.True(t, cfg.Scan.RespectGitignore)
}

func TestValidate_ReportsEveryProblem(t *testing.T) {
	t.Parallel()

	cfg := Default()
	cfg.Entity.Dir = ""
	cfg.Container.JoinKeyword = cfg.Container.RootKeyword
	cfg.Scan.CacheSize = 0

	err := cfg.Validate()

	require.Error(t, err)
	assert.Contains(t, err.Error(), "entity.dir must not be empty")
	assert.Contains(t, err.Error(), "must differ")
	assert.Contains(t, err.Error(), "scan.cache_size must be positive")
}

func TestLoad_OverridesOnlyWhatIsSet(t *testing.T) {
	t.Parallel()

	path := writeConfig(t, `
entity {
  dir = "lookml/views"
}

rules {
  disabled  = ["large-project"]
  max_roots = 10
}

scan {
  respect_gitignore = false
}
`)

	cfg, err := Load(context.Background(), path)
	require.NoError(t, err)

	want := Default()
	want.Entity.Dir = "lookml/views"
	want.Rules.Disabled = []string{"large-project"}
	want.Rules.MaxRoots = 10
	want.Scan.RespectGitignore = false
	if diff := cmp.Diff(want, cfg); diff != "" {
		t.Errorf("config mismatch (-want +got):\n%s", diff)
	}
}

func TestLoad_EnvironmentVariables(t *testing.T) {
	t.Setenv("LOOKMLAUDIT_TEST_MODELS", "src/models")

	path := writeConfig(t, `
container {
  dir = env.LOOKMLAUDIT_TEST_MODELS
}
`)

	cfg, err := Load(context.Background(), path)
	require.NoError(t, err)
	assert.Equal(t, "src/models", cfg.Container.Dir)
}

func TestLoad_Errors(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		content string
		errMsg  string
	}{
		{
			name:    "syntax error",
			content: "entity {\n  dir = \n",
			errMsg:  "failed to parse config file",
		},
		{
			name:    "unknown attribute",
			content: "entity {\n  folder = \"views\"\n}\n",
			errMsg:  "failed to decode config file",
		},
		{
			name:    "unknown block",
			content: "output {}\n",
			errMsg:  "failed to decode config file",
		},
		{
			name:    "wrong type",
			content: "rules {\n  max_roots = \"many\"\n}\n",
			errMsg:  "failed to decode config file",
		},
		{
			name:    "invalid value",
			content: "fields {\n  kinds = []\n}\n",
			errMsg:  "fields.kinds must not be empty",
		},
	}
	for _, tc := range tests {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			_, err := Load(context.Background(), writeConfig(t, tc.content))
			require.Error(t, err)
			assert.Contains(t, err.Error(), tc.errMsg)
		})
	}
}

func TestLoad_MissingFile(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), DefaultFileName)

	_, err := Load(context.Background(), path)
	assert.ErrorIs(t, err, fs.ErrNotExist)

	cfg, err := LoadOrDefault(context.Background(), path)
	require.NoError(t, err)
	assert.Equal(t, Default(), cfg)
}

func TestLoadOrDefault_BrokenFileIsNotIgnored(t *testing.T) {
	t.Parallel()

	_, err := LoadOrDefault(context.Background(), writeConfig(t, "entity {"))
	assert.Error(t, err)
}

func TestTemplate_RoundTrip(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), DefaultFileName)
	require.NoError(t, WriteTemplate(path))

	cfg, err := Load(context.Background(), path)
	require.NoError(t, err)
	if diff := cmp.Diff(Default(), cfg, cmpopts.EquateEmpty()); diff != "" {
		t.Errorf("template does not load back to the defaults (-want +got):\n%s", diff)
	}
}

func TestWriteTemplate_NeverOverwrites(t *testing.T) {
	t.Parallel()

	path := writeConfig(t, "# mine\n")

	err := WriteTemplate(path)
	assert.ErrorIs(t, err, ErrConfigExists)

	content, readErr := os.ReadFile(path)
	require.NoError(t, readErr)
	assert.Equal(t, "# mine\n", string(content))
}

func TestEvalContext(t *testing.T) {
	t.Parallel()

	ctx := EvalContext([]string{"HOME=/root", "EMPTY=", "broken", "=nokey"})
	env := ctx.Variables["env"]

	assert.Equal(t, "/root", env.GetAttr("HOME").AsString())
	assert.Equal(t, "", env.GetAttr("EMPTY").AsString())
	assert.Len(t, env.AsValueMap(), 2)

	assert.True(t, EvalContext(nil).Variables["env"].Type().IsObjectType())
}
