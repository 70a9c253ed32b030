package cli

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const doneCatalog = `{
  "sourceLanguage" : "en",
  "strings" : {
    "Done" : {
      "localizations" : {
        "sv" : {
          "stringUnit" : {
            "state" : "translated",
            "value" : "Klar"
          }
        }
      }
    }
  },
  "version" : "1.0"
}
`

type run struct {
	code   int
	stdout string
	stderr string
}

// workspace isolates a test in a temp dir holding a catalog.
func workspace(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	t.Chdir(dir)
	for _, key := range []string{"XCMERGE_HISTORY_DATABASE_URL", "XCMERGE_DISCORD_WEBHOOK_URL", "XCMERGE_CATALOG", "XCMERGE_LOCALE", "XCMERGE_POLICY", "XCMERGE_REPORT_LANG"} {
		t.Setenv(key, "")
	}
	require.NoError(t, os.WriteFile(filepath.Join(dir, "Localizable.xcstrings"), []byte(doneCatalog), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "extra.yaml"), []byte("translations:\n  Save: Spara\n  Done: Klar\n"), 0o644))
	return dir
}

func execute(t *testing.T, args ...string) run {
	t.Helper()
	var stdout, stderr bytes.Buffer
	a, err := NewApp(&stdout, &stderr)
	require.NoError(t, err)
	code := a.Run(context.Background(), args)
	return run{code: code, stdout: stdout.String(), stderr: stderr.String()}
}

func TestMerge_WritesAndReports(t *testing.T) {
	dir := workspace(t)

	r := execute(t, "merge", "--file", "extra.yaml")
	require.Equal(t, 0, r.code, r.stderr)
	assert.Equal(t, `extra.yaml → sv (overwrite)
  + Save → Spara
  = Done (already translated)
1 phrase added or updated
1 phrase skipped
Catalog holds 2 entries
Wrote Localizable.xcstrings
`, r.stdout)

	got, err := os.ReadFile(filepath.Join(dir, "Localizable.xcstrings"))
	require.NoError(t, err)
	assert.Contains(t, string(got), `"Save" : {`)
	assert.Contains(t, string(got), `"extractionState" : "manual"`)

	r = execute(t, "merge", "-q", "extra.yaml")
	require.Equal(t, 0, r.code, r.stderr)
	assert.Equal(t, "0 phrases added or updated\n2 phrases skipped\nCatalog holds 2 entries\nNo changes, Localizable.xcstrings left untouched\n", r.stdout)
}

func TestMerge_DryRunLeavesCatalog(t *testing.T) {
	dir := workspace(t)

	r := execute(t, "merge", "--batch", "hardcoded-strings", "--dry-run", "--quiet", "--lang", "sv")
	require.Equal(t, 0, r.code, r.stderr)
	assert.Contains(t, r.stdout, "27 fraser tillagda eller uppdaterade")
	assert.Contains(t, r.stdout, "Provkörning, Localizable.xcstrings skrevs inte.")
	assert.Contains(t, r.stdout, `"API Key": {`)

	got, err := os.ReadFile(filepath.Join(dir, "Localizable.xcstrings"))
	require.NoError(t, err)
	assert.Equal(t, doneCatalog, string(got))
}

func TestMerge_Failures(t *testing.T) {
	workspace(t)

	tests := []struct {
		name string
		args []string
		want string
	}{
		{name: "nothing to merge", args: []string{"merge"}, want: "Nothing to merge"},
		{name: "unknown batch", args: []string{"merge", "--batch", "nope"}, want: "Unknown batch"},
		{name: "unknown format", args: []string{"merge", "extra.csv"}, want: "Unsupported request file"},
		{name: "missing catalog", args: []string{"merge", "--catalog", "missing.xcstrings", "extra.yaml"}, want: "Could not read the catalog"},
		{name: "bad policy", args: []string{"merge", "--policy", "merge", "extra.yaml"}, want: "config: policy"},
		{name: "unknown flag", args: []string{"merge", "--force"}, want: "Error: unknown flag: --force"},
		{name: "history disabled", args: []string{"history"}, want: "Run history is disabled"},
		{name: "migrate disabled", args: []string{"migrate"}, want: "Run history is disabled"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := execute(t, tt.args...)
			assert.Equal(t, 1, r.code)
			assert.Contains(t, r.stderr, tt.want)
			assert.Empty(t, r.stdout)
		})
	}
}

func TestMerge_ShapeErrorLeavesFile(t *testing.T) {
	dir := workspace(t)
	path := filepath.Join(dir, "Broken.xcstrings")
	require.NoError(t, os.WriteFile(path, []byte(`{"version": "1.0"}`), 0o644))

	r := execute(t, "merge", "--catalog", path, "extra.yaml")
	assert.Equal(t, 1, r.code)
	assert.Contains(t, r.stderr, "the file is not a string catalog")

	got, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, `{"version": "1.0"}`, string(got))
}

func TestBatchesCommand(t *testing.T) {
	workspace(t)

	r := execute(t, "batches")
	require.Equal(t, 0, r.code, r.stderr)
	lines := strings.Split(strings.TrimSpace(r.stdout), "\n")
	require.Len(t, lines, 4)
	assert.True(t, strings.HasPrefix(lines[0], "core: 102 phrases for sv, keep."), lines[0])
	assert.True(t, strings.HasPrefix(lines[1], "explore: 14 phrases for sv."), lines[1])
}

func TestStatsCommand(t *testing.T) {
	workspace(t)
	require.Equal(t, 0, execute(t, "merge", "extra.yaml").code)
	require.NoError(t, os.WriteFile("more.json", []byte(`{"locale": "de", "translations": {"Save": "Sichern"}}`), 0o644))
	require.Equal(t, 0, execute(t, "merge", "more.json").code)

	r := execute(t, "stats", "--missing", "--locale", "de")
	require.Equal(t, 0, r.code, r.stderr)
	assert.Equal(t, "1 of 2 entries translated to de\n1 entry missing:\n  Done\n", r.stdout)

	r = execute(t, "stats")
	require.Equal(t, 0, r.code, r.stderr)
	assert.Equal(t, "2 of 2 entries translated to sv\n", r.stdout)
}

func TestMerge_NullTranslationLeavesCatalog(t *testing.T) {
	dir := workspace(t)
	require.NoError(t, os.WriteFile("typo.yaml", []byte("translations:\n  \"Save\": Spara\n  \"Done\":\n"), 0o644))
	require.NoError(t, os.WriteFile("typo.json", []byte(`{"translations": {"Done": null}}`), 0o644))

	for _, file := range []string{"typo.yaml", "typo.json"} {
		r := execute(t, "merge", file)
		assert.Equal(t, 1, r.code, file)
		assert.Contains(t, r.stderr, "Invalid translation", file)
		assert.Contains(t, r.stderr, `"Done" is null`, file)
	}

	got, err := os.ReadFile(filepath.Join(dir, "Localizable.xcstrings"))
	require.NoError(t, err)
	assert.Equal(t, doneCatalog, string(got))
}
