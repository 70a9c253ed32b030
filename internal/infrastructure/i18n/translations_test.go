package i18n

import (
	"testing"

	"github.com/pelletier/go-toml/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/text/language"
)

func TestTranslator_T(t *testing.T) {
	tr, err := NewTranslator("en", nil)
	require.NoError(t, err)

	data := map[string]any{"Phrase": "Save", "Previous": "Spar", "Value": "Spara"}
	assert.Equal(t, "  ~ Save: Spar → Spara", tr.T("en", "report.updated", data))
	assert.Equal(t, "Skrev Localizable.xcstrings", tr.T("sv", "report.written", map[string]any{"Path": "Localizable.xcstrings"}))

	// Unknown language falls back to the default one.
	assert.Equal(t, "Wrote x", tr.T("fr", "report.written", map[string]any{"Path": "x"}))
	// Unknown key falls back to the key.
	assert.Equal(t, "report.nope", tr.T("sv", "report.nope", nil))
	assert.Equal(t, "", tr.T("sv", "", nil))
}

func TestTranslator_Plural(t *testing.T) {
	tr, err := NewTranslator("en", nil)
	require.NoError(t, err)

	tests := []struct {
		lang  string
		count int
		want  string
	}{
		{lang: "en", count: 1, want: "1 phrase added or updated"},
		{lang: "en", count: 3, want: "3 phrases added or updated"},
		{lang: "sv", count: 1, want: "1 fras tillagd eller uppdaterad"},
		{lang: "sv", count: 0, want: "0 fraser tillagda eller uppdaterade"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, tr.Plural(tt.lang, "report.summary.changed", tt.count, nil), "%s/%d", tt.lang, tt.count)
	}

	got := tr.Plural("en", "batches.line", 2, map[string]any{
		"Name": "core", "Locale": "sv", "Policy": "keep", "Description": "Base strings.",
	})
	assert.Equal(t, "core: 2 phrases for sv, keep. Base strings.", got)
}

func TestTranslator_Languages(t *testing.T) {
	tr, err := NewTranslator("sv", nil)
	require.NoError(t, err)
	assert.ElementsMatch(t, []language.Tag{language.English, language.Swedish}, tr.Languages())

	_, err = NewTranslator("??", nil)
	assert.Error(t, err)
}

func TestMessageFilesHaveTheSameKeys(t *testing.T) {
	keys := func(file string) []string {
		data, err := localeFS.ReadFile(file)
		require.NoError(t, err)
		var raw map[string]any
		require.NoError(t, toml.Unmarshal(data, &raw))
		out := make([]string, 0, len(raw))
		for k := range raw {
			out = append(out, k)
		}
		return out
	}
	en := keys("active.en.toml")
	assert.NotEmpty(t, en)
	assert.ElementsMatch(t, en, keys("active.sv.toml"))
}

func TestTranslator_EveryMessageResolves(t *testing.T) {
	tr, err := NewTranslator("en", nil)
	require.NoError(t, err)

	for _, file := range messageFiles {
		data, err := localeFS.ReadFile(file)
		require.NoError(t, err)
		var raw map[string]any
		require.NoError(t, toml.Unmarshal(data, &raw))

		lang := "en"
		if file == "active.sv.toml" {
			lang = "sv"
		}
		for key, v := range raw {
			switch v.(type) {
			case string:
				assert.NotEqual(t, key, tr.T(lang, key, nil), "%s: %s", file, key)
			case map[string]any:
				assert.NotEqual(t, key, tr.Plural(lang, key, 2, nil), "%s: %s", file, key)
			default:
				t.Errorf("%s: %s has unexpected type %T", file, key, v)
			}
		}
	}

	// Flat messages are not swallowed by a plural table.
	assert.Equal(t, "Error: boom", tr.T("en", "error.generic", map[string]any{"Detail": "boom"}))
	assert.Equal(t, "2 of 3 entries translated to sv", tr.T("en", "stats.coverage", map[string]any{"Translated": 2, "Total": 3, "Locale": "sv"}))
}
