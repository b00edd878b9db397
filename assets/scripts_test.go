package assets_test

import (
	"encoding/json"
	"testing"

	"github.com/grafana/sobek"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bnema/arkium/assets"
	"github.com/bnema/arkium/internal/domain/theme"
)

// evalJSON runs prelude then script and decodes the script's result the
// way the engine does: through JSON.
func evalJSON(t *testing.T, prelude, script string, out any) {
	t.Helper()
	vm := sobek.New()
	_, err := vm.RunString(prelude)
	require.NoError(t, err)

	result, err := vm.RunString(script)
	require.NoError(t, err)
	require.NoError(t, vm.Set("__result", result))

	encoded, err := vm.RunString("JSON.stringify(__result)")
	require.NoError(t, err)
	require.NoError(t, json.Unmarshal([]byte(encoded.String()), out))
}

const probePage = `
var location = { href: "https://a.test/page" };
var getComputedStyle = function (el) { return { backgroundColor: el.bg }; };
var document = {
  body: { bg: "rgb(250, 250, 250)" },
  documentElement: { bg: "rgba(0, 0, 0, 0)" },
  querySelector: function (sel) {
    if (sel !== 'meta[name="theme-color"]') return null;
    return { getAttribute: function () { return "  #1e1e2e "; } };
  },
};
`

func TestProbeScript(t *testing.T) {
	var probe theme.Probe
	evalJSON(t, probePage, assets.ProbeScript, &probe)

	assert.Equal(t, theme.Probe{
		URL:                "https://a.test/page",
		MetaThemeColor:     "#1e1e2e",
		BodyBackground:     "rgb(250, 250, 250)",
		DocumentBackground: "rgba(0, 0, 0, 0)",
	}, probe)
	assert.Equal(t, "#1E1E2E", theme.Analyze(probe).Background)
}

func TestProbeScript_NoDocument(t *testing.T) {
	var probe theme.Probe
	evalJSON(t, "", assets.ProbeScript, &probe)

	assert.Equal(t, theme.Probe{}, probe)
}

const extractPage = `
var removed = [];
function el(name, text) {
  return { name: name, innerText: text, remove: function () { removed.push(name); } };
}
var main = el("main", "  Hello,\n\n   world.  ");
var body = {
  cloneNode: function () {
    return {
      querySelectorAll: function (sel) {
        if (sel === "nav") return [el("nav", "Menu")];
        if (sel === "script") return [el("script", "x()")];
        return [];
      },
      querySelector: function (sel) { return sel === "main, article" ? main : null; },
      innerText: "Menu Hello, world.",
    };
  },
};
var location = { href: "https://a.test/article" };
var document = { title: "An Article", body: body };
`

func TestExtractScript(t *testing.T) {
	var got struct {
		URL   string `json:"url"`
		Title string `json:"title"`
		Text  string `json:"text"`
	}
	evalJSON(t, extractPage, assets.ExtractScript, &got)

	assert.Equal(t, "https://a.test/article", got.URL)
	assert.Equal(t, "An Article", got.Title)
	assert.Equal(t, "Hello, world.", got.Text)
}

func TestExtractScript_BrokenPage(t *testing.T) {
	var got map[string]string
	evalJSON(t, "", assets.ExtractScript, &got)

	assert.Equal(t, map[string]string{"url": "", "title": "", "text": ""}, got)
}

func TestAgentScript_InstallsOnce(t *testing.T) {
	vm := sobek.New()
	_, err := vm.RunString(`var window = { __arkiumAgent: true };`)
	require.NoError(t, err)

	_, err = vm.RunString(assets.AgentScript)
	assert.NoError(t, err)
}
