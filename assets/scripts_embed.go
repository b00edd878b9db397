package assets

import _ "embed"

// Page scripts evaluated in surfaces.

// ProbeScript returns {url, metaThemeColor, bodyBackground, documentBackground}.
//
//go:embed scripts/probe.js
var ProbeScript string

// ExtractScript returns {url, title, text} with navigation chrome stripped.
//
//go:embed scripts/extract.js
var ExtractScript string

// AgentScript is installed on every new document. It reports titles and
// login forms through the host binding.
//
//go:embed scripts/agent.js
var AgentScript string

// AgentBinding is the name of the host binding AgentScript calls.
const AgentBinding = "__arkiumHost"
