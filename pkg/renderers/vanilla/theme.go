package vanilla

import (
	"sort"
	"strings"

	theme "github.com/goliatone/go-theme"
)

// cssVarsStyle turns the theme's CSS custom properties into a :root style
// block. Returns "" when there is nothing to emit.
func cssVarsStyle(cfg *theme.RendererConfig) string {
	if cfg == nil || len(cfg.CSSVars) == 0 {
		return ""
	}

	names := make([]string, 0, len(cfg.CSSVars))
	for name := range cfg.CSSVars {
		if strings.TrimSpace(name) == "" {
			continue
		}
		names = append(names, name)
	}
	if len(names) == 0 {
		return ""
	}
	sort.Strings(names)

	var sb strings.Builder
	sb.WriteString(":root {\n")
	for _, name := range names {
		sb.WriteString("  ")
		sb.WriteString(name)
		sb.WriteString(": ")
		sb.WriteString(cfg.CSSVars[name])
		sb.WriteString(";\n")
	}
	sb.WriteString("}")
	return sb.String()
}
