// internal/view/render.go
//
// Central view engine: template lookup, func-map injection, and an LRU of
// parsed *template.Template* sets.
//
// Templates live at components/<comp>/templates/<tpl>.html, resolved
// against the site root configured by SetRoot.  All templates in the same
// directory are parsed as one set so sub-templates
// ({{ template "row" . }}) work out-of-the-box.
//
// execName() chooses the best template to execute:
//   - If the set contains "<name>.html", we run that (file has no define).
//   - Else we fall back to "<name>" (root template defined via {{ define }}).
//
// Callers pass the logical name (e.g. "login"); view.Render figures out
// the concrete template automatically.

package view

import (
	"html/template"
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"github.com/ibcgulf/circle/internal/cache"
)

//
// cache definitions
//

// CachePolicy hints how the caller wants this template cached.
type CachePolicy int

const (
	CacheDefault CachePolicy = iota // obey global TTL
	CacheSkip                       // never cache
	CacheForce                      // always cache (long TTL, reserved)
)

// Parsed template sets; tweak capacity when perf-testing.
var tmplLRU = cache.New(1024)

// rootDir anchors the components/ lookup path.  main() sets it once at
// boot, before the server accepts traffic.
var rootDir = "."

// SetRoot points the engine at the directory holding components/.
func SetRoot(p string) { rootDir = p }

//
// public helpers
//

// Render executes the template set and streams it to w.
//
// We first load (or parse) the appropriate template set, then execute the
// concrete template determined by execName().  This allows both:
//
//   - A simple file "login.html" with no {{ define }} block.  In that case
//     execName runs "login.html" automatically.
//   - A file that wraps markup in {{ define "login" }} … {{ end }} and relies
//     on that root template name.
//
// Either style works; developers can choose per component.
func Render(w http.ResponseWriter, comp, name string, data any, policy CachePolicy) error {
	t, err := load(comp, name, policy)
	if err != nil {
		return err
	}
	return t.ExecuteTemplate(w, execName(t, name), data)
}

//
// internal: load
//

// load finds and (if necessary) parses the template set for the given
// component and base name, obeying the provided cache policy.
func load(comp, name string, policy CachePolicy) (*template.Template, error) {
	key := strings.Join([]string{comp, name}, "::")

	if policy != CacheSkip {
		if v, ok := tmplLRU.Get(key); ok {
			return v.(*template.Template), nil
		}
	}

	base := filepath.Join(rootDir, "components", comp, "templates", name+".html")
	if _, err := os.Stat(base); err != nil {
		return nil, os.ErrNotExist
	}

	// Parse all *.html in the same directory so sub-templates work.
	dir := filepath.Dir(base)
	pattern := filepath.Join(dir, "*.html")

	t, err := template.New(name).Funcs(buildFuncMap()).ParseGlob(pattern)
	if err != nil {
		return nil, err
	}

	if policy != CacheSkip {
		tmplLRU.Add(key, t)
	}
	return t, nil
}

//
// func-map builders
//

func buildFuncMap() template.FuncMap {
	fm := template.FuncMap{
		"dict": dict,
	}
	for k, v := range uaFuncMap() { // UA helpers (browser/os parsing)
		fm[k] = v
	}
	return fm
}

//
// helpers
//

// execName picks the template name to execute.
//
// Priority:
//  1. If the set has "<name>.html" (file-based template), run that.
//  2. Otherwise, fall back to "<name>" (root template defined in code).
func execName(t *template.Template, name string) string {
	if tmpl := t.Lookup(name + ".html"); tmpl != nil {
		return name + ".html"
	}
	return name
}

// dict builds a map in templates: {{ dict "k" 1 "k2" "v" }}.
func dict(kv ...any) map[string]any {
	m := make(map[string]any, len(kv)/2)
	for i := 0; i+1 < len(kv); i += 2 {
		key, _ := kv[i].(string)
		m[key] = kv[i+1]
	}
	return m
}
