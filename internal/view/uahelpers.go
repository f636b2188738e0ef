// internal/view/uahelpers.go
//
// User‑Agent‑related template helpers.  Keyed off *requestinfo.RequestInfo
// so templates can branch on browser or device class without reparsing the
// header.
package view

import (
	"html/template"

	"github.com/ibcgulf/circle/internal/requestinfo"
)

// uaFuncMap returns helpers keyed off *requestinfo.RequestInfo.
func uaFuncMap() template.FuncMap {
	return template.FuncMap{
		"browser":        func(ri *requestinfo.RequestInfo) string { return ri.UA.Browser },
		"browserVersion": func(ri *requestinfo.RequestInfo) string { return ri.UA.Version },
		"os":             func(ri *requestinfo.RequestInfo) string { return ri.UA.OS },
		"osVersion":      func(ri *requestinfo.RequestInfo) string { return ri.UA.OSVersion },
		"device":         func(ri *requestinfo.RequestInfo) string { return ri.UA.Device },
		"platform":       func(ri *requestinfo.RequestInfo) string { return ri.UA.Platform },
		"isBot":          func(ri *requestinfo.RequestInfo) bool { return ri.UA.IsBot },
	}
}
