package app

import (
	"errors"
	"html/template"
	"net/url"
	"strconv"
	"time"
	"unicode/utf8"
)

func funcs(basePath string) template.FuncMap {
	return template.FuncMap{
		"path": func(p string) string {
			return basePath + p
		},
		"pageURL": func(p string, page int, query string) string {
			v := url.Values{}
			if page > 1 {
				v.Set("page", strconv.Itoa(page))
			}
			if query != "" {
				v.Set("q", query)
			}
			if enc := v.Encode(); enc != "" {
				return basePath + p + "?" + enc
			}
			return basePath + p
		},
		"truncate": truncate,
		"dict":     dict,
		"date": func(t time.Time) string {
			if t.IsZero() {
				return ""
			}
			return t.Format("Jan 2, 2006")
		},
	}
}

// truncate shortens s to at most n runes, appending an ellipsis when cut.
func truncate(s string, n int) string {
	if utf8.RuneCountInString(s) <= n {
		return s
	}
	runes := []rune(s)
	return string(runes[:n]) + "…"
}

// dict builds a map from alternating key and value arguments so templates can
// pass several values to a nested template.
func dict(pairs ...any) (map[string]any, error) {
	if len(pairs)%2 != 0 {
		return nil, errors.New("dict requires key and value pairs")
	}
	m := make(map[string]any, len(pairs)/2)
	for i := 0; i < len(pairs); i += 2 {
		key, ok := pairs[i].(string)
		if !ok {
			return nil, errors.New("dict keys must be strings")
		}
		m[key] = pairs[i+1]
	}
	return m, nil
}
