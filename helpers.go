package pressfront

import (
	"os"
	"strconv"
	"strings"
)

// absURL makes a site-relative link, query included, absolute.
func (a *App) absURL(link string) string {
	return strings.TrimSuffix(a.Config.URL, "/") + link
}

// FilterEmpty removes empty/whitespace-only strings from a slice.
func FilterEmpty(vals []string) []string {
	var out []string
	for _, v := range vals {
		if s := strings.TrimSpace(v); s != "" {
			out = append(out, s)
		}
	}
	return out
}

// EnvOr returns the value of the environment variable key, or fallback if empty.
func EnvOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func statusText(code int) string {
	return strconv.Itoa(code)
}
