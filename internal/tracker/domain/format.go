package domain

import (
	"net/url"
	"strconv"
	"strings"
)

// NormalizeURL returns the duplicate-detection key for a job URL: scheme and
// host are lowercased and a trailing slash on the path is dropped. Path and
// query stay case-sensitive. Blank input yields "".
func NormalizeURL(raw string) string {
	s := strings.TrimSpace(raw)
	if s == "" {
		return ""
	}

	u, err := url.Parse(s)
	if err != nil || u.Host == "" {
		return strings.TrimSuffix(s, "/")
	}

	u.Scheme = strings.ToLower(u.Scheme)
	u.Host = strings.ToLower(u.Host)
	u.Path = strings.TrimSuffix(u.Path, "/")
	u.RawPath = strings.TrimSuffix(u.RawPath, "/")
	return u.String()
}

var salaryMarkers = []string{"K", "k", "$", "€", "£", "-", "CHF", "USD", "EUR"}

// FormatSalary renders salary_range for display. Text that already carries a
// unit or range passes through; a bare number gets a K suffix, with values of
// 1000 and above divided by 1000 first.
func FormatSalary(raw string) string {
	cleaned := strings.TrimSpace(raw)
	if cleaned == "" {
		return ""
	}

	for _, marker := range salaryMarkers {
		if strings.Contains(cleaned, marker) {
			return raw
		}
	}

	num, err := strconv.ParseFloat(strings.ReplaceAll(cleaned, ",", ""), 64)
	if err != nil {
		return raw
	}
	if num >= 1000 {
		num /= 1000
	}
	return strconv.FormatFloat(num, 'f', 0, 64) + "K"
}
