package util

import (
	"strconv"
	"strings"
	"time"
)

var dateTpl = strings.NewReplacer(
	"YYYY", "2006",
	"YY", "06",
	"MM", "01",
	"DD", "02",
	"hh", "15",
	"mm", "04",
	"ss", "05",
)

// FormatDateTpl formats t with a template such as "YYYY-MM-DD hh:mm".
//
// Supported placeholders: YYYY, YY, MM (month), DD, hh (24h), mm (minute)
// and ss. The zero time formats as an empty string.
func FormatDateTpl(t time.Time, tpl string) string {
	if t.IsZero() {
		return ""
	}
	return t.Format(dateTpl.Replace(tpl))
}

// FormatDuration renders d as "1h 2m 3s", skipping zero parts. Durations
// under a second render as "0s".
func FormatDuration(d time.Duration) string {
	var parts []string

	if h := int64(d / time.Hour); h > 0 {
		parts = append(parts, strconv.FormatInt(h, 10)+"h")
		d -= time.Duration(h) * time.Hour
	}
	if m := int64(d / time.Minute); m > 0 {
		parts = append(parts, strconv.FormatInt(m, 10)+"m")
		d -= time.Duration(m) * time.Minute
	}
	if s := int64(d / time.Second); s > 0 {
		parts = append(parts, strconv.FormatInt(s, 10)+"s")
	}

	if len(parts) == 0 {
		return "0s"
	}
	return strings.Join(parts, " ")
}
