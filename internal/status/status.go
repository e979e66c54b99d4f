// Package status считает аптайм процесса и форматирует задержку до шлюза.
package status

import (
	"fmt"
	"strings"
	"time"
)

type Reporter struct {
	started time.Time
	now     func() time.Time
}

func New() *Reporter {
	return &Reporter{started: time.Now(), now: time.Now}
}

// NewAt — для тестов: фиксированный старт и свои часы.
func NewAt(started time.Time, now func() time.Time) *Reporter {
	return &Reporter{started: started, now: now}
}

func (r *Reporter) Started() time.Time { return r.started }

func (r *Reporter) Uptime() time.Duration {
	return r.now().Sub(r.started)
}

// UptimeString — "1d 1h 1m 1s"; нулевые старшие единицы опускаются, секунды выводятся всегда.
func (r *Reporter) UptimeString() string {
	return FormatUptime(r.Uptime())
}

func FormatUptime(d time.Duration) string {
	total := int64(d / time.Second)
	if total < 0 {
		total = 0
	}
	days := total / 86400
	hours := (total % 86400) / 3600
	minutes := (total % 3600) / 60
	seconds := total % 60

	var parts []string
	if days > 0 {
		parts = append(parts, fmt.Sprintf("%dd", days))
	}
	if hours > 0 {
		parts = append(parts, fmt.Sprintf("%dh", hours))
	}
	if minutes > 0 {
		parts = append(parts, fmt.Sprintf("%dm", minutes))
	}
	parts = append(parts, fmt.Sprintf("%ds", seconds))
	return strings.Join(parts, " ")
}

// Millis округляет задержку до ближайшей миллисекунды.
func Millis(d time.Duration) int64 {
	return d.Round(time.Millisecond).Milliseconds()
}
