package fetch

import (
	"fmt"
	"io"
	"time"
)

// Progress reports the state of a download.
type Progress struct {
	Bytes int64
	// Total is the complete size, or -1 when unknown.
	Total int64
	Start time.Time
}

// Percent returns the completed share in percent, or zero if the total is
// unknown.
func (p Progress) Percent() float64 {
	if p.Total <= 0 {
		return 0
	}
	return float64(p.Bytes) / float64(p.Total) * 100
}

// ProgressFunc is called after each write with the bytes downloaded so far.
type ProgressFunc func(Progress)

// WriterProgress returns a ProgressFunc printing a single updating line to w.
func WriterProgress(w io.Writer) ProgressFunc {
	return func(p Progress) {
		fmt.Fprintf(w, "\r[fetch] %s / %s (%.1f%%) %s",
			FormatBytes(p.Bytes), FormatBytes(p.Total), p.Percent(), FormatDuration(time.Since(p.Start)))
	}
}

type progressWriter struct {
	w       io.Writer
	written int64
	total   int64
	start   time.Time
	fn      ProgressFunc
}

func (pw *progressWriter) Write(p []byte) (int, error) {
	n, err := pw.w.Write(p)
	pw.written += int64(n)
	if pw.fn != nil && n > 0 {
		pw.fn(Progress{Bytes: pw.written, Total: pw.total, Start: pw.start})
	}
	return n, err
}

// FormatBytes formats bytes as human-readable string.
func FormatBytes(bytes int64) string {
	const unit = 1024
	if bytes < 0 {
		return "?"
	}
	if bytes < unit {
		return fmt.Sprintf("%d B", bytes)
	}
	div, exp := int64(unit), 0
	for n := bytes / unit; n >= unit; n /= unit {
		div *= unit
		exp++
	}
	return fmt.Sprintf("%.1f %cB", float64(bytes)/float64(div), "KMGTPE"[exp])
}

// FormatDuration formats duration as human-readable string.
func FormatDuration(d time.Duration) string {
	if d < time.Minute {
		return fmt.Sprintf("%.0fs", d.Seconds())
	}
	if d < time.Hour {
		return fmt.Sprintf("%dm %ds", int(d.Minutes()), int(d.Seconds())%60)
	}
	return fmt.Sprintf("%dh %dm", int(d.Hours()), int(d.Minutes())%60)
}
