package main

import (
	"flag"
	"fmt"
	"os"
	"time"
)

// log-spewer writes a mix of line shapes that `alin-dash pipe` has to cope
// with: JSON with different level, message and timestamp keys, plain text
// and blank lines.
func main() {
	var interval time.Duration
	var lines int
	var follow bool
	flag.DurationVar(&interval, "interval", 50*time.Millisecond, "Delay between lines")
	flag.IntVar(&lines, "lines", 50, "Number of lines to emit")
	flag.BoolVar(&follow, "follow", false, "Sleep forever after the last line")
	flag.Parse()

	shapes := []func(i int, now time.Time) string{
		func(i int, now time.Time) string {
			return fmt.Sprintf(`{"level":"error","message":"Connection refused to database","timestamp":%q}`, now.Format(time.RFC3339))
		},
		func(i int, now time.Time) string {
			return fmt.Sprintf(`{"level":"warning","msg":"Retry attempt %d of 5","ts":%d}`, i%5+1, now.Unix())
		},
		func(i int, now time.Time) string {
			return fmt.Sprintf(`{"level":"info","message":"Request %d processed successfully","time":%d}`, i, now.UnixMilli())
		},
		func(i int, now time.Time) string {
			return fmt.Sprintf(`{"level":"FATAL","error":"Out of memory exception","time":%q}`, now.Format("2006-01-02 15:04:05"))
		},
		func(i int, now time.Time) string {
			return fmt.Sprintf(`{"level":"debug","message":"Executing database query #%d"}`, i)
		},
		func(i int, now time.Time) string {
			return fmt.Sprintf("plain text line %d", i)
		},
		func(i int, now time.Time) string {
			return ""
		},
	}

	for i := 0; i < lines; i++ {
		_, _ = fmt.Fprintln(os.Stdout, shapes[i%len(shapes)](i, time.Now()))
		time.Sleep(interval)
	}
	if follow {
		select {}
	}
}
