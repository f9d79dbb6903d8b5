// Command jobcore runs the Scheduler Core as a cron-driven process or a
// one-shot CLI operation, matching the teacher's cmd/ entry-point style
// (a thin main.go that defers everything to Execute).
package main

import "os"

func main() {
	if err := Execute(); err != nil {
		os.Exit(1)
	}
}
