package main

import (
	"fmt"
	"io"

	"white/internal/observ"
)

func printTimings(out io.Writer, timer *observ.Timer, passes *observ.PassStats) {
	if out == nil {
		return
	}
	fmt.Fprint(out, timer.Summary())
	if summary := passes.Summary(); summary != "" {
		fmt.Fprint(out, summary)
	}
}
