package main

import (
	"fmt"
	"io"
	"net"
	"strconv"
	"time"

	"github.com/fatih/color"
)

// printBanner writes the human-facing startup summary. Color is disabled
// when stdout is not a terminal or NO_COLOR is set.
func printBanner(out io.Writer, host string, port int, root string, startedAt time.Time) {
	label := color.New(color.Bold)
	value := color.New(color.FgCyan)

	fmt.Fprintln(out)
	label.Fprint(out, "  Server running at: ")
	value.Fprintf(out, "http://%s/\n", net.JoinHostPort(host, strconv.Itoa(port)))
	label.Fprint(out, "  Serving files from: ")
	value.Fprintln(out, root)
	label.Fprint(out, "  Started at: ")
	value.Fprintln(out, startedAt.Format(time.RFC1123))
	fmt.Fprintln(out)
}
