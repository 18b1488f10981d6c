// Command trailerctl drives the trailer state machine against a simulated
// flash arena or a real pair of files, for interactive inspection and
// scripted testing of the decision engine.
package main

import (
	"fmt"
	"os"

	"github.com/flashtrail/bootutil/core"
)

func main() {
	err := Execute()
	if err == nil {
		return
	}

	kind := core.KindOf(err)
	if log != nil {
		log.Error(kind, err, "trailerctl: command failed")
	} else {
		fmt.Fprintln(os.Stderr, err)
	}
	os.Exit(exitCodeForKind(kind))
}

// exitCodeForKind maps a core.Kind to a distinct process exit code, so a
// calling script can tell a flash failure (2) from a corrupt-image
// failure (3) from an unrecoverable pair (6) without parsing stderr.
func exitCodeForKind(kind core.Kind) int {
	switch kind {
	case core.Ok:
		return 0
	case core.Flash:
		return 2
	case core.BadImage:
		return 3
	case core.BadVector:
		return 4
	case core.Invalid:
		return 5
	case core.Panic:
		return 6
	default:
		return 1
	}
}
