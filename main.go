package main

import (
	"os"

	"github.com/PolarWolf314/envsync/cmd"
	"github.com/PolarWolf314/envsync/internal/ui"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Stderr.WriteString(ui.Error.Sprint("✗") + " " + err.Error() + "\n")
		os.Exit(1)
	}
}
