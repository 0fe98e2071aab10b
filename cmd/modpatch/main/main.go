package main

import (
	"fmt"
	"os"

	"github.com/arthur-debert/modpatch/cmd/modpatch"
	"github.com/arthur-debert/modpatch/pkg/style"
)

func main() {
	rootCmd := modpatch.NewRootCmd()
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, style.ErrorStyle.Render(fmt.Sprintf("Error: %v", err)))
		os.Exit(1)
	}
}
