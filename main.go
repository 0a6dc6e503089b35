package main

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
)

func main() {
	// DSSM_* variables from a local .env participate in config resolution.
	_ = godotenv.Load()

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
