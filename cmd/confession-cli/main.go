package main

import "github.com/hindiconfession/cli/internal/cmd"

func main() {
	cmd.Execute()
}
