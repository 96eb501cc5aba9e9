package main

import (
	"fmt"
	"os"

	"farm-assist-go/internal/cli"
)

func main() {
	if err := cli.NewRootCmd(cli.NewApp(os.Stdout)).Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
