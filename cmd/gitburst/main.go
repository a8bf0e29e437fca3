package main

import (
	"log"

	"github.com/mitiskuma/gitburst/internal/cli"
)

func main() {
	if err := cli.Execute(); err != nil {
		log.Fatal(err)
	}
}
