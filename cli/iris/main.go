package main

import (
	"os"

	iriscmder "github.com/plataforma-iris/iris/cmd/iris"
)

func main() {
	cmd := iriscmder.NewIrisCmd()
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
