package main

import (
	"os"

	servecmder "github.com/plataforma-iris/iris/cmd/iris/serve"
)

func main() {
	cmd := servecmder.NewServeCmd()
	cmd.Use = "irisapi"
	cmd.PersistentFlags().BoolP("debug", "d", false, "Enable debug logging")
	cmd.PersistentFlags().String("config-dir", "", "Override the .iris/ config directory")

	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
