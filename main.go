package main

import (
	"runtime/debug"

	"github.com/llehouerou/tunedeck/internal/cli"
)

func main() {
	cli.Execute(appVersion())
}

func appVersion() string {
	bi, ok := debug.ReadBuildInfo()
	if !ok || bi.Main.Version == "" {
		return "dev"
	}
	return bi.Main.Version
}
