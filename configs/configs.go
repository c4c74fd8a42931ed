// Package configs carries build information injected by the linker.
package configs

import (
	"fmt"
)

var (
	BuildVersion string = "N/A"
	BuildDate    string = "N/A"
	BuildCommit  string = "N/A"
)

// Example boot:
// go run -ldflags "-X huffpress/configs.BuildVersion=v1.0.1 -X 'huffpress/configs.BuildDate=$(date +'%Y/%m/%d %H:%M:%S')' -X 'huffpress/configs.BuildCommit=34sd'" main.go
func BuildVerPrint() string {
	return fmt.Sprintf("Build version: %s\nBuild date: %s\nBuild commit: %s", BuildVersion, BuildDate, BuildCommit)
}
