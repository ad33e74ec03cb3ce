// cmd/rulepatch/main.go
package main

import (
	"qcrules/internal/appshell"
	"qcrules/internal/patchapp"
)

func main() {
	appshell.Main(patchapp.RunContext)
}
