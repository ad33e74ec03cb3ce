// cmd/rulerange/main.go
package main

import (
	"qcrules/internal/appshell"
	"qcrules/internal/rangeapp"
)

func main() {
	appshell.Main(rangeapp.RunContext)
}
