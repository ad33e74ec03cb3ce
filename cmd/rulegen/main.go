// cmd/rulegen/main.go
package main

import (
	"qcrules/internal/app"
	"qcrules/internal/appshell"
)

func main() {
	appshell.Main(app.RunContext)
}
