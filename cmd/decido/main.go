package main

import "github.com/GregMSThompson/decision-backend/internal/cli"

func main() {
	cli.Execute()
}
