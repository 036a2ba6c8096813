package main

import (
	"github.com/Khankindle/copybara/cmd/copybara/cmd"
)

func main() {
	cmd.Execute()
}
