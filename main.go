package main

import "github.com/rbenavente/cargas-api/cmd"

func main() {
	cmd.Execute()
}
