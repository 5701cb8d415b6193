package main

import "github.com/AnthonyFclub/glor-crm/cmd"

func main() {
	cmd.Execute()
}
