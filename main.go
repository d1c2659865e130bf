package main

import "github.com/palegrave/nirikit/cmd"

func main() {
	cmd.Execute()
}
