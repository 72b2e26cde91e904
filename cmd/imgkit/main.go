package main

import "github.com/MeKo-Tech/imgkit/cmd/imgkit/cmd"

func main() {
	cmd.Execute()
}
