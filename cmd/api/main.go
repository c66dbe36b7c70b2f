package main

import "github.com/spec-kit/institute-service/cmd/api/cmd"

func main() {
	cmd.Execute()
}
