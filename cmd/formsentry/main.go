package main

import "github.com/formsentry/formsentry/cmd/formsentry/cmd"

func main() {
	cmd.Execute()
}
