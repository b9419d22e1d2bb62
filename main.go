package main

import "github.com/jobly/jobly-api/cmd"

func main() {
	cmd.Execute()
}
