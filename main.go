package main

import "github.com/theirongolddev/tripvault/cmd"

func main() {
	cmd.Execute()
}
