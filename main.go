package main

import "github.com/mdshamim125/contest-hub-server/cmd"

func main() {
	cmd.Execute()
}
