package main

import "github.com/dbsmedya/extcopy/cmd/extcopy/cmd"

func main() {
	cmd.Execute()
}
