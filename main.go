package main

import "github.com/frahmantamala/association-management/cmd"

func main() {
	cmd.Execute()
}
