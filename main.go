package main

import "github.com/dataqe/recon/cmd"

func main() {
	cmd.Execute()
}
