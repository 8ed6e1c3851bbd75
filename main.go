package main

import "github.com/chapool/web3connect/cmd"

func main() {
	cmd.Execute()
}
