package main

import (
	"github.com/Bitlatte/mosaic/cmd"
)

func main() {
	cmd.Execute()
}
