package main

import (
	"github.com/VYD3N/tezos-music-player/cmd"
)

func main() {
	cmd.Execute()
}
