// spametrics rates NBA play-by-play files with survival-probability
// attribution and reports per-player impact for games and seasons.
package main

import "github.com/courtside/go-spa-metrics/cmd"

func main() {
	cmd.Execute()
}
