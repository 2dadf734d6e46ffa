// README: Operator CLI entry point.
package main

import "trailmate/internal/cli"

func main() {
	cli.Execute()
}
