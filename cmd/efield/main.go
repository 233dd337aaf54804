// Command efield samples and draws the electric field of 2D charge layouts.
//
// Usage:
//
//	efield render --demo -o field.png
//	efield sample --point 0,0,1 --point 2,0,-1 --arrows
//	efield equations --line 0,1,0,2
//	efield view --demo
package main

import (
	"os"

	"github.com/gogpu/efield/internal/cli"
)

func main() {
	os.Exit(cli.Execute())
}
