// register.go wires dem/diffusion's engine constructor into the dem package's
// registration variable (NewEngineFunc). This init() runs when any package
// imports dem/diffusion, breaking the import cycle between dem/ (interface
// owner) and dem/diffusion/ (implementation). Production code imports
// dem/diffusion directly; test code in package dem uses an external test
// package for the blank import.
package diffusion

import "github.com/demfit/demfit/dem"

func init() {
	dem.NewEngineFunc = func() dem.Engine { return New() }
}
