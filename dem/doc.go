// Package dem provides the core demographic-inference pipeline for demfit.
//
// # Reading Guide
//
// Start with these three files to understand the fitting kernel:
//   - spectrum.go: the joint allele-frequency spectrum type and its masking rules
//   - models.go: demographic model descriptors and epoch composition
//   - optimize.go: the log-space bounded likelihood maximization driver
//
// # Architecture
//
// The dem package defines interfaces and descriptors; implementations live in
// sub-packages:
//   - dem/diffusion/: the two-population diffusion engine (grid, density
//     integration, spectrum projection)
//   - dem/sfsio/: observed-spectrum construction from SNP tables
//
// dem/diffusion registers its engine constructor via an init() function that
// sets the package-level factory variable (NewEngineFunc), breaking the import
// cycle between dem/ (interface owner) and dem/diffusion/ (implementation).
//
// # Pipeline
//
// Observed spectrum + model variant + grid list -> MakeExtrapLogFunc wraps the
// model for Richardson extrapolation across grid resolutions -> Perturb
// jitters the initial guess within bounds -> OptimizeLog maximizes the
// multinomial likelihood in log-parameter space -> Summarize reports the
// best-fit likelihood, theta and AIC.
package dem
