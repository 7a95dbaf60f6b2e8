// Defines the deployment manifest for the babytracker service.
//
// The manifest names the image to build and run, the published port, the
// host data directory, and the build recipe. The recipe is a single
// parameterized structure: the historical deployment carried two
// near-identical container files that differed only in base image, package
// manager invocation, and an optional timezone, so those three are explicit
// fields selected at build time instead of duplicated recipes.
//
// Manifests are YAML and partial: anything left out keeps its built-in
// default, which reproduces the Debian variant of the original deployment.
package config
