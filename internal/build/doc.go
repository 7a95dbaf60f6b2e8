// Package build produces the service image from the declarative recipe.
//
// One parameterized recipe replaces the historical pair of near-identical
// container files: the base image, the package manager invocation, and the
// optional timezone are recipe fields, everything else is fixed. The recipe
// is rendered to a Dockerfile, staged into the build context, and the
// context is tar'd and streamed to the engine, which owns layer caching and
// tag atomicity.
//
// Example usage:
//
//	result, err := build.Run(ctx, eng, build.Options{
//	    Recipe: cfg.Recipe,
//	    Tag:    cfg.Image,
//	    Port:   cfg.Port,
//	    Output: os.Stdout,
//	})
//	if err != nil {
//	    return err
//	}
package build
