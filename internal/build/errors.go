package build

import "errors"

var (
	ErrBuild   = errors.New("build failed")
	ErrRecipe  = errors.New("invalid recipe")
	ErrContext = errors.New("build context error")
)
