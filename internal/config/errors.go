package config

import "errors"

var (
	ErrManifest = errors.New("invalid manifest")
)
