package config

import "errors"

var (
	ErrConfigInvalid     = errors.New("config invalid")
	ErrConfigFileMissing = errors.New("config file does not exist")
	ErrUnknownConfigKeys = errors.New("unknown config keys")
)
