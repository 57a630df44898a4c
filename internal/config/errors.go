package config

import (
	"errors"
)

var (
	// ErrEmptyURL error if config webserver.URL is empty.
	ErrEmptyURL = errors.New("toml config webserver.url can not be empty")

	// ErrWebServerPortCanNotBeZero error if config webserver listening port is 0.
	ErrWebServerPortCanNotBeZero = errors.New("toml config webserver.port listening port can not be 0")

	// ErrAPIKeyHashRequired error if no API key hash is set while dev mode is off.
	ErrAPIKeyHashRequired = errors.New("toml config webserver.apikeyhash can not be empty unless devmode is enabled")

	// ErrMintLengthBounds error if the default secret length exceeds the configured cap.
	ErrMintLengthBounds = errors.New("toml config mint.defaultlength can not exceed mint.maxlength")
)
