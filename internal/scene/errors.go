package scene

import "errors"

var (
	ErrUnknownScene = errors.New("scene: unknown scene")
	ErrNoLoad       = errors.New("scene: scene has no movable load")
)
