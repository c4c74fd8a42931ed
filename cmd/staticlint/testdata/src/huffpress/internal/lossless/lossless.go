package lossless

import "errors"

type Transform interface{ Name() string }

type Deflate struct{}

func (Deflate) Name() string { return "deflate" }

var registry = map[int]Transform{2: Deflate{}}

var ErrUnknownTransform = errors.New("unknown lossless transform")

var lastUsed Transform // want "package-level variable lastUsed in codec package lossless"

func ByFormat(f int) (Transform, error) {
	t, ok := registry[f]
	if !ok {
		return nil, ErrUnknownTransform
	}
	lastUsed = t
	return t, nil
}
