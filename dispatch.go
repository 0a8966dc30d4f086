package smbwire

import (
	"fmt"

	"github.com/puzpuzpuz/xsync/v4"
)

// Registry maps wire discriminants to payload constructors. Message
// catalogues register one constructor per tag at init time and dispatch
// with New while decoding; the map is safe for concurrent dispatch.
type Registry[D comparable] struct {
	ctors    *xsync.Map[D, func() Codec]
	fallback func(D) Codec
}

func NewRegistry[D comparable]() *Registry[D] {
	return &Registry[D]{ctors: xsync.NewMap[D, func() Codec]()}
}

// Register binds a discriminant to a payload constructor. Later
// registrations for the same discriminant win.
func (reg *Registry[D]) Register(d D, ctor func() Codec) {
	reg.ctors.Store(d, ctor)
}

// SetFallback installs a constructor used for discriminants with no
// registered entry, typically an opaque raw-bytes payload that preserves
// unknown records across a decode/encode round trip. Without a fallback,
// New reports ErrUnknownDiscriminant.
func (reg *Registry[D]) SetFallback(ctor func(D) Codec) {
	reg.fallback = ctor
}

// New returns a fresh payload value for the discriminant.
func (reg *Registry[D]) New(d D) (Codec, error) {
	if ctor, ok := reg.ctors.Load(d); ok {
		return ctor(), nil
	}
	if reg.fallback != nil {
		return reg.fallback(d), nil
	}
	return nil, fmt.Errorf("%w: %v", ErrUnknownDiscriminant, d)
}

// Known reports whether the discriminant has a registered constructor,
// not counting the fallback.
func (reg *Registry[D]) Known(d D) bool {
	_, ok := reg.ctors.Load(d)
	return ok
}
