// Package ownedtypes supplies the primitives an OBRM-style Go program
// under analysis is expected to build its heap-owning handles and
// ownership witnesses out of: Phantom[T], the zero-sized marker that
// records "this structure behaves as if it owns a T" without storing
// one, and Box[T], a minimal heap-owning handle built the same way the
// glossary says a real one must be — by holding a Phantom[T], not by
// being hardcoded as a special case anywhere in the Analyzer.
package ownedtypes

import "unsafe"

// Phantom is the phantom marker of the glossary: a zero-sized type
// that records a relationship to T without ever storing a T. The
// Analyzer's Pass C recognizes this exact type by package path and
// name — not by any runtime property, since it has none — and treats
// an owning struct's Phantom[T] field as "this struct owns a T" when T
// contains one of the struct's own generic parameters raw.
type Phantom[T any] struct{}

// Box is a minimal heap-owning handle over T. It is Owned not because
// the Analyzer special-cases *Box[T]*, but because it is built the
// ownedtypes.Phantom[T] way: Pass C upgrades any struct shaped like
// this one to Owned, the same inference that would apply to any other
// type a user defines in the same shape.
type Box[T any] struct {
	ptr    unsafe.Pointer
	marker Phantom[T]
}

// New allocates a T on the heap and returns a Box owning it.
func New[T any](v T) Box[T] {
	p := new(T)
	*p = v
	return Box[T]{ptr: unsafe.Pointer(p)}
}

// Get returns the boxed value without releasing ownership.
func (b Box[T]) Get() T {
	return *(*T)(b.ptr)
}

// IntoRaw converts b into a raw, ownership-opaque pointer, discharging
// Box's claim to eventually free the allocation. This is the leakage
// idiom §1 describes: conversion of an owned allocation to a
// raw-pointer-like handle is only safe if the raw pointer's holder
// takes over responsibility for calling Free — the Analyzer has no way
// to verify that on its own; that is the downstream flow checker's job
// (§1 Non-goals, §4 component boundary).
func IntoRaw[T any](b Box[T]) unsafe.Pointer {
	return b.ptr
}

// Free marks the point where a raw pointer previously produced by
// IntoRaw is given back. It performs no deallocation itself: the
// memory is reclaimed by the Go garbage collector once unreachable.
// Its role is to be the call a leakage check looks for on each path.
func Free[T any](p unsafe.Pointer) {
	_ = (*T)(p) // re-assert the pointee's type at the call site for readability
}

// Forget deliberately abandons ownership of b without releasing the
// allocation: the leakage idiom of §1's "explicit deferral of
// destruction" when paired with a raw pointer that never reaches Free.
func Forget[T any](b Box[T]) unsafe.Pointer {
	return b.ptr
}
