// Package schema resolves the named ROM/RAM addresses and struct layouts
// this bridge decodes against into a single catalog, built once at
// startup. Every decoder package takes a *Catalog rather than hard-coding
// addresses, so the whole memory map lives in one place.
package schema

import (
	"fmt"
)

// Address is a 32-bit little-endian memory address.
type Address uint32

// Symbol is one resolved entry from the symbol table: an address plus
// optional size metadata (struct size, array stride, ...).
type Symbol struct {
	Name    string
	Address Address
	Size    int
}

// ResolutionError reports a symbol the catalog could not resolve
// unambiguously at init. Schema errors are always fatal.
type ResolutionError struct {
	Name   string
	Reason string
}

func (e *ResolutionError) Error() string {
	return fmt.Sprintf("schema: cannot resolve symbol %q: %s", e.Name, e.Reason)
}

// SymbolTable is the consumed interface to an external symbol file.
// The loader that parses the actual symbol file format is an external
// collaborator; this module only specifies what it needs from it.
type SymbolTable interface {
	// Addr resolves a single, unambiguous symbol name to an address.
	// ok is false if the name is unknown.
	Addr(name string) (Address, bool)

	// Addrs resolves every address sharing a homonymous name (the
	// linker can emit multiple symbols with the same name in
	// different translation units).
	Addrs(name string) []Address

	// Entry resolves a symbol to its full metadata, including size.
	Entry(name string) (Symbol, bool)
}

// ResolveSpec describes how one catalog field should be resolved from
// the symbol table.
type ResolveSpec struct {
	// Name is the symbol name to look up.
	Name string

	// Near, if non-zero, disambiguates between homonyms by picking the
	// one closest to this address. Required whenever Addrs(Name)
	// returns more than one entry and Fallback is zero; guessing
	// silently between homonyms is not acceptable.
	Near Address

	// Fallback, if non-zero, is used when Name resolves to nothing at
	// all (not when it's ambiguous).
	Fallback Address

	// Optional marks a symbol whose absence is not a hard failure;
	// the catalog field is left zero. Used sparingly — by default
	// every symbol is required.
	Optional bool
}

// resolve applies one ResolveSpec against a SymbolTable, implementing
// the exact, nearest-to and address-list resolution modes.
func resolve(st SymbolTable, spec ResolveSpec) (Address, error) {
	addrs := st.Addrs(spec.Name)

	switch len(addrs) {
	case 0:
		if spec.Fallback != 0 {
			return spec.Fallback, nil
		}
		if spec.Optional {
			return 0, nil
		}
		return 0, &ResolutionError{Name: spec.Name, Reason: "symbol not present in symbol table"}
	case 1:
		return addrs[0], nil
	default:
		if spec.Near == 0 {
			return 0, &ResolutionError{
				Name: spec.Name,
				Reason: fmt.Sprintf(
					"%d homonymous symbols and no near= disambiguator was given — "+
						"refusing to silently guess", len(addrs)),
			}
		}
		best := addrs[0]
		bestDist := dist(addrs[0], spec.Near)
		for _, a := range addrs[1:] {
			if d := dist(a, spec.Near); d < bestDist {
				best, bestDist = a, d
			}
		}
		return best, nil
	}
}

func dist(a, b Address) uint32 {
	if a > b {
		return uint32(a - b)
	}
	return uint32(b - a)
}
