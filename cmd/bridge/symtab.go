package main

import (
	"bufio"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/fireredbridge/corebridge/schema"
)

// fileSymbolTable is a minimal schema.SymbolTable backed by a plain
// text symbol file, one entry per line: `<hex-address> <name>` (the
// format mgba-style `.sym` exports and most linker map dumps share).
// Parsing the project's actual symbol-file format is an external
// collaborator's job; this loader is
// just enough for cmd/bridge to resolve a schema.Catalog end to end.
type fileSymbolTable struct {
	byName map[string][]schema.Address
}

func loadSymbolTable(path string) (*fileSymbolTable, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("symtab: open %s: %w", path, err)
	}
	defer f.Close()

	st := &fileSymbolTable{byName: make(map[string][]schema.Address)}
	scanner := bufio.NewScanner(f)
	lineNo := 0
	for scanner.Scan() {
		lineNo++
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		fields := strings.Fields(line)
		if len(fields) < 2 {
			return nil, fmt.Errorf("symtab: %s:%d: expected \"<addr> <name>\", got %q", path, lineNo, line)
		}
		addrText := strings.TrimPrefix(strings.ToLower(fields[0]), "0x")
		addr, err := strconv.ParseUint(addrText, 16, 32)
		if err != nil {
			return nil, fmt.Errorf("symtab: %s:%d: bad address %q: %w", path, lineNo, fields[0], err)
		}
		name := fields[1]
		st.byName[name] = append(st.byName[name], schema.Address(addr))
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("symtab: %s: %w", path, err)
	}
	return st, nil
}

func (t *fileSymbolTable) Addr(name string) (schema.Address, bool) {
	addrs := t.byName[name]
	if len(addrs) != 1 {
		return 0, false
	}
	return addrs[0], true
}

func (t *fileSymbolTable) Addrs(name string) []schema.Address {
	return t.byName[name]
}

func (t *fileSymbolTable) Entry(name string) (schema.Symbol, bool) {
	addrs := t.byName[name]
	if len(addrs) == 0 {
		return schema.Symbol{}, false
	}
	return schema.Symbol{Name: name, Address: addrs[0]}, true
}
