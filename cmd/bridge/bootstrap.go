package main

import (
	"fmt"

	"github.com/fireredbridge/corebridge/memory"
	"github.com/fireredbridge/corebridge/schema"
	"github.com/fireredbridge/corebridge/statebuilder"
)

// session bundles the pieces every subcommand needs: a dialed Link, the
// resolved catalog, and a Builder ready to assemble snapshots.
type session struct {
	link    *tcpLink
	client  *memory.Client
	cat     *schema.Catalog
	builder *statebuilder.Builder
}

func newSession(g *globalOptions) (*session, error) {
	st, err := loadSymbolTable(g.Symbols)
	if err != nil {
		return nil, err
	}
	cat, err := schema.NewCatalog(st)
	if err != nil {
		return nil, fmt.Errorf("bridge: %w", err)
	}

	link, err := dialTCPLink(g.Addr, g.Timeout)
	if err != nil {
		return nil, err
	}

	client := memory.NewClient(link, nil)
	builder := statebuilder.NewBuilder(client, cat)

	return &session{link: link, client: client, cat: cat, builder: builder}, nil
}

func (s *session) Close() error {
	return s.link.Close()
}
