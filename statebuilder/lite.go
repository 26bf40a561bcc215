package statebuilder

import (
	"github.com/fireredbridge/corebridge/collision"
	"github.com/fireredbridge/corebridge/dialog"
	"github.com/fireredbridge/corebridge/mapdata"
)

// LiteState is the cheap per-poll observation the input controller
// takes between and during waits: just enough to detect a meaningful change, a lock
// transition, or an interruption, without paying for the full map
// grid, events, party, bag or PC reads that Build does.
type LiteState struct {
	Player            Player
	ImportantEvents   ImportantEvents
	Dialog            dialog.State
	InBattle          bool
	AllControlsLocked bool
}

// ReadLite takes one lightweight observation. It shares the dialog
// reader's own keyed-snapshot cache but never touches the fog
// engine, map cache or party/bag/PC caches.
func (b *Builder) ReadLite() (LiteState, error) {
	player, importantEvents, err := ReadPlayer(b.client, b.cat)
	if err != nil {
		return LiteState{}, err
	}
	dlg, err := b.dialogReader.Read()
	if err != nil {
		return LiteState{}, err
	}
	locked, err := AllControlsLocked(b.client, b.cat, player.FieldControlsLocked, player.InBattle, dlg)
	if err != nil {
		return LiteState{}, err
	}
	return LiteState{
		Player:            player,
		ImportantEvents:   importantEvents,
		Dialog:            dlg,
		InBattle:          player.InBattle,
		AllControlsLocked: locked,
	}, nil
}

// ClassifyCurrentMap reads and classifies the current map's raw
// metatile grid, with no fog masking and no full-map
// overlay composition — the input controller's pre/post-step
// passability diff cares about the underlying metatile
// semantics, not the fog-masked, overlay-composed view Build produces.
func (b *Builder) ClassifyCurrentMap(elevation uint8, surfing bool) (tags []collision.Tag, width, height int, err error) {
	layout, err := mapdata.Read(b.client, b.cat, b.attrCache, b.staticCache)
	if err != nil {
		return nil, 0, 0, err
	}
	tags, _ = collision.Classify(layout, elevation, surfing)
	return tags, layout.Width, layout.Height, nil
}
