package mapdata

import (
	"testing"

	gomock "github.com/golang/mock/gomock"
	"github.com/stretchr/testify/require"

	"github.com/fireredbridge/corebridge/encoding"
	"github.com/fireredbridge/corebridge/memory"
	"github.com/fireredbridge/corebridge/schema"
)

func TestUnpackCell(t *testing.T) {
	// 0x0C01 -> metatile 1, collision=3, elevation=0.
	c := unpackCell(0x0C01)
	require.Equal(t, uint16(1), c.MetatileID)
	require.Equal(t, uint8(3), c.Collision)
	require.Equal(t, uint8(0), c.Elevation)
}

func TestCovers_BoundaryBehavior(t *testing.T) {
	require.True(t, covers(20, 20, 5, 6)) // 20>=5+15=20 and 20>=6+14=20
	require.False(t, covers(19, 20, 5, 6))
	require.False(t, covers(20, 19, 5, 6))
}

func TestDeriveFromBackup_OffsetsByMapOffset(t *testing.T) {
	backupW, backupH := 3+2*schema.MapOffset+1, 2+2*schema.MapOffset
	backup := make([]Cell, backupW*backupH)
	target := schema.MapOffset*backupW + schema.MapOffset
	backup[target] = Cell{MetatileID: 42}

	derived := deriveFromBackup(backup, backupW, 3, 2)
	require.Equal(t, uint16(42), derived[0].MetatileID)
}

func TestLayout_At_OutOfBounds(t *testing.T) {
	l := Layout{Width: 2, Height: 2, Cells: make([]Cell, 4)}
	_, ok := l.At(5, 5)
	require.False(t, ok)
	_, ok = l.At(0, 0)
	require.True(t, ok)
}

func TestLayout_BehaviorID_PicksTilesetByRange(t *testing.T) {
	l := Layout{
		PrimaryBehaviors:   []BehaviorID{1, 2, 3},
		SecondaryBehaviors: []BehaviorID{9, 9, 9},
	}
	require.Equal(t, BehaviorID(2), l.BehaviorID(1))
	require.Equal(t, BehaviorID(9), l.BehaviorID(uint16(schema.PrimaryTilesetMetatileCount)))
}

func TestRead_ShortHeaderReadFailsCleanly(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	cat := &schema.Catalog{CurrentMapHeaderAddr: 0x1000, BackupMapLayoutAddr: 0x2000}
	link := memory.NewMockLink(ctrl)

	// A truncated backup-layout segment must produce an error, not a
	// panic, so the snapshot builder can fall back to an empty Layout.
	link.EXPECT().ReadRanges(gomock.Any()).Return([][]byte{make([]byte, 4), make([]byte, 7)}, nil).Times(1)

	client := memory.NewClient(link, nil)
	_, err := Read(client, cat, NewAttributeCache(), &StaticCache{})
	require.Error(t, err)
}

func TestRead_UsesStaticCacheOnSecondCall(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	cat := &schema.Catalog{CurrentMapHeaderAddr: 0x1000, BackupMapLayoutAddr: 0x2000}
	link := memory.NewMockLink(ctrl)

	layoutBase := schema.Address(0x08050000)
	mapGridAddr := schema.Address(0x09100000)

	header := make([]byte, 12)
	encoding.Write32(header[schema.BackupMapLayoutWidthOffset:], 20)
	encoding.Write32(header[schema.BackupMapLayoutHeightOffset:], 20)
	encoding.Write32(header[schema.BackupMapDataPtrOffset:], 0x09000000)

	mapLayoutPtr := make([]byte, 4)
	encoding.Write32(mapLayoutPtr, uint32(layoutBase))

	layoutFields := make([]byte, 0x14)
	encoding.Write32(layoutFields[schema.MapLayoutWidthOffset:], 5)
	encoding.Write32(layoutFields[schema.MapLayoutHeightOffset:], 5)
	encoding.Write32(layoutFields[schema.MapLayoutMapGridOffset:], uint32(mapGridAddr))
	encoding.Write32(layoutFields[schema.MapLayoutPrimaryTilesetOffset:], 0x08200000)
	encoding.Write32(layoutFields[schema.MapLayoutSecondaryTilesetOffset:], 0x08300000)

	link.EXPECT().ReadRange(layoutBase, 0x14).Return(layoutFields, nil).Times(1)

	link.EXPECT().ReadRanges(gomock.Any()).DoAndReturn(func(ranges []memory.Range) ([][]byte, error) {
		switch {
		case len(ranges) == 2 && ranges[0].Addr == cat.CurrentMapHeaderAddr+schema.MapHeaderMapLayoutOffset:
			return [][]byte{mapLayoutPtr, header}, nil
		case len(ranges) == 2 && ranges[0].Addr == schema.Address(0x08200000)+schema.TilesetMetatileAttributesPointerOffset:
			return [][]byte{make([]byte, 4), make([]byte, 4)}, nil
		case len(ranges) == 2 && ranges[0].Addr == mapGridAddr:
			return [][]byte{
				make([]byte, 5*5*schema.BytesPerTile),
				make([]byte, 20*20*schema.BytesPerTile),
			}, nil
		default:
			t.Fatalf("unexpected ReadRanges call: %+v", ranges)
			return nil, nil
		}
	}).Times(5)

	client := memory.NewClient(link, nil)
	attrCache := NewAttributeCache()
	staticCache := &StaticCache{}

	_, err := Read(client, cat, attrCache, staticCache)
	require.NoError(t, err)

	_, err = Read(client, cat, attrCache, staticCache)
	require.NoError(t, err)
}
