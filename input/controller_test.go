package input

import (
	"testing"

	"github.com/fireredbridge/corebridge/dialog"
	"github.com/fireredbridge/corebridge/statebuilder"
	"github.com/stretchr/testify/require"
)

func TestMeaningfulChangeDetectsPositionMove(t *testing.T) {
	before := StateSummary{X: 5, Y: 5, MapGroup: 1, MapNum: 2}
	after := before
	after.Y = 6
	require.True(t, meaningfulChange(before, after))
}

func TestMeaningfulChangeDetectsDialogEntry(t *testing.T) {
	before := StateSummary{X: 5, Y: 5}
	after := before
	after.InDialog = true
	require.True(t, meaningfulChange(before, after))
}

func TestMeaningfulChangeDetectsNewLock(t *testing.T) {
	before := StateSummary{AllControlsLocked: false}
	after := StateSummary{AllControlsLocked: true}
	require.True(t, meaningfulChange(before, after))
}

func TestMeaningfulChangeFalseWhenNothingMoved(t *testing.T) {
	s := StateSummary{X: 3, Y: 4, MapGroup: 1, MapNum: 1, MenuType: "dialog"}
	require.False(t, meaningfulChange(s, s))
}

func TestSameMapAndPosition(t *testing.T) {
	a := StateSummary{X: 1, Y: 2, MapGroup: 3, MapNum: 4}
	b := a
	require.True(t, sameMapAndPosition(a, b))
	b.X = 2
	require.False(t, sameMapAndPosition(a, b))
}

func TestInOverworld(t *testing.T) {
	require.True(t, inOverworld(StateSummary{}))
	require.False(t, inOverworld(StateSummary{InDialog: true}))
	require.False(t, inOverworld(StateSummary{InBattle: true}))
}

func TestDiffMasksFlagsFlippedCells(t *testing.T) {
	before := []bool{false, false, true, false}
	after := []bool{false, true, true, true}
	changes := diffMasks(before, after, 2)
	require.Len(t, changes, 2)

	byPos := map[[2]int]statebuilder.GroundChange{}
	for _, c := range changes {
		byPos[[2]int{c.X, c.Y}] = c
	}
	require.Equal(t, statebuilder.GroundChange{X: 1, Y: 0, WasWall: false, IsWall: true}, byPos[[2]int{1, 0}])
	require.Equal(t, statebuilder.GroundChange{X: 1, Y: 1, WasWall: false, IsWall: true}, byPos[[2]int{1, 1}])
}

func TestDiffMasksShapeMismatchYieldsNoChanges(t *testing.T) {
	require.Nil(t, diffMasks([]bool{true}, []bool{true, false}, 1))
}

func TestSummarizeLite(t *testing.T) {
	lite := statebuilder.LiteState{
		Player: statebuilder.Player{X: 1, Y: 2, MapGroup: 3, MapNum: 4},
		Dialog: dialog.State{InDialog: true, MenuType: "dialog"},
		InBattle: false,
	}
	s := summarizeLite(lite)
	require.Equal(t, 1, s.X)
	require.True(t, s.InDialog)
	require.Equal(t, "dialog", s.MenuType)
}
