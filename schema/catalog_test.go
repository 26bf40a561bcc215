package schema

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/require"
)

// fakeSymbolTable is a minimal in-memory SymbolTable for tests — the real
// symbol-file loader is an external collaborator.
type fakeSymbolTable struct {
	single map[string]Address
	multi  map[string][]Address
}

func newFakeSymbolTable() *fakeSymbolTable {
	return &fakeSymbolTable{single: map[string]Address{}, multi: map[string][]Address{}}
}

func (f *fakeSymbolTable) set(name string, addr Address) { f.single[name] = addr }

func (f *fakeSymbolTable) setHomonyms(name string, addrs ...Address) { f.multi[name] = addrs }

func (f *fakeSymbolTable) Addr(name string) (Address, bool) {
	if a, ok := f.single[name]; ok {
		return a, true
	}
	if addrs, ok := f.multi[name]; ok && len(addrs) > 0 {
		return addrs[0], true
	}
	return 0, false
}

func (f *fakeSymbolTable) Addrs(name string) []Address {
	if a, ok := f.single[name]; ok {
		return []Address{a}
	}
	return f.multi[name]
}

func (f *fakeSymbolTable) Entry(name string) (Symbol, bool) {
	a, ok := f.Addr(name)
	if !ok {
		return Symbol{}, false
	}
	return Symbol{Name: name, Address: a}, true
}

func fullFakeSymbolTable() *fakeSymbolTable {
	st := newFakeSymbolTable()
	for _, name := range []string{
		"gSaveBlock1Ptr", "gSaveBlock2Ptr", "gPlayerParty", "gPokemonStoragePtr",
		"sCurrentBoxNum", "gBagPockets", "gMapHeader", "gBackupMapLayout",
		"gObjectEvents", "gPlayerAvatar", "sLockFieldControls",
		"gSafariZoneStepCounter", "gMain", "gPaletteFade",
		"gGlobalScriptContext", "WaitForAorBPress", "IsFieldMessageBoxHidden",
		"CB2_LoadMap", "CB2_DoChangeMap", "gSpeciesInfo", "gTasks", "gTextPrinters",
	} {
		st.set(name, Address(0x02000000))
	}
	return st
}

func TestNewCatalog_ResolvesRequiredSymbols(t *testing.T) {
	st := fullFakeSymbolTable()
	cat, err := NewCatalog(st)
	require.NoError(t, err)
	require.NotNil(t, cat)
	require.NotZero(t, cat.GSaveBlock1PtrAddr)
	require.Len(t, cat.Badges, 8)
}

func TestNewCatalog_MissingRequiredSymbolFailsEagerly(t *testing.T) {
	st := fullFakeSymbolTable()
	st.single["gObjectEvents"] = 0
	delete(st.single, "gObjectEvents")

	_, err := NewCatalog(st)
	require.Error(t, err)
	var resErr *ResolutionError
	require.True(t, errors.As(err, &resErr))
	require.Equal(t, "gObjectEvents", resErr.Name)
}

func TestNewCatalog_OptionalSymbolMissingIsFine(t *testing.T) {
	st := fullFakeSymbolTable()
	// gBattleTypeFlags/gBattleMons/sStartMenuWindowId/sBagMenuState are optional.
	_, err := NewCatalog(st)
	require.NoError(t, err)
}

func TestResolve_AmbiguousHomonymWithoutNearFailsLoudly(t *testing.T) {
	st := newFakeSymbolTable()
	st.setHomonyms("Task_TopMenuHandleInput", 0x08001000, 0x08002000)

	_, err := resolve(st, ResolveSpec{Name: "Task_TopMenuHandleInput"})
	require.Error(t, err)
}

func TestResolve_AmbiguousHomonymWithNearPicksClosest(t *testing.T) {
	st := newFakeSymbolTable()
	st.setHomonyms("Task_TopMenuHandleInput", 0x08001000, 0x08002000)

	addr, err := resolve(st, ResolveSpec{Name: "Task_TopMenuHandleInput", Near: 0x08001050})
	require.NoError(t, err)
	require.Equal(t, Address(0x08001000), addr)
}

func TestResolve_FallbackUsedWhenMissing(t *testing.T) {
	st := newFakeSymbolTable()
	addr, err := resolve(st, ResolveSpec{Name: "sWindowIds", Fallback: 0x03001234})
	require.NoError(t, err)
	require.Equal(t, Address(0x03001234), addr)
}

func TestFacingFromRaw(t *testing.T) {
	require.Equal(t, FacingDown, FacingFromRaw(1))
	require.Equal(t, FacingUp, FacingFromRaw(2))
	require.Equal(t, FacingLeft, FacingFromRaw(3))
	require.Equal(t, FacingRight, FacingFromRaw(4))
	require.Equal(t, FacingUnknown, FacingFromRaw(0))
	// Masked to 3 bits: raw 0x0A -> 0x02 -> up.
	require.Equal(t, FacingUp, FacingFromRaw(0x0A))
}
