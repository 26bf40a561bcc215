package statebuilder

import (
	"github.com/fireredbridge/corebridge/dialog"
	"github.com/fireredbridge/corebridge/encoding"
	"github.com/fireredbridge/corebridge/memory"
	"github.com/fireredbridge/corebridge/schema"
)

// thumbMask clears the Thumb low bit some of these pointers carry, so a
// function address compares equal regardless of calling convention.
func thumbMask(addr schema.Address) schema.Address {
	return addr &^ 1
}

// isPaletteFadeActive reads gPaletteFade's bitfield word and checks the
// engine-wide fade-active bit — a strong signal that every input is
// blocked (warp transitions, fade-to-black, falling through a hole).
func isPaletteFadeActive(client *memory.Client, cat *schema.Catalog) (bool, error) {
	raw, err := client.ReadRange(cat.GPaletteFadeAddr+schema.PaletteFadeBitfieldsOffset, 4)
	if err != nil {
		return false, err
	}
	word := encoding.Read32(raw, 0)
	return word&schema.PaletteFadeActiveMask32 != 0, nil
}

// readScriptContextNative returns the global script context's current
// mode and, if native, the native function pointer it's blocked on.
func readScriptContextNative(client *memory.Client, cat *schema.Catalog) (mode uint8, nativePtr schema.Address, err error) {
	raw, err := client.ReadRange(cat.SGlobalScriptContextAddr, 8)
	if err != nil {
		return 0, 0, err
	}
	mode = raw[schema.ScriptContextModeOffset]
	nativePtr = schema.Address(encoding.Read32(raw, schema.ScriptContextNativePtrOffset))
	return mode, nativePtr, nil
}

// isWaitingForAOrBPress reports whether the script context is blocked
// on one of the two input-satisfiable native waits (waitbuttonpress /
// waitmessage), as opposed to a non-interactive wait (movement,
// palette fade) that should read as fully locked.
func isWaitingForAOrBPress(mode uint8, nativePtr schema.Address, cat *schema.Catalog) bool {
	if mode != schema.ScriptModeNative {
		return false
	}
	masked := thumbMask(nativePtr)
	return masked == thumbMask(cat.WaitForAOrBPressAddr) || masked == thumbMask(cat.IsFieldMessageBoxHiddenAddr)
}

// AllControlsLocked derives the "every input is ignored" signal, a
// strict superset of fieldControlsLocked (which only covers overworld
// movement). Ordered by strength of evidence:
//
//  1. Palette fade active -> fully locked.
//  2. gMain's callback2 is CB2_LoadMap/CB2_DoChangeMap -> fully locked.
//  3. In battle -> locked unless the dialog classifier shows an
//     actionable menu/choice or active field text.
//  4. Overworld field controls not locked -> not locked.
//  5. An interactive menu/dialog is showing -> not locked.
//  6. Script engine blocked on WaitForAorBPress/IsFieldMessageBoxHidden
//     -> not locked (the player can still act).
//  7. Otherwise, fully locked.
func AllControlsLocked(client *memory.Client, cat *schema.Catalog, fieldControlsLocked, inBattle bool, dlg dialog.State) (bool, error) {
	faded, err := isPaletteFadeActive(client, cat)
	if err != nil {
		return false, err
	}
	if faded {
		return true, nil
	}

	cb2Raw, err := client.ReadRange(cat.GMainAddr+schema.GMainCallback2Offset, 4)
	if err != nil {
		return false, err
	}
	cb2 := thumbMask(schema.Address(encoding.Read32(cb2Raw, 0)))
	if cb2 == thumbMask(cat.CB2LoadMapAddr) || cb2 == thumbMask(cat.CB2DoChangeMapAddr) {
		return true, nil
	}

	interactive := dlg.MenuType != "" && dlg.MenuType != "dialog"
	if dlg.ChoiceMenu != nil {
		interactive = true
	}
	if dlg.MenuType == "dialog" && dlg.TextPrinterActive {
		interactive = true
	}

	if inBattle {
		return !interactive, nil
	}

	if !fieldControlsLocked {
		return false, nil
	}
	if interactive {
		return false, nil
	}

	mode, nativePtr, err := readScriptContextNative(client, cat)
	if err != nil {
		return false, err
	}
	if isWaitingForAOrBPress(mode, nativePtr, cat) {
		return false, nil
	}

	return true, nil
}
