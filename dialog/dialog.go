// Package dialog classifies the current field-message/menu state into
// one tag from a closed set, by pattern-matching a batched snapshot of
// task slots, the main callback pointer, well-known menu state
// pointers and the text-printer array.
package dialog

import (
	"fmt"
	"strings"

	"github.com/fireredbridge/corebridge/encoding"
	"github.com/fireredbridge/corebridge/memory"
	"github.com/fireredbridge/corebridge/schema"
	"github.com/fireredbridge/corebridge/text"
)

// ChoiceMenu is the decoded option list and cursor position of an
// active yes/no or multichoice menu.
type ChoiceMenu struct {
	Options []string `json:"options"`
	Cursor  int      `json:"cursor"`
}

// State is the dialog/menu classifier's output.
type State struct {
	InDialog          bool        `json:"inDialog"`
	MenuType          string      `json:"menuType"`
	VisibleText       *string     `json:"visibleText"`
	ChoiceMenu        *ChoiceMenu `json:"choiceMenu"`
	TextPrinterActive bool        `json:"textPrinterActive"`
}

// priority is the ordered closed set of menuType tags; earlier entries
// win when more than one callback matches (shouldn't normally happen,
// but the classifier must stay deterministic).
var priority = []string{
	"yesNo", "multichoice", "namingScreen", "summaryScreen", "shopBuy",
	"partyMenu", "pokemonStorage", "pokemonStoragePcMenu", "playerPcMenu",
	"itemStorageList", "itemStorageMenu", "bagMenu", "startMenu",
	"pokedex", "flyMap", "regionMap", "questLogRecap",
	"optionMenu", "mainMenu", "titleScreen", "dialog",
}

// snapshot is the raw batched read this classifier runs against.
type snapshot struct {
	mainCallback  schema.Address
	tasks         []byte
	textPrinters  []byte
	startMenuID   uint8
	bagMenuState  uint8
	textBuf       []byte
}

// Reader reads and classifies the dialog/menu snapshot, with a
// scalar-equality keyed cache over the raw input bytes.
type Reader struct {
	client *memory.Client
	cat    *schema.Catalog

	lastKey   string
	lastState State
	hasLast   bool
}

// NewReader returns a Reader with an empty cache.
func NewReader(client *memory.Client, cat *schema.Catalog) *Reader {
	return &Reader{client: client, cat: cat}
}

// Read takes one batched snapshot of the dialog input window and
// classifies it, reusing the previous result verbatim if every byte of
// the window is unchanged from the last call.
func (r *Reader) Read() (State, error) {
	snap, raw, err := r.readSnapshot()
	if err != nil {
		return State{}, err
	}

	key := string(raw)
	if r.hasLast && key == r.lastKey {
		return r.lastState, nil
	}

	state := classify(snap, r.cat)
	r.lastKey = key
	r.lastState = state
	r.hasLast = true
	return state, nil
}

func (r *Reader) readSnapshot() (snapshot, []byte, error) {
	ranges := []memory.Range{
		{Addr: r.cat.GMainAddr + schema.GMainCallback2Offset, Len: 4},
		{Addr: r.cat.TaskSlotsAddr, Len: schema.TaskSlotSize * schema.TaskCount},
		{Addr: r.cat.TextPrintersAddr, Len: schema.TextPrinterSize * schema.TextPrinterCount},
	}
	if r.cat.StartMenuStateAddr != 0 {
		ranges = append(ranges, memory.Range{Addr: r.cat.StartMenuStateAddr, Len: schema.StartMenuWindowIDSize})
	}
	if r.cat.BagMenuStateAddr != 0 {
		ranges = append(ranges, memory.Range{Addr: r.cat.BagMenuStateAddr, Len: schema.BagMenuStateSize})
	}
	if r.cat.StringVar4Addr != 0 {
		ranges = append(ranges, memory.Range{Addr: r.cat.StringVar4Addr, Len: schema.VisibleTextBufferLen})
	}

	segments, err := r.client.ReadRanges(ranges)
	if err != nil {
		return snapshot{}, nil, err
	}
	if len(segments) < len(ranges) || len(segments[0]) < 4 {
		return snapshot{}, nil, fmt.Errorf("dialog: short snapshot read")
	}

	snap := snapshot{
		mainCallback: schema.Address(encoding.Read32(segments[0], 0)),
		tasks:        segments[1],
		textPrinters: segments[2],
	}
	idx := 3
	snap.startMenuID = schema.WindowInvalidID
	if r.cat.StartMenuStateAddr != 0 {
		if len(segments[idx]) > 0 {
			snap.startMenuID = segments[idx][0]
		}
		idx++
	}
	if r.cat.BagMenuStateAddr != 0 {
		if len(segments[idx]) > 0 {
			snap.bagMenuState = segments[idx][0]
		}
		idx++
	}
	if r.cat.StringVar4Addr != 0 && idx < len(segments) {
		snap.textBuf = segments[idx]
	}

	var flat []byte
	for _, s := range segments {
		flat = append(flat, s...)
	}
	return snap, flat, nil
}

// classify applies the priority tree: callback-address match against
// the resolved MenuCallbacks table, falling back to text-printer
// activity alone (plain field dialog with no menu task running).
func classify(snap snapshot, cat *schema.Catalog) State {
	textActive, currentChar := textPrinterActive(snap.textPrinters)

	// Function pointers read back from RAM carry the Thumb bit; the
	// symbol table's addresses don't. Compare with bit 0 cleared.
	mainCB := snap.mainCallback &^ 1
	menuType := ""
	for _, candidate := range priority {
		addr, ok := cat.MenuCallbacks[candidate]
		if !ok || addr == 0 {
			continue
		}
		if taskMatches(snap.tasks, addr) || mainCB == addr&^1 {
			menuType = candidate
			break
		}
	}

	startMenuOpen := snap.startMenuID != schema.WindowInvalidID && snap.startMenuID != 0
	if menuType == "" && startMenuOpen {
		menuType = "startMenu"
	}

	inDialog := menuType != "" || (textActive && currentChar != 0)
	if menuType == "" && inDialog {
		menuType = "dialog"
	}

	state := State{
		InDialog:          inDialog,
		MenuType:          menuType,
		TextPrinterActive: textActive,
	}

	if menuType == "yesNo" || menuType == "multichoice" {
		state.ChoiceMenu = &ChoiceMenu{}
	}

	if inDialog && len(snap.textBuf) > 0 {
		cursorLine := -1
		if state.ChoiceMenu != nil {
			cursorLine = state.ChoiceMenu.Cursor
		}
		if visible := DecodeVisibleText(snap.textBuf, len(snap.textBuf), cursorLine); visible != "" {
			state.VisibleText = &visible
		}
	}

	return state
}

// taskMatches reports whether any active task slot's function pointer
// equals addr.
func taskMatches(tasks []byte, addr schema.Address) bool {
	for i := 0; i < schema.TaskCount; i++ {
		base := i * schema.TaskSlotSize
		if base+schema.TaskSlotSize > len(tasks) {
			break
		}
		entry := tasks[base : base+schema.TaskSlotSize]
		if entry[schema.TaskIsActiveOffset] == 0 {
			continue
		}
		fn := schema.Address(encoding.Read32(entry, schema.TaskFuncOffset))
		if fn&^1 == addr&^1 {
			return true
		}
	}
	return false
}

// textPrinterActive reports whether the first text printer slot is
// active along with its currentChar value; the classifier treats an
// active printer with a nonzero currentChar as text being drawn.
func textPrinterActive(raw []byte) (active bool, currentChar byte) {
	if len(raw) < schema.TextPrinterSize {
		return false, 0
	}
	entry := raw[:schema.TextPrinterSize]
	active = entry[schema.TextPrinterActiveOffset] != 0
	currentChar = entry[schema.TextPrinterCurrentCharOffset]
	return active, currentChar
}

// DecodeVisibleText decodes a raw text buffer, marking the currently
// highlighted multichoice option by prefixing its decoded line with the
// "►" cursor glyph.
func DecodeVisibleText(buf []byte, maxLen int, cursorLine int) string {
	decoded := text.Decode(buf, maxLen)
	lines := strings.Split(decoded, "\n")
	if cursorLine >= 0 && cursorLine < len(lines) {
		lines[cursorLine] = "►" + lines[cursorLine]
	}
	return strings.Join(lines, "\n")
}
