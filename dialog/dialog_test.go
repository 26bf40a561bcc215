package dialog

import (
	"testing"

	gomock "github.com/golang/mock/gomock"
	"github.com/stretchr/testify/require"

	"github.com/fireredbridge/corebridge/encoding"
	"github.com/fireredbridge/corebridge/memory"
	"github.com/fireredbridge/corebridge/schema"
)

func newTestCatalog() *schema.Catalog {
	return &schema.Catalog{
		GMainAddr:          0x03000000,
		TaskSlotsAddr:      0x03001000,
		TextPrintersAddr:   0x03002000,
		StartMenuStateAddr: 0x03003000,
		BagMenuStateAddr:   0x03004000,
		MenuCallbacks: map[string]schema.Address{
			"yesNo":   0x08001000,
			"dialog":  0x08002000,
			"bagMenu": 0x08003000,
		},
	}
}

func buildRanges(cat *schema.Catalog, mainCallback schema.Address, tasks []byte, textPrinters []byte, startMenuID, bagMenuState uint8) [][]byte {
	cb := make([]byte, 4)
	encoding.Write32(cb, uint32(mainCallback))
	return [][]byte{cb, tasks, textPrinters, {startMenuID}, {bagMenuState}}
}

func TestClassify_TextPrinterActiveWithoutMenuIsPlainDialog(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()
	link := memory.NewMockLink(ctrl)

	cat := newTestCatalog()
	tasks := make([]byte, schema.TaskSlotSize*schema.TaskCount)
	textPrinters := make([]byte, schema.TextPrinterSize*schema.TextPrinterCount)
	textPrinters[schema.TextPrinterActiveOffset] = 1
	textPrinters[schema.TextPrinterCurrentCharOffset] = 'A'

	ranges := buildRanges(cat, 0, tasks, textPrinters, schema.WindowInvalidID, 0)
	link.EXPECT().ReadRanges(gomock.Any()).Return(ranges, nil).Times(1)

	client := memory.NewClient(link, nil)
	r := NewReader(client, cat)

	state, err := r.Read()
	require.NoError(t, err)
	require.True(t, state.InDialog)
	require.Equal(t, "dialog", state.MenuType)
	require.True(t, state.TextPrinterActive)
}

func TestClassify_TaskMatchYieldsMenuType(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()
	link := memory.NewMockLink(ctrl)

	cat := newTestCatalog()
	tasks := make([]byte, schema.TaskSlotSize*schema.TaskCount)
	tasks[schema.TaskIsActiveOffset] = 1
	encoding.Write32(tasks[schema.TaskFuncOffset:], uint32(0x08001000))
	textPrinters := make([]byte, schema.TextPrinterSize*schema.TextPrinterCount)

	ranges := buildRanges(cat, 0, tasks, textPrinters, schema.WindowInvalidID, 0)
	link.EXPECT().ReadRanges(gomock.Any()).Return(ranges, nil).Times(1)

	client := memory.NewClient(link, nil)
	r := NewReader(client, cat)

	state, err := r.Read()
	require.NoError(t, err)
	require.Equal(t, "yesNo", state.MenuType)
	require.NotNil(t, state.ChoiceMenu)
}

func TestClassify_InactiveTaskSlotIsIgnored(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()
	link := memory.NewMockLink(ctrl)

	cat := newTestCatalog()
	tasks := make([]byte, schema.TaskSlotSize*schema.TaskCount)
	encoding.Write32(tasks[schema.TaskFuncOffset:], uint32(0x08001000)) // func set but isActive=0
	textPrinters := make([]byte, schema.TextPrinterSize*schema.TextPrinterCount)

	ranges := buildRanges(cat, 0, tasks, textPrinters, schema.WindowInvalidID, 0)
	link.EXPECT().ReadRanges(gomock.Any()).Return(ranges, nil).Times(1)

	client := memory.NewClient(link, nil)
	r := NewReader(client, cat)

	state, err := r.Read()
	require.NoError(t, err)
	require.False(t, state.InDialog)
	require.Equal(t, "", state.MenuType)
}

func TestRead_CacheHitOnIdenticalBytesSkipsReclassification(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()
	link := memory.NewMockLink(ctrl)

	cat := newTestCatalog()
	tasks := make([]byte, schema.TaskSlotSize*schema.TaskCount)
	textPrinters := make([]byte, schema.TextPrinterSize*schema.TextPrinterCount)
	ranges := buildRanges(cat, 0, tasks, textPrinters, schema.WindowInvalidID, 0)

	link.EXPECT().ReadRanges(gomock.Any()).Return(ranges, nil).Times(2)

	client := memory.NewClient(link, nil)
	r := NewReader(client, cat)

	first, err := r.Read()
	require.NoError(t, err)
	second, err := r.Read()
	require.NoError(t, err)
	require.Equal(t, first, second)
}

func TestClassify_ThumbBitOnTaskPointerStillMatches(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()
	link := memory.NewMockLink(ctrl)

	cat := newTestCatalog()
	tasks := make([]byte, schema.TaskSlotSize*schema.TaskCount)
	tasks[schema.TaskIsActiveOffset] = 1
	// RAM function pointers carry the Thumb bit.
	encoding.Write32(tasks[schema.TaskFuncOffset:], uint32(0x08001001))
	textPrinters := make([]byte, schema.TextPrinterSize*schema.TextPrinterCount)

	ranges := buildRanges(cat, 0, tasks, textPrinters, schema.WindowInvalidID, 0)
	link.EXPECT().ReadRanges(gomock.Any()).Return(ranges, nil).Times(1)

	client := memory.NewClient(link, nil)
	r := NewReader(client, cat)

	state, err := r.Read()
	require.NoError(t, err)
	require.Equal(t, "yesNo", state.MenuType)
}

func TestRead_VisibleTextDecodedFromStringBuffer(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()
	link := memory.NewMockLink(ctrl)

	cat := newTestCatalog()
	cat.StringVar4Addr = 0x02021000

	tasks := make([]byte, schema.TaskSlotSize*schema.TaskCount)
	textPrinters := make([]byte, schema.TextPrinterSize*schema.TextPrinterCount)
	textPrinters[schema.TextPrinterActiveOffset] = 1
	textPrinters[schema.TextPrinterCurrentCharOffset] = 'A'

	textBuf := make([]byte, schema.VisibleTextBufferLen)
	textBuf[0] = 0xC4 // 'A'
	textBuf[1] = 0xC5 // 'B'
	textBuf[2] = 0xFF // terminator

	ranges := buildRanges(cat, 0, tasks, textPrinters, schema.WindowInvalidID, 0)
	ranges = append(ranges, textBuf)
	link.EXPECT().ReadRanges(gomock.Any()).Return(ranges, nil).Times(1)

	client := memory.NewClient(link, nil)
	r := NewReader(client, cat)

	state, err := r.Read()
	require.NoError(t, err)
	require.True(t, state.InDialog)
	require.NotNil(t, state.VisibleText)
	require.Equal(t, "AB", *state.VisibleText)
}

func TestDecodeVisibleText_MarksCursorLine(t *testing.T) {
	// 0xC4='A', 0xF9='\n', 0xC5='B', 0xFF=terminator (text package charmap).
	buf := []byte{0xC4, 0xF9, 0xC5, 0xFF}
	out := DecodeVisibleText(buf, len(buf), 1)
	require.Equal(t, "A\n►B", out)
}
