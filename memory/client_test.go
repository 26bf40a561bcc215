package memory

import (
	"errors"
	"testing"

	gomock "github.com/golang/mock/gomock"
	"github.com/stretchr/testify/require"

	"github.com/fireredbridge/corebridge/schema"
)

func TestClient_ReadU32_Success(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	link := NewMockLink(ctrl)
	link.EXPECT().ReadU32(schema.Address(0x02000000)).Return(uint32(0xDEADBEEF), nil)

	c := NewClient(link, nil)
	v, err := c.ReadU32(0x02000000)
	require.NoError(t, err)
	require.Equal(t, uint32(0xDEADBEEF), v)
}

func TestClient_ReadU8_WrapsLinkError(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	link := NewMockLink(ctrl)
	link.EXPECT().ReadU8(schema.Address(0x03001000)).Return(uint8(0), ErrBridgeUnavailable)

	c := NewClient(link, nil)
	_, err := c.ReadU8(0x03001000)
	require.Error(t, err)
	require.True(t, errors.Is(err, ErrBridgeUnavailable))
}

func TestClient_ReadRanges_BatchesInOrder(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	ranges := []Range{{Addr: 0x1000, Len: 4}, {Addr: 0x2000, Len: 2}}
	link := NewMockLink(ctrl)
	link.EXPECT().ReadRanges(ranges).Return([][]byte{{1, 2, 3, 4}, {5, 6}}, nil)

	c := NewClient(link, nil)
	segs, err := c.ReadRanges(ranges)
	require.NoError(t, err)
	require.Equal(t, [][]byte{{1, 2, 3, 4}, {5, 6}}, segs)
}

func TestClient_Scope_AccountsCallsAndBytes(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	link := NewMockLink(ctrl)
	link.EXPECT().ReadU16(schema.Address(0x1000)).Return(uint16(7), nil)
	link.EXPECT().ReadRange(schema.Address(0x2000), 10).Return(make([]byte, 8), nil)

	c := NewClient(link, nil)
	scope := c.BeginScope()

	_, err := c.ReadU16(0x1000)
	require.NoError(t, err)
	_, err = c.ReadRange(0x2000, 10)
	require.NoError(t, err)

	require.Equal(t, 2, scope.Calls)
	require.Equal(t, 1, scope.Ranges)
	require.Equal(t, 10, scope.BytesRequested)
	require.Equal(t, 8, scope.BytesReturned)

	scope.Close()
}

func TestClient_Scope_NestedScopesRollUpToParent(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	link := NewMockLink(ctrl)
	link.EXPECT().ReadU8(schema.Address(0x1)).Return(uint8(1), nil)
	link.EXPECT().ReadU8(schema.Address(0x2)).Return(uint8(2), nil)

	c := NewClient(link, nil)
	outer := c.BeginScope()

	inner := c.BeginScope()
	_, _ = c.ReadU8(0x1)
	inner.Close()

	_, _ = c.ReadU8(0x2)

	require.Equal(t, 1, inner.Calls)
	require.Equal(t, 2, outer.Calls)

	outer.Close()
}

func TestClient_Scope_ClosedOutOfOrderPanics(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	link := NewMockLink(ctrl)
	c := NewClient(link, nil)

	outer := c.BeginScope()
	c.BeginScope()

	require.Panics(t, func() { outer.Close() })
}

func TestClient_Press_WrapsLinkError(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	link := NewMockLink(ctrl)
	link.EXPECT().Press([]string{"A"}).Return(ErrBridgeUnavailable)

	c := NewClient(link, nil)
	err := c.Press([]string{"A"})
	require.Error(t, err)
	require.True(t, errors.Is(err, ErrBridgeUnavailable))
}
