package service

import (
	"context"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"chatcore/internal/chat/service/mocks"
	"chatcore/internal/common"
	"chatcore/internal/dbmysql"
)

type mockedEngine struct {
	rooms    *mocks.MockRoomRepository
	messages *mocks.MockMessageRepository
	receipts *mocks.MockReceiptRepository
	presence *mocks.MockPresence
	engine   DeliveryService
}

func newMockedEngine(t *testing.T) *mockedEngine {
	t.Helper()
	ctrl := gomock.NewController(t)
	m := &mockedEngine{
		rooms:    mocks.NewMockRoomRepository(ctrl),
		messages: mocks.NewMockMessageRepository(ctrl),
		receipts: mocks.NewMockReceiptRepository(ctrl),
		presence: mocks.NewMockPresence(ctrl),
	}
	m.engine = NewDeliveryService(m.rooms, m.messages, m.receipts, m.presence, 0)
	return m
}

func twoUserRoom() *dbmysql.Room {
	return &dbmysql.Room{
		ID:       "room-1",
		ChatType: common.ChatTypePrivate,
		Participants: []dbmysql.User{
			{UserID: "alice", Username: "alice"},
			{UserID: "bob", Username: "bob"},
		},
	}
}

func TestSend_StorageFailureAbortsSend(t *testing.T) {
	m := newMockedEngine(t)
	ctx := context.Background()

	m.rooms.EXPECT().ByID(ctx, "room-1").Return(twoUserRoom(), nil)
	m.presence.EXPECT().ConnectedRecipients("room-1", []string{"bob"}).Return(nil)
	m.messages.EXPECT().
		Append(ctx, gomock.Any(), gomock.Any()).
		Return(fmt.Errorf("insert message: %w", common.ErrStorageFailure))

	res, err := m.engine.Send(ctx, "room-1", "alice", "hi")
	assert.ErrorIs(t, err, common.ErrStorageFailure)
	assert.Nil(t, res)
}

func TestSend_RoomLookupFailureShortCircuits(t *testing.T) {
	m := newMockedEngine(t)
	ctx := context.Background()

	// No Append expectation: a failed lookup must never reach the store.
	m.rooms.EXPECT().ByID(ctx, "room-1").Return(nil, common.ErrRoomNotFound)

	_, err := m.engine.Send(ctx, "room-1", "alice", "hi")
	assert.ErrorIs(t, err, common.ErrRoomNotFound)
}

func TestSend_NonParticipantShortCircuits(t *testing.T) {
	m := newMockedEngine(t)
	ctx := context.Background()

	m.rooms.EXPECT().ByID(ctx, "room-1").Return(twoUserRoom(), nil)

	_, err := m.engine.Send(ctx, "room-1", "mallory", "hi")
	assert.ErrorIs(t, err, common.ErrNotParticipant)
}

func TestUpdateStatus_InvalidStatusRejectedBeforeLookup(t *testing.T) {
	m := newMockedEngine(t)

	changed, err := m.engine.UpdateStatus(context.Background(), 1, "bob", common.Status("seen"))
	assert.Error(t, err)
	assert.False(t, changed)
}

func TestUpdateStatus_MissingReceiptStopsAdvance(t *testing.T) {
	m := newMockedEngine(t)
	ctx := context.Background()

	msg := &dbmysql.Message{ID: 7, RoomID: "room-1", SenderID: "alice"}
	m.messages.EXPECT().ByID(ctx, uint(7)).Return(msg, nil)
	m.receipts.EXPECT().
		Find(ctx, uint(7), "mallory").
		Return(nil, fmt.Errorf("receipt for user mallory: %w", common.ErrNotRecipient))

	changed, err := m.engine.UpdateStatus(ctx, 7, "mallory", common.StatusRead)
	assert.ErrorIs(t, err, common.ErrNotRecipient)
	assert.False(t, changed)
}

func TestOnConnect_BacklogFailureStillRegistersPresence(t *testing.T) {
	m := newMockedEngine(t)
	ctx := context.Background()

	m.presence.EXPECT().Connect("bob", "room-1")
	m.receipts.EXPECT().
		MarkBacklogDelivered(ctx, "room-1", "bob", gomock.Any()).
		Return(nil, fmt.Errorf("update receipts: %w", common.ErrStorageFailure))

	ids, err := m.engine.OnConnect(ctx, "bob", "room-1")
	require.ErrorIs(t, err, common.ErrStorageFailure)
	assert.Nil(t, ids)
}
