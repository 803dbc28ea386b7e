package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"chatcore/internal/chat/service/mocks"
	"chatcore/internal/common"
	"chatcore/internal/dbmysql"
)

func newRoomService(t *testing.T) (RoomService, *mocks.MockRoomRepository, *mocks.MockUserRepository) {
	t.Helper()
	ctrl := gomock.NewController(t)
	rooms := mocks.NewMockRoomRepository(ctrl)
	users := mocks.NewMockUserRepository(ctrl)
	return NewRoomService(rooms, users), rooms, users
}

func TestCreateUser(t *testing.T) {
	svc, _, users := newRoomService(t)
	ctx := context.Background()

	users.EXPECT().Create(ctx, gomock.Any()).Return(nil)

	user, err := svc.CreateUser(ctx, "alice")
	require.NoError(t, err)
	assert.Equal(t, "alice", user.Username)
	assert.NotEmpty(t, user.UserID)

	_, err = svc.CreateUser(ctx, "")
	assert.Error(t, err)
}

func TestCreateRoom(t *testing.T) {
	ctx := context.Background()
	alice := dbmysql.User{UserID: "alice", Username: "alice"}
	bob := dbmysql.User{UserID: "bob", Username: "bob"}

	t.Run("private room", func(t *testing.T) {
		svc, rooms, users := newRoomService(t)
		users.EXPECT().ByIDs(ctx, []string{"alice", "bob"}).Return([]dbmysql.User{alice, bob}, nil)
		rooms.EXPECT().Create(ctx, gomock.Any()).Return(nil)

		// Duplicate ids collapse before validation.
		room, err := svc.CreateRoom(ctx, "", common.ChatTypePrivate, "alice", []string{"alice", "bob", "alice"})
		require.NoError(t, err)
		assert.NotEmpty(t, room.ID)
		assert.Len(t, room.Participants, 2)
	})

	t.Run("too few participants", func(t *testing.T) {
		svc, _, _ := newRoomService(t)
		_, err := svc.CreateRoom(ctx, "", common.ChatTypePrivate, "alice", []string{"alice", "alice"})
		assert.Error(t, err)
	})

	t.Run("private with three participants", func(t *testing.T) {
		svc, _, _ := newRoomService(t)
		_, err := svc.CreateRoom(ctx, "", common.ChatTypePrivate, "alice", []string{"alice", "bob", "carol"})
		assert.Error(t, err)
	})

	t.Run("unknown participant", func(t *testing.T) {
		svc, _, users := newRoomService(t)
		users.EXPECT().ByIDs(ctx, []string{"alice", "ghost"}).Return([]dbmysql.User{alice}, nil)

		_, err := svc.CreateRoom(ctx, "", common.ChatTypePrivate, "alice", []string{"alice", "ghost"})
		assert.Error(t, err)
	})

	t.Run("invalid chat type", func(t *testing.T) {
		svc, _, _ := newRoomService(t)
		_, err := svc.CreateRoom(ctx, "", common.ChatType("channel"), "alice", []string{"alice", "bob"})
		assert.Error(t, err)
	})
}

func TestDisplayName(t *testing.T) {
	svc, _, _ := newRoomService(t)
	alice := dbmysql.User{UserID: "alice", Username: "alice"}
	bob := dbmysql.User{UserID: "bob", Username: "bob"}

	private := &dbmysql.Room{ID: "r1", ChatType: common.ChatTypePrivate, Participants: []dbmysql.User{alice, bob}}
	assert.Equal(t, "Chat between alice and bob", svc.DisplayName(private))

	named := &dbmysql.Room{ID: "r2", ChatType: common.ChatTypeGroup, Name: "devs"}
	assert.Equal(t, "devs", svc.DisplayName(named))

	unnamed := &dbmysql.Room{ID: "r3", ChatType: common.ChatTypeGroup}
	assert.Equal(t, "Group r3", svc.DisplayName(unnamed))
}
