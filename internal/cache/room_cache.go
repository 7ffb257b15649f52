package cache

import (
	"fmt"
	"time"

	"github.com/TinLeaves/COMP-3920-Assignment-2/internal/repository"
	"github.com/vmihailenco/msgpack/v5"
)

// TTL constants for different cache types
const (
	RoomMessagesTTL = 5 * time.Minute
	MemberListTTL   = 2 * time.Minute
)

// RoomCache caches viewer-independent room data. Message rows are cached
// before unread annotation, so one cached page serves every member.
type RoomCache struct {
	redis *RedisCache
}

// NewRoomCache creates a new room cache
func NewRoomCache(redis *RedisCache) *RoomCache {
	return &RoomCache{redis: redis}
}

func roomMessagesKey(roomID uint) string {
	return fmt.Sprintf("room:msgs:%d", roomID)
}

func roomMembersKey(roomID uint) string {
	return fmt.Sprintf("room:members:%d", roomID)
}

// GetRoomMessages retrieves cached message rows for a room
func (rc *RoomCache) GetRoomMessages(roomID uint) ([]repository.MessageRow, bool) {
	if rc == nil || rc.redis == nil {
		return nil, false
	}
	data, err := rc.redis.Get(roomMessagesKey(roomID))
	if err != nil || data == nil {
		return nil, false
	}

	var rows []repository.MessageRow
	if err := msgpack.Unmarshal(data, &rows); err != nil {
		return nil, false
	}

	return rows, true
}

// SetRoomMessages caches message rows for a room
func (rc *RoomCache) SetRoomMessages(roomID uint, rows []repository.MessageRow) error {
	if rc == nil || rc.redis == nil {
		return nil
	}
	data, err := msgpack.Marshal(rows)
	if err != nil {
		return err
	}

	return rc.redis.Set(roomMessagesKey(roomID), data, RoomMessagesTTL)
}

// InvalidateRoomMessages removes a room's cached message rows
func (rc *RoomCache) InvalidateRoomMessages(roomID uint) error {
	if rc == nil || rc.redis == nil {
		return nil
	}
	return rc.redis.Delete(roomMessagesKey(roomID))
}

// GetMembers retrieves a cached member username list
func (rc *RoomCache) GetMembers(roomID uint) ([]string, bool) {
	if rc == nil || rc.redis == nil {
		return nil, false
	}
	data, err := rc.redis.Get(roomMembersKey(roomID))
	if err != nil || data == nil {
		return nil, false
	}

	var usernames []string
	if err := msgpack.Unmarshal(data, &usernames); err != nil {
		return nil, false
	}

	return usernames, true
}

// SetMembers caches a member username list
func (rc *RoomCache) SetMembers(roomID uint, usernames []string) error {
	if rc == nil || rc.redis == nil {
		return nil
	}
	data, err := msgpack.Marshal(usernames)
	if err != nil {
		return err
	}

	return rc.redis.Set(roomMembersKey(roomID), data, MemberListTTL)
}

// InvalidateMembers removes a room's cached member list
func (rc *RoomCache) InvalidateMembers(roomID uint) error {
	if rc == nil || rc.redis == nil {
		return nil
	}
	return rc.redis.Delete(roomMembersKey(roomID))
}
