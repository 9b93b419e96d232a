package msg

import (
	"fmt"

	"github.com/tiaotiao0823/Poker/core/errors"
)

type Error = errors.Error

const (
	Code_OK                  int32 = 0
	Code_BadRequest          int32 = 1000
	Code_InvalidAction       int32 = 1001
	Code_RoomFull            int32 = 1002
	Code_DuplicateSeat       int32 = 1003
	Code_EmptyDeck           int32 = 1004
	Code_InsufficientPlayers int32 = 1005
	Code_InsufficientChips   int32 = 1006
	Code_RoomNotFound        int32 = 1007
	Code_NotSeated           int32 = 1008
)

var (
	ErrBadRequest          = errors.New(Code_BadRequest, "bad request")
	ErrInvalidAction       = errors.New(Code_InvalidAction, "invalid action")
	ErrRoomFull            = errors.New(Code_RoomFull, "room is full")
	ErrDuplicateSeat       = errors.New(Code_DuplicateSeat, "already seated")
	ErrEmptyDeck           = errors.New(Code_EmptyDeck, "deck is empty")
	ErrInsufficientPlayers = errors.New(Code_InsufficientPlayers, "need at least two players")
	ErrInsufficientChips   = errors.New(Code_InsufficientChips, "insufficient chips")
	ErrRoomNotFound        = errors.New(Code_RoomNotFound, "room not found")
	ErrNotSeated           = errors.New(Code_NotSeated, "not seated at this table")
)

func InvalidActionf(format string, args ...interface{}) *Error {
	return errors.New(Code_InvalidAction, fmt.Sprintf(format, args...))
}

// FromError converts any error into a wire Error.
func FromError(err error) *Error {
	return errors.FromError(err)
}
