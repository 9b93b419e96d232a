// Package msg defines the JSON wire protocol between the poker server and
// connected clients.
package msg

// inbound message types
const (
	MsgType_JoinRoom   = "join_room"
	MsgType_LeaveRoom  = "leave_room"
	MsgType_GameAction = "game_action"
)

// outbound message types
const (
	MsgType_PlayerJoined    = "player_joined"
	MsgType_PlayerLeft      = "player_left"
	MsgType_GameStateUpdate = "game_state_update"
	MsgType_HandAborted     = "hand_aborted"
	MsgType_Error           = "error"
)

// game action kinds
const (
	Action_Fold  = "fold"
	Action_Call  = "call"
	Action_Raise = "raise"
)

// ClientMessage is the envelope for every inbound message. Fields beyond
// Type are set depending on the message kind.
type ClientMessage struct {
	Type   string `json:"type"`
	RoomId string `json:"roomId,omitempty"`
	UserId string `json:"userId,omitempty"`
	Action string `json:"action,omitempty"`
	Amount int64  `json:"amount,omitempty"`
}

// ServerMessage is the envelope for every outbound message.
type ServerMessage struct {
	Type   string     `json:"type"`
	RoomId string     `json:"roomId,omitempty"`
	UserId string     `json:"userId,omitempty"`
	State  *GameState `json:"state,omitempty"`
	Error  *Error     `json:"error,omitempty"`
	Detail string     `json:"detail,omitempty"`
}

// GameState is the table snapshot pushed to subscribers on every accepted
// state transition. HoleCards is only populated in the copy delivered to
// that player, or for everyone at showdown.
type GameState struct {
	RoomId         string        `json:"roomId"`
	HandId         string        `json:"handId,omitempty"`
	Phase          string        `json:"phase"`
	CommunityCards []string      `json:"communityCards"`
	Pots           []PotState    `json:"pots"`
	CurrentBet     int64         `json:"currentBet"`
	SmallBlind     int64         `json:"smallBlind"`
	BigBlind       int64         `json:"bigBlind"`
	DealerSeat     int           `json:"dealerSeat"`
	ActingSeat     int           `json:"actingSeat"`
	Players        []PlayerState `json:"players"`
	Winners        []WinnerState `json:"winners,omitempty"`
}

type PlayerState struct {
	UserId    string   `json:"userId"`
	Seat      int      `json:"seat"`
	Chips     int64    `json:"chips"`
	Bet       int64    `json:"bet"`
	Status    string   `json:"status"`
	HoleCards []string `json:"holeCards,omitempty"`
}

type PotState struct {
	Amount   int64    `json:"amount"`
	Eligible []string `json:"eligible"`
}

type WinnerState struct {
	UserId string `json:"userId"`
	Amount int64  `json:"amount"`
	Hand   string `json:"hand,omitempty"`
}
