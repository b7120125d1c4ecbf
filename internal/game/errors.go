package game

import "errors"

// Business-rule failures. These are terminal results for a call, not
// transient faults; the HTTP layer maps them to 4xx responses.
var (
	ErrUserNotFound      = errors.New("user not found")
	ErrNoWorms           = errors.New("no worms left")
	ErrNoPendingCatch    = errors.New("no pending catch")
	ErrCreelFull         = errors.New("creel is full")
	ErrInvalidIndex      = errors.New("invalid index")
	ErrUnknownItem       = errors.New("unknown item")
	ErrInsufficientFunds = errors.New("not enough money")
	ErrSlotOccupied      = errors.New("slot occupied")
	ErrSlotEmpty         = errors.New("slot is empty")
	ErrInvalidSlot       = errors.New("invalid slot")
	ErrUnknownItemType   = errors.New("unknown item type")
)

var businessErrors = []error{
	ErrUserNotFound,
	ErrNoWorms,
	ErrNoPendingCatch,
	ErrCreelFull,
	ErrInvalidIndex,
	ErrUnknownItem,
	ErrInsufficientFunds,
	ErrSlotOccupied,
	ErrSlotEmpty,
	ErrInvalidSlot,
	ErrUnknownItemType,
}

// IsBusinessError reports whether err is a game-rule failure rather than
// a systemic one (such as a storage write error).
func IsBusinessError(err error) bool {
	for _, e := range businessErrors {
		if errors.Is(err, e) {
			return true
		}
	}
	return false
}
