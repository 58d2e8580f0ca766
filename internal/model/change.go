package model

// ChangeKind tags a store notification with how much of the UI must re-render.
type ChangeKind int

const (
	// ChangeInit is the initial load.
	ChangeInit ChangeKind = iota
	// ChangePatch touches a single card.
	ChangePatch
	// ChangeMinor touches a card and its open overlay without reshuffling the list.
	ChangeMinor
	// ChangeMajor requires recomputing the visible list from the whole collection.
	ChangeMajor
)

func (k ChangeKind) String() string {
	switch k {
	case ChangeInit:
		return "INIT"
	case ChangePatch:
		return "PATCH"
	case ChangeMinor:
		return "MINOR"
	case ChangeMajor:
		return "MAJOR"
	default:
		return "UNKNOWN"
	}
}

type Action int

const (
	ActionUpdateFlags Action = iota
	ActionAddComment
	ActionDeleteComment
)

func (a Action) String() string {
	switch a {
	case ActionUpdateFlags:
		return "UPDATE_FLAGS"
	case ActionAddComment:
		return "ADD_COMMENT"
	case ActionDeleteComment:
		return "DELETE_COMMENT"
	default:
		return "UNKNOWN"
	}
}
