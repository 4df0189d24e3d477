package party

// JoinStatus is the outcome of a Join call, stable across calls so the
// transport layer can map it to user-facing messages.
type JoinStatus string

const (
	JoinSuccess          JoinStatus = "SUCCESS"
	JoinAlreadyJoined    JoinStatus = "ALREADY_JOINED"
	JoinAlreadyInQueue   JoinStatus = "ALREADY_IN_THE_QUEUE"
	JoinNoAvailableSeats JoinStatus = "NO_AVAILABLE_SEATS"
	JoinCantCreateUser   JoinStatus = "CANT_CREATE_USER"
	JoinUnexpectedError  JoinStatus = "UNEXPECTED_ERROR"
)

// LeaveStatus is the outcome of a Leave call.
type LeaveStatus string

const (
	LeaveSuccess          LeaveStatus = "SUCCESS"
	LeaveNotInTheParty    LeaveStatus = "NOT_IN_THE_PARTY"
	LeaveCantRetrieveUser LeaveStatus = "CANT_RETRIEVE_USER"
	LeaveUnknownError     LeaveStatus = "UNKNOWN_ERROR"
)

// CreateStatus is the outcome of a CreateParty call.
type CreateStatus string

const (
	CreateSuccess      CreateStatus = "SUCCESS"
	CreateTooManySeats CreateStatus = "TOO_MANY_SEATS"
	CreateCantOwner    CreateStatus = "CANT_CREATE_USER"
	CreateUnknownError CreateStatus = "UNKNOWN_ERROR"
)

// JoinResult is what Join reports back to the transport layer.
type JoinResult struct {
	Status JoinStatus
}

// LeaveResult is what Leave reports back. PropagatedUser is the internal id
// of the queued user promoted into the vacated seat, nil when no propagation
// happened.
type LeaveResult struct {
	Status         LeaveStatus
	PropagatedUser *int64
}

// CreateResult is what CreateParty reports back. PartyID is only meaningful
// on CreateSuccess.
type CreateResult struct {
	Status  CreateStatus
	PartyID int64
}
