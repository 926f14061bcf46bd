package booking

type Status string

const (
	StatusConfirmed Status = "confirmed"
	StatusCancelled Status = "cancelled"
)

func (s Status) String() string {
	return string(s)
}

func (s Status) IsValid() bool {
	switch s {
	case StatusConfirmed, StatusCancelled:
		return true
	default:
		return false
	}
}

// Provenance records how the reservation entered the system.
type Provenance string

const (
	ProvenancePortal Provenance = "portal"
	ProvenanceGuest  Provenance = "guest"
)

func (p Provenance) String() string {
	return string(p)
}

func (p Provenance) IsValid() bool {
	switch p {
	case ProvenancePortal, ProvenanceGuest:
		return true
	default:
		return false
	}
}
