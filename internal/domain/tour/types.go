package tour

type Status string

const (
	StatusScheduled Status = "scheduled"
	StatusOngoing   Status = "ongoing"
	StatusDone      Status = "done"
	StatusCancelled Status = "cancelled"
)

func (s Status) String() string {
	return string(s)
}

func (s Status) IsValid() bool {
	switch s {
	case StatusScheduled, StatusOngoing, StatusDone, StatusCancelled:
		return true
	default:
		return false
	}
}

func (s Status) IsTerminal() bool {
	return s == StatusDone || s == StatusCancelled
}

type Kind string

const (
	KindPublic  Kind = "public"
	KindPrivate Kind = "private"
)

func (k Kind) String() string {
	return string(k)
}

func (k Kind) IsValid() bool {
	switch k {
	case KindPublic, KindPrivate:
		return true
	default:
		return false
	}
}

type PricingMode string

const (
	PricingPerPerson PricingMode = "per_person"
	PricingFlatFee   PricingMode = "flat_fee"
)

func (m PricingMode) String() string {
	return string(m)
}

func (m PricingMode) IsValid() bool {
	switch m {
	case PricingPerPerson, PricingFlatFee:
		return true
	default:
		return false
	}
}
