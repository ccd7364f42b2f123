package trait

// Access describes how a module uses a trait.
type Access int

const (
	Unknown   Access = iota
	Private          // read and write; no other module may use it
	Owned            // read and write; others may only read
	Shared           // read and write; others may too
	Required         // read only; another module must write it
	Generated        // read and write; another module must read it
	Optional         // read only if some other module provides it
)

var accessNames = [...]string{"UNKNOWN", "PRIVATE", "OWNED", "SHARED", "REQUIRED", "GENERATED", "OPTIONAL"}

func (a Access) String() string {
	if a < 0 || int(a) >= len(accessNames) {
		return "UNKNOWN"
	}
	return accessNames[a]
}

// Writes reports whether a claim with this access produces values.
func (a Access) Writes() bool {
	switch a {
	case Private, Owned, Shared, Generated:
		return true
	}
	return false
}

// Reads reports whether a claim with this access consumes values produced
// by another module.
func (a Access) Reads() bool {
	switch a {
	case Required, Optional, Shared:
		return true
	}
	return false
}

// Init is the policy used to set a trait in a newly born organism. Injected
// organisms keep whatever values they were built or cloned with.
type Init int

const (
	InitDefault Init = iota // reset to the default value
	InitFirst               // copy from the first parent
	InitAverage             // average over all parents
	InitMinimum             // lowest parent value
	InitMaximum             // highest parent value
)

func (i Init) String() string {
	switch i {
	case InitFirst:
		return "FIRST"
	case InitAverage:
		return "AVERAGE"
	case InitMinimum:
		return "MINIMUM"
	case InitMaximum:
		return "MAXIMUM"
	}
	return "DEFAULT"
}

// Archive selects which older values of a trait are kept alongside it.
type Archive int

const (
	ArchiveNone      Archive = iota
	ArchiveAtBirth           // value at birth, in "birth_<name>"
	ArchiveLastRepro         // value at the last reproduction, in "last_<name>"
)

// Prefix returns the name prefix of the companion slot, or "".
func (a Archive) Prefix() string {
	switch a {
	case ArchiveAtBirth:
		return "birth_"
	case ArchiveLastRepro:
		return "last_"
	}
	return ""
}
