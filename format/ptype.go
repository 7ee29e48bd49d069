package format

import (
	"fmt"
	"strconv"

	"github.com/psxtools/backport/errs"
)

// ProgramType is the program type code embedded in a container's
// authentication record.
type ProgramType uint32

const (
	PTypeFake         ProgramType = 0x1
	PTypeNPDRMExec    ProgramType = 0x4
	PTypeNPDRMDynlib  ProgramType = 0x5
	PTypeSystemExec   ProgramType = 0x8
	PTypeSystemDynlib ProgramType = 0x9
)

// programTypeNames maps symbolic names to codes. New named types are added
// here, not as parser branches.
var programTypeNames = map[string]ProgramType{
	"fake":          PTypeFake,
	"npdrm_exec":    PTypeNPDRMExec,
	"npdrm_dynlib":  PTypeNPDRMDynlib,
	"system_exec":   PTypeSystemExec,
	"system_dynlib": PTypeSystemDynlib,
}

// recognized is the set of codes the encoder accepts, derived from the name
// table at init and never mutated afterward.
var recognized = func() map[ProgramType]struct{} {
	m := make(map[ProgramType]struct{}, len(programTypeNames))
	for _, p := range programTypeNames {
		m[p] = struct{}{}
	}

	return m
}()

// ParseProgramType resolves a symbolic program type name, or failing that,
// parses the input as a bare integer (0x-prefixed hex or decimal).
//
// Returns:
//   - ProgramType: the resolved code
//   - error: wraps ErrUnknownProgramType when the input is neither a known
//     name nor a valid integer
func ParseProgramType(s string) (ProgramType, error) {
	if p, ok := programTypeNames[s]; ok {
		return p, nil
	}

	v, err := strconv.ParseUint(s, 0, 32)
	if err != nil {
		return 0, fmt.Errorf("%w: %q", errs.ErrUnknownProgramType, s)
	}

	return ProgramType(v), nil
}

// Recognized reports whether the code belongs to the platform's recognized
// program type set.
func (p ProgramType) Recognized() bool {
	_, ok := recognized[p]

	return ok
}

func (p ProgramType) String() string {
	switch p {
	case PTypeFake:
		return "fake"
	case PTypeNPDRMExec:
		return "npdrm_exec"
	case PTypeNPDRMDynlib:
		return "npdrm_dynlib"
	case PTypeSystemExec:
		return "system_exec"
	case PTypeSystemDynlib:
		return "system_dynlib"
	default:
		return fmt.Sprintf("0x%X", uint32(p))
	}
}
