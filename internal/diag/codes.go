package diag

import (
	"fmt"

	"wyweb/internal/vform"
)

type Code uint16

const (
	UnknownCode Code = 0

	SynError Code = 2001

	SemError Code = 3001

	GenError Code = 4001

	// Verification: one code per obligation kind, then vcgen failures.
	VerAssert             Code = 5001
	VerPrecondition       Code = 5002
	VerPostcondition      Code = 5003
	VerInvariantEntry     Code = 5004
	VerInvariantPreserved Code = 5005
	VerDivision           Code = 5006
	VerTypeInvariant      Code = 5007
	VerGenerate           Code = 5100

	IntError Code = 9001
)

var codeDescription = map[Code]string{
	UnknownCode:           "unknown error",
	SynError:              "syntax error",
	SemError:              "semantic error",
	GenError:              "code generation error",
	VerAssert:             "assertion may fail",
	VerPrecondition:       "precondition may not hold",
	VerPostcondition:      "postcondition may not hold",
	VerInvariantEntry:     "loop invariant may not hold on entry",
	VerInvariantPreserved: "loop invariant may not be preserved",
	VerDivision:           "possible division by zero",
	VerTypeInvariant:      "type invariant may not hold",
	VerGenerate:           "verification condition generation failed",
	IntError:              "internal error",
}

var kindCodes = map[vform.Kind]Code{
	vform.KindAssert:             VerAssert,
	vform.KindPrecondition:       VerPrecondition,
	vform.KindPostcondition:      VerPostcondition,
	vform.KindInvariantEntry:     VerInvariantEntry,
	vform.KindInvariantPreserved: VerInvariantPreserved,
	vform.KindDivision:           VerDivision,
	vform.KindTypeInvariant:      VerTypeInvariant,
}

// KindCode returns the code of a failed obligation.
func KindCode(k vform.Kind) Code {
	if c, ok := kindCodes[k]; ok {
		return c
	}
	return VerAssert
}

func (c Code) ID() string {
	switch ic := int(c); {
	case ic >= 2000 && ic < 3000:
		return fmt.Sprintf("SYN%04d", ic)
	case ic >= 3000 && ic < 4000:
		return fmt.Sprintf("SEM%04d", ic)
	case ic >= 4000 && ic < 5000:
		return fmt.Sprintf("GEN%04d", ic)
	case ic >= 5000 && ic < 6000:
		return fmt.Sprintf("VER%04d", ic)
	case ic >= 9000 && ic < 10000:
		return fmt.Sprintf("INT%04d", ic)
	}
	return "E0000"
}

func (c Code) Title() string {
	desc, ok := codeDescription[c]
	if !ok {
		return codeDescription[UnknownCode]
	}
	return desc
}

func (c Code) String() string {
	return fmt.Sprintf("[%s]: %s", c.ID(), c.Title())
}
