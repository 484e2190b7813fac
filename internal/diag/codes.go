package diag

import (
	"fmt"
)

type Code uint16

const (
	UnknownCode Code = 0

	// Declaration attribute errors
	DeclInfo         Code = 1000
	DeclAttrConflict Code = 1001 // more than one body source on a declaration
	DeclMissingBody  Code = 1002 // no body source and no host body to auto-translate

	// Template errors
	TplInfo              Code = 1100
	TplSyntax            Code = 1101
	TplUnsupportedInline Code = 1102
	TplBadPlaceholder    Code = 1103
	TplAmbiguousSelf     Code = 1104

	// Generator errors
	GenInfo       Code = 1200
	GenInvocation Code = 1201
	GenUnknownRef Code = 1202

	// Macro errors
	MacroInfo        Code = 1300
	MacroTranslation Code = 1301
	MacroUnknownRef  Code = 1302

	// Naming errors
	NameInfo      Code = 1400
	NameConflict  Code = 1401
	NameDuplicate Code = 1402
	NameCycle     Code = 1403

	// Default lowering errors
	LowerInfo        Code = 1500
	LowerUnsupported Code = 1501
	LowerUnknownDecl Code = 1502
)

func (c Code) String() string {
	return fmt.Sprintf("LUM%04d", uint16(c))
}
