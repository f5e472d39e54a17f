package diag

import (
	"fmt"
)

// Code identifies a kind of diagnostic.
type Code uint16

const (
	UnknownCode Code = 0

	// Configuration
	CfgInfo              Code = 1000
	CfgInvalidLineLength Code = 1001
	CfgNonNumericLength  Code = 1002
	CfgBadManifest       Code = 1003
	CfgBadOutputMode     Code = 1004

	// Formatting
	FmtInfo        Code = 2000
	FmtLineTooLong Code = 2001
	FmtNotLoaded   Code = 2002
	FmtReformatted Code = 2003
	FmtCacheHit    Code = 2004

	// I/O
	IOInfo           Code = 4000
	IOLoadFileError  Code = 4001
	IOWriteFileError Code = 4002
	IOCacheError     Code = 4003
)

var codeDescription = map[Code]string{
	UnknownCode:          "Unknown error",
	CfgInfo:              "Configuration information",
	CfgInvalidLineLength: "line length must be 80 or 120",
	CfgNonNumericLength:  "line length must be an integer",
	CfgBadManifest:       "invalid white.toml",
	CfgBadOutputMode:     "invalid output mode",
	FmtInfo:              "Formatting information",
	FmtLineTooLong:       "line is too long and could not be wrapped",
	FmtNotLoaded:         "buffer queried before it was loaded",
	FmtReformatted:       "file reformatted",
	FmtCacheHit:          "file already formatted (cached)",
	IOInfo:               "I/O information",
	IOLoadFileError:      "I/O load file error",
	IOWriteFileError:     "I/O write file error",
	IOCacheError:         "I/O cache error",
}

// ID returns the stable identifier, e.g. "FMT2001".
func (c Code) ID() string {
	switch ic := int(c); {
	case ic >= 1000 && ic < 2000:
		return fmt.Sprintf("CFG%04d", ic)
	case ic >= 2000 && ic < 3000:
		return fmt.Sprintf("FMT%04d", ic)
	case ic >= 4000 && ic < 5000:
		return fmt.Sprintf("IO%04d", ic)
	}
	return "E0000"
}

// Title returns the default description of the code.
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
