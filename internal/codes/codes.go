package codes

// Process exit codes, one per failure kind
const (
	OK                 = 0
	General            = 1
	SourceNotFound     = 2
	NameCollision      = 3
	ReadFailure        = 4
	WriteFailure       = 5
	VerificationFailed = 6
	ArchiveUnreadable  = 7
)

// descriptions maps exit codes to short human-readable descriptions
var descriptions = map[int]string{
	OK:                 "Success",
	General:            "General failure",
	SourceNotFound:     "Source path not found",
	NameCollision:      "Multiple sources map to the same archive entry name",
	ReadFailure:        "Source file unreadable during build",
	WriteFailure:       "Archive could not be written or finalised",
	VerificationFailed: "One or more entries failed hash verification",
	ArchiveUnreadable:  "Produced archive could not be reopened for verification",
}

// IsSuccess returns true if the exit code indicates a fully verified archive
func IsSuccess(code int) bool {
	return code == OK
}

// Description returns the description for a given exit code, or a generic message if unknown
func Description(code int) string {
	if msg, ok := descriptions[code]; ok {
		return msg
	}

	return "Unknown error"
}
