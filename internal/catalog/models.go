package catalog

import (
	"fmt"
	"strings"
	"time"
)

// FlagStatus is the commercial-flag state stored on a recording.
type FlagStatus int

const (
	// FlagNotFlagged means commercial detection has not run.
	FlagNotFlagged FlagStatus = 0
	// FlagDone means detection completed and the flag data is usable.
	FlagDone FlagStatus = 1
	// FlagProcessing means another job is flagging this recording right now.
	// Observing it at pipeline entry is a concurrency conflict and fatal.
	FlagProcessing FlagStatus = 2
	// FlagCommercialFree means the recording's channel runs no commercials.
	FlagCommercialFree FlagStatus = 3
)

// ParseFlagStatus converts a stored integer into a known FlagStatus.
// Unrecognized values are a data-integrity error.
func ParseFlagStatus(value int) (FlagStatus, error) {
	switch FlagStatus(value) {
	case FlagNotFlagged, FlagDone, FlagProcessing, FlagCommercialFree:
		return FlagStatus(value), nil
	default:
		return 0, fmt.Errorf("unrecognized commercial-flag status %d", value)
	}
}

func (f FlagStatus) String() string {
	switch f {
	case FlagNotFlagged:
		return "not_flagged"
	case FlagDone:
		return "done"
	case FlagProcessing:
		return "processing"
	case FlagCommercialFree:
		return "commercial_free"
	default:
		return fmt.Sprintf("unknown(%d)", int(f))
	}
}

// Record is the catalog row for one recording, identified by
// (ChanID, StartTime). The pipeline reads it at start and writes back only
// basename, filesize, the transcoded flag, and the commercial-flag status.
type Record struct {
	ChanID       string
	StartTime    string
	Title        string
	Subtitle     string
	Basename     string
	StorageGroup string
	ProgramID    string
	AirDate      string
	Season       int
	Episode      int
	FlagStatus   FlagStatus
	Transcoded   bool
	Filesize     int64
}

// movieProgramPrefix marks program identifiers for theatrical movies.
const movieProgramPrefix = "MV"

// IsMovie reports whether the program identifier encodes a movie.
func (r *Record) IsMovie() bool {
	return strings.HasPrefix(strings.ToUpper(strings.TrimSpace(r.ProgramID)), movieProgramPrefix)
}

// AirYear returns the four-digit year of the original air date, or 0 when the
// date is absent or unparseable.
func (r *Record) AirYear() int {
	raw := strings.TrimSpace(r.AirDate)
	if raw == "" {
		return 0
	}
	for _, layout := range []string{"2006-01-02", "2006"} {
		if parsed, err := time.Parse(layout, raw); err == nil {
			return parsed.Year()
		}
	}
	return 0
}

// HasSubtitle reports whether the subtitle carries any non-whitespace content.
func (r *Record) HasSubtitle() bool {
	return strings.TrimSpace(r.Subtitle) != ""
}
