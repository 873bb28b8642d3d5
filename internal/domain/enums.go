package domain

// Entity types the drawing reader distinguishes.
const (
	EntityTypeInsert = "INSERT"
	EntityTypeAttrib = "ATTRIB"
)

// Direction is the "I/O" column of a wiring row.
type Direction string

const (
	DirectionInput  Direction = "I"
	DirectionOutput Direction = "Q"
)

// Wiring row constants.
const (
	PinInput       = "Pin 2"
	PinOutput      = "Pin 4"
	SplitterUnused = "No"
	PortsPerGroup  = 8
)

// Device tag prefixes for the "IO device" column.
const (
	SubtypeFieldIO   = "fio"
	DeviceTagFieldIO = "fio"
	DeviceTagIO      = "io"
)

// RunStatus reports whether a stored run carries tables or an error.
type RunStatus string

const (
	RunStatusCompleted RunStatus = "completed"
	RunStatusFailed    RunStatus = "failed"
)

// FileType represents the allowed drawing upload types.
type FileType string

const (
	FileTypeDXF FileType = "dxf"
)

// AllowedExtensions maps file extensions (without dot) to FileType.
var AllowedExtensions = map[string]FileType{
	"dxf": FileTypeDXF,
}

// Content types used when archiving drawings and exports.
const (
	ContentTypeDXF  = "application/dxf"
	ContentTypeXLSX = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
	ContentTypeCSV  = "text/csv; charset=utf-8"
)
