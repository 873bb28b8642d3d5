package domain

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
)

// Entity is one placed object read from a drawing, in file order.
type Entity struct {
	Type       string   `json:"type"`
	Layer      string   `json:"layer"`
	BlockName  string   `json:"block_name"`
	Attributes []string `json:"attributes"`
}

// IsInsert reports whether the entity is a block insertion.
func (e Entity) IsInsert() bool {
	return e.Type == EntityTypeInsert
}

// IODevice is one row of the "Total IO List" inventory.
// Outputs and OutputCable are nil when the device has no outputs.
type IODevice struct {
	Sequence    int     `json:"Sequence"`
	Position    string  `json:"Position"`
	Component   string  `json:"Component"`
	Subtype     string  `json:"Subtype"`
	IODevice    int     `json:"IO Device"`
	Inputs      string  `json:"Inputs"`
	Outputs     *string `json:"Outputs,omitempty"`
	TotalIO     int     `json:"Total IO"`
	InputCable  string  `json:"Input Cable"`
	OutputCable *string `json:"Output Cable,omitempty"`
}

// IOConfigurationRow is one port of the "IO Configuration" wiring table.
// PortNumber is nil for output rows.
type IOConfigurationRow struct {
	IODevice     string `json:"IO device"`
	SplitterUsed string `json:"Splitter used?"`
	PinNumber    string `json:"Pin number"`
	PortNumber   *int   `json:"Port number,omitempty"`
	IOName       string `json:"I/O name"`
	Direction    string `json:"I/O"`
	IONumber     string `json:"I/O Number"`
	CableType    string `json:"Cable type"`
	CableLength  string `json:"CABLE LENGTH"`
}

// ParseResult is the outcome of one drawing parse. A result either carries
// both tables or, when the drawing could not be read, only Error.
type ParseResult struct {
	TotalIOList     []IODevice           `json:"Total IO List"`
	IOConfiguration []IOConfigurationRow `json:"IO Configuration"`
	Error           string               `json:"error,omitempty"`
	Timestamp       string               `json:"timestamp"`
	SourceFile      string               `json:"source_file"`
}

// Failed reports whether the result is error-shaped.
func (r *ParseResult) Failed() bool {
	return r.Error != ""
}

// TotalIO sums the "Total IO" column of the inventory.
func (r *ParseResult) TotalIO() int {
	total := 0
	for i := range r.TotalIOList {
		total += r.TotalIOList[i].TotalIO
	}
	return total
}

// Clone returns a copy that shares no slices or pointers with r.
func (r *ParseResult) Clone() ParseResult {
	out := *r
	if r.TotalIOList != nil {
		out.TotalIOList = make([]IODevice, len(r.TotalIOList))
		for i, d := range r.TotalIOList {
			d.Outputs = cloneString(d.Outputs)
			d.OutputCable = cloneString(d.OutputCable)
			out.TotalIOList[i] = d
		}
	}
	if r.IOConfiguration != nil {
		out.IOConfiguration = make([]IOConfigurationRow, len(r.IOConfiguration))
		for i, row := range r.IOConfiguration {
			if row.PortNumber != nil {
				port := *row.PortNumber
				row.PortNumber = &port
			}
			out.IOConfiguration[i] = row
		}
	}
	return out
}

func cloneString(s *string) *string {
	if s == nil {
		return nil
	}
	v := *s
	return &v
}

type parseResultAlias ParseResult

type parseErrorShape struct {
	Error      string `json:"error"`
	Timestamp  string `json:"timestamp"`
	SourceFile string `json:"source_file"`
}

// MarshalJSON never mixes partial tables with a top-level error, and always
// emits empty tables as [] rather than null.
func (r ParseResult) MarshalJSON() ([]byte, error) {
	if r.Error != "" {
		return json.Marshal(parseErrorShape{
			Error:      r.Error,
			Timestamp:  r.Timestamp,
			SourceFile: r.SourceFile,
		})
	}
	out := parseResultAlias(r)
	if out.TotalIOList == nil {
		out.TotalIOList = []IODevice{}
	}
	if out.IOConfiguration == nil {
		out.IOConfiguration = []IOConfigurationRow{}
	}
	return json.Marshal(out)
}

// ParseRun is a stored parse of one uploaded drawing.
type ParseRun struct {
	ID          uuid.UUID   `db:"id" json:"id"`
	SourceFile  string      `db:"source_file" json:"source_file"`
	StorageKey  string      `db:"storage_key" json:"storage_key,omitempty"`
	Status      RunStatus   `db:"status" json:"status"`
	DeviceCount int         `db:"device_count" json:"device_count"`
	TotalIO     int         `db:"total_io" json:"total_io"`
	Result      ParseResult `db:"-" json:"result"`
	CreatedAt   time.Time   `db:"created_at" json:"created_at"`
	UpdatedAt   time.Time   `db:"updated_at" json:"updated_at"`
}

// ParseStats summarizes a parse for API consumers.
type ParseStats struct {
	TotalComponents int `json:"total_components"`
	TotalIO         int `json:"total_io"`
}

// Stats summarizes the run's result tables.
func (r *ParseRun) Stats() ParseStats {
	return ParseStats{
		TotalComponents: len(r.Result.TotalIOList),
		TotalIO:         r.Result.TotalIO(),
	}
}
