package iolist

import (
	"fmt"
	"strconv"
	"strings"

	"iolist/internal/domain"
)

// Defaults for a parse run.
const (
	DefaultExcludedLayer      = "0_SA-Comp_ICE"
	DefaultFirstInputAddress  = 300
	DefaultFirstOutputAddress = 318
)

// Options configures one aggregation run.
type Options struct {
	// ExcludedLayers lists layers whose insertions are ignored.
	ExcludedLayers     []string
	FirstInputAddress  int
	FirstOutputAddress int
}

// DefaultOptions returns the plant defaults.
func DefaultOptions() Options {
	return Options{
		ExcludedLayers:     []string{DefaultExcludedLayer},
		FirstInputAddress:  DefaultFirstInputAddress,
		FirstOutputAddress: DefaultFirstOutputAddress,
	}
}

// AddressCounters hold the running I and Q byte addresses. They always
// advance together.
type AddressCounters struct {
	Input  int
	Output int
}

func (c *AddressCounters) advance() {
	c.Input++
	c.Output++
}

// SkipReason classifies why a matched attribute produced no device.
type SkipReason string

const (
	SkipIncompleteEntry SkipReason = "incomplete_catalog_entry"
	SkipInvalidIOType   SkipReason = "invalid_io_type"
)

// AttributeError describes a matched attribute that was skipped.
type AttributeError struct {
	Text   string
	Prefix string
	Reason SkipReason
	Err    error
}

func (e *AttributeError) Error() string {
	return fmt.Sprintf("attribute %q (prefix %q): %s: %v", e.Text, e.Prefix, e.Reason, e.Err)
}

func (e *AttributeError) Unwrap() error { return e.Err }

// Outcome is the result of processing one attribute text.
type Outcome struct {
	Layer     string
	BlockName string
	Text      string
	Prefix    string
	Position  string
	Device    *domain.IODevice
	Skip      *AttributeError
}

// Matched reports whether a catalog prefix recognized the text.
func (o *Outcome) Matched() bool { return o.Prefix != "" }

// Stats counts what a run saw.
type Stats struct {
	InsertEntities   int
	ExcludedEntities int
	Attributes       int
	Matched          int
	Skipped          int
}

// Unmatched is the number of non-empty attributes no prefix recognized.
func (s Stats) Unmatched() int {
	return s.Attributes - s.Matched - s.Skipped
}

// Report is the final output of an aggregation run.
type Report struct {
	Devices  []domain.IODevice
	Wiring   []domain.IOConfigurationRow
	Outcomes []Outcome
	Stats    Stats
	Counters AddressCounters
}

// Aggregator turns an entity stream into the inventory and wiring tables.
// It holds all state of one run and must not be shared between runs.
type Aggregator struct {
	catalog  *domain.Catalog
	excluded map[string]struct{}
	counters AddressCounters
	sequence int

	devices  []domain.IODevice
	wiring   []domain.IOConfigurationRow
	outcomes []Outcome
	stats    Stats
}

// NewAggregator creates an Aggregator with fresh counters.
func NewAggregator(catalog *domain.Catalog, opts Options) *Aggregator {
	excluded := make(map[string]struct{}, len(opts.ExcludedLayers))
	for _, l := range opts.ExcludedLayers {
		excluded[l] = struct{}{}
	}
	return &Aggregator{
		catalog:  catalog,
		excluded: excluded,
		counters: AddressCounters{Input: opts.FirstInputAddress, Output: opts.FirstOutputAddress},
	}
}

// Aggregate runs a fresh Aggregator over entities.
func Aggregate(entities []domain.Entity, catalog *domain.Catalog, opts Options) Report {
	a := NewAggregator(catalog, opts)
	for i := range entities {
		a.AddEntity(entities[i])
	}
	return a.Report()
}

// AddEntity processes every attribute of an insertion in order. Other
// entity types and insertions on excluded layers are ignored.
func (a *Aggregator) AddEntity(e domain.Entity) {
	if !e.IsInsert() {
		return
	}
	a.stats.InsertEntities++
	if _, ok := a.excluded[e.Layer]; ok {
		a.stats.ExcludedEntities++
		return
	}
	for _, raw := range e.Attributes {
		text := strings.TrimSpace(raw)
		if text == "" {
			continue
		}
		a.stats.Attributes++
		out := a.process(e, text)
		switch {
		case out.Skip != nil:
			a.stats.Skipped++
		case out.Device != nil:
			a.stats.Matched++
		}
		a.outcomes = append(a.outcomes, out)
	}
}

func (a *Aggregator) process(e domain.Entity, text string) Outcome {
	out := Outcome{Layer: e.Layer, BlockName: e.BlockName, Text: text}

	prefix, ok := MatchPrefix(text, a.catalog)
	if !ok {
		return out
	}
	out.Prefix = prefix
	def, _ := a.catalog.Lookup(prefix)

	position := NormalizePosition(text, prefix)
	out.Position = position
	inputs, outputs := ExpandPorts(def, text, position)

	if err := def.Check(); err != nil {
		out.Skip = &AttributeError{Text: text, Prefix: prefix, Reason: SkipIncompleteEntry, Err: err}
		return out
	}
	ioType, err := strconv.Atoi(strings.TrimSpace(def.IOType))
	if err != nil {
		out.Skip = &AttributeError{Text: text, Prefix: prefix, Reason: SkipInvalidIOType, Err: err}
		return out
	}

	a.sequence++
	device := domain.IODevice{
		Sequence:   a.sequence,
		Position:   position,
		Component:  def.Component,
		Subtype:    def.Subtype,
		IODevice:   ioType,
		Inputs:     strings.Join(inputs, ", "),
		TotalIO:    len(inputs) + len(outputs),
		InputCable: def.InputCable,
	}
	if len(outputs) > 0 {
		joined := strings.Join(outputs, ", ")
		cable := def.OutputCable
		device.Outputs = &joined
		device.OutputCable = &cable
	}
	a.devices = append(a.devices, device)
	a.appendWiring(def, position, inputs, outputs)

	out.Device = &device
	return out
}

// DeviceTag is the "IO device" value for a device of subtype at position.
func DeviceTag(subtype, position string) string {
	tag := domain.DeviceTagIO
	if subtype == domain.SubtypeFieldIO {
		tag = domain.DeviceTagFieldIO
	}
	return tag + strings.ReplaceAll(position, ".", "")
}

// appendWiring emits one row per expanded slot. Every eighth slot moves
// both address counters on, whether the slot held an input, an output or
// both.
func (a *Aggregator) appendWiring(def *domain.ComponentDefinition, position string, inputs, outputs []string) {
	tag := DeviceTag(def.Subtype, position)
	for i := 0; i < max(len(inputs), len(outputs)); i++ {
		port := i % domain.PortsPerGroup
		if i < len(inputs) {
			p := port
			a.wiring = append(a.wiring, domain.IOConfigurationRow{
				IODevice:     tag,
				SplitterUsed: domain.SplitterUnused,
				PinNumber:    domain.PinInput,
				PortNumber:   &p,
				IOName:       inputs[i],
				Direction:    string(domain.DirectionInput),
				IONumber:     FormatAddress(domain.DirectionInput, a.counters.Input, port),
				CableType:    def.InputCable,
			})
		}
		if i < len(outputs) {
			a.wiring = append(a.wiring, domain.IOConfigurationRow{
				IODevice:     tag,
				SplitterUsed: domain.SplitterUnused,
				PinNumber:    domain.PinOutput,
				IOName:       outputs[i],
				Direction:    string(domain.DirectionOutput),
				IONumber:     FormatAddress(domain.DirectionOutput, a.counters.Output, port),
				CableType:    def.OutputCable,
			})
		}
		if port == domain.PortsPerGroup-1 {
			a.counters.advance()
		}
	}
}

// FormatAddress renders an I/O address such as I300.0 or Q318.7.
func FormatAddress(dir domain.Direction, byteAddr, port int) string {
	return fmt.Sprintf("%s%d.%d", dir, byteAddr, port)
}

// Report returns copies of the accumulated tables with the inventory in
// natural position order. The wiring table keeps stream order.
func (a *Aggregator) Report() Report {
	devices := make([]domain.IODevice, len(a.devices))
	copy(devices, a.devices)
	SortDevices(devices)

	wiring := make([]domain.IOConfigurationRow, len(a.wiring))
	copy(wiring, a.wiring)

	outcomes := make([]Outcome, len(a.outcomes))
	copy(outcomes, a.outcomes)

	return Report{
		Devices:  devices,
		Wiring:   wiring,
		Outcomes: outcomes,
		Stats:    a.stats,
		Counters: a.counters,
	}
}
