package iolist

import (
	"fmt"
	"strings"

	"iolist/internal/domain"
)

// Readdress moves the device with the given sequence number onto ioDevice:
// its "IO Device" cell is set and each of its wiring rows is renumbered to
// {I|Q}<ioDevice>.<port>, keeping the row's existing port suffix.
//
// A device's wiring rows are the contiguous block that the aggregator
// emitted for it, located by summing "Total IO" over lower sequence numbers.
func Readdress(result *domain.ParseResult, sequence, ioDevice int) error {
	if result.Failed() {
		return domain.ErrRunFailed
	}
	if ioDevice < 0 {
		return domain.ErrInvalidIODevice
	}

	target := -1
	offset := 0
	for i := range result.TotalIOList {
		d := &result.TotalIOList[i]
		switch {
		case d.Sequence == sequence:
			target = i
		case d.Sequence < sequence:
			offset += d.TotalIO
		}
	}
	if target < 0 {
		return fmt.Errorf("sequence %d: %w", sequence, domain.ErrDeviceNotFound)
	}

	device := &result.TotalIOList[target]
	end := offset + device.TotalIO
	if end > len(result.IOConfiguration) {
		return fmt.Errorf("sequence %d: wiring rows %d..%d out of range: %w",
			sequence, offset, end, domain.ErrDeviceNotFound)
	}

	tag := DeviceTag(device.Subtype, device.Position)
	for i := offset; i < end; i++ {
		if got := result.IOConfiguration[i].IODevice; got != tag {
			return fmt.Errorf("sequence %d: wiring row %d belongs to %q, not %q: %w",
				sequence, i, got, tag, domain.ErrDeviceNotFound)
		}
	}
	for i := offset; i < end; i++ {
		row := &result.IOConfiguration[i]
		row.IONumber = Rebase(row.IONumber, domain.Direction(row.Direction), ioDevice)
	}
	device.IODevice = ioDevice
	return nil
}

// Rebase replaces the byte part of an address, keeping the port suffix.
// An address without a suffix gets port 0.
func Rebase(address string, dir domain.Direction, byteAddr int) string {
	port := "0"
	if i := strings.LastIndexByte(address, '.'); i >= 0 && i < len(address)-1 {
		port = address[i+1:]
	}
	return fmt.Sprintf("%s%d.%s", dir, byteAddr, port)
}
