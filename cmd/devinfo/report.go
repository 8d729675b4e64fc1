package main

import (
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"
	lgtable "github.com/charmbracelet/lipgloss/table"
	"github.com/dustin/go-humanize"
	"github.com/gomlx/devinfo/compute"
	"github.com/gomlx/devinfo/info"
	"github.com/pkg/errors"
)

type reportOptions struct {
	table, human bool
}

var separator = strings.Repeat("-", 80) + "\n"

var (
	headerRowStyle = lipgloss.NewStyle().Reverse(true).
			Padding(0, 2, 0, 2).Align(lipgloss.Center)

	oddRowStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#FFF")).
			PaddingLeft(1).PaddingRight(1)
	evenRowStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#999")).
			PaddingLeft(1).PaddingRight(1)

	titleStyle = lipgloss.NewStyle().Bold(true).Padding(1, 4, 1, 4)
)

func newPlainTable() *lgtable.Table {
	return lgtable.New().
		Border(lipgloss.NormalBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(lipgloss.Color("99"))).
		StyleFunc(func(row, col int) (s lipgloss.Style) {
			if row == lgtable.HeaderRow {
				return headerRowStyle
			}
			if row%2 == 0 {
				s = evenRowStyle
			} else {
				s = oddRowStyle
			}
			if col == 0 {
				s = s.Align(lipgloss.Right)
			} else {
				s = s.Align(lipgloss.Left)
			}
			return
		})
}

// section is a titled list of "label: value" lines, rendered as text or as a table.
type section struct {
	title string
	notes []string
	rows  [][2]string
}

func (s *section) add(label, value string) {
	s.rows = append(s.rows, [2]string{label, value})
}

func (s *section) write(w io.Writer, opts reportOptions) error {
	var b strings.Builder
	if opts.table {
		b.WriteString(titleStyle.Render(s.title))
		b.WriteString("\n")
		for _, note := range s.notes {
			b.WriteString(note + "\n")
		}
		table := newPlainTable().Headers("Query", "Value")
		for _, row := range s.rows {
			table.Row(row[0], row[1])
		}
		b.WriteString(table.Render())
		b.WriteString("\n")
	} else {
		b.WriteString(separator + s.title + "\n" + separator)
		for _, note := range s.notes {
			b.WriteString(note + "\n")
		}
		for _, row := range s.rows {
			b.WriteString(row[0] + ": " + row[1] + "\n")
		}
	}
	_, err := io.WriteString(w, b.String())
	return errors.Wrap(err, "writing report")
}

// formatValue formats v, optionally adding the human-readable size of byte counts.
func formatValue(entry *info.Entry, v info.Value, opts reportOptions) string {
	s := info.Format(v)
	if !opts.human || !entry.Bytes {
		return s
	}
	var bytes uint64
	switch x := v.Any().(type) {
	case uint32:
		bytes = uint64(x)
	case uint64:
		bytes = x
	default:
		return s
	}
	return fmt.Sprintf("%s (%s)", s, humanize.IBytes(bytes))
}

// deviceSection reports every device query, in table order.
//
// The parent device of a root device is expected to fail: the failure is reported and the remaining
// queries continue. The host device, which can't be partitioned, doesn't report it at all.
func deviceSection(dev compute.Device, opts reportOptions) (*section, error) {
	s := &section{title: "Device information"}
	for _, param := range info.DeviceParams() {
		entry := param.Entry()
		if entry.SubDeviceOnly && dev.IsHost() {
			continue
		}
		v, err := dev.GetInfo(param)
		if err != nil {
			if entry.SubDeviceOnly && !dev.IsSubDevice() && errors.Is(err, compute.ErrUnsupportedForObject) {
				s.rows = append(s.rows, [2]string{"Expected exception has been caught", err.Error()})
				continue
			}
			if errors.Is(err, compute.ErrUnsupportedForObject) {
				s.add(entry.Label, "not supported")
				continue
			}
			return nil, err
		}
		s.add(entry.Label, formatValue(entry, v, opts))
	}
	return s, nil
}

func platformSection(title string, plt compute.Platform, opts reportOptions) (*section, error) {
	s := &section{title: title}
	for _, param := range info.PlatformParams() {
		v, err := plt.GetInfo(param)
		if err != nil {
			if errors.Is(err, compute.ErrUnsupportedForObject) {
				s.add(param.Entry().Label, "not supported")
				continue
			}
			return nil, err
		}
		s.add(param.Entry().Label, formatValue(param.Entry(), v, opts))
	}
	return s, nil
}

// writeReport writes the device, platform, queue and context information, in this order.
func writeReport(w io.Writer, dev compute.Device, queue compute.Queue, opts reportOptions) error {
	sections := make([]*section, 0, 5)
	deviceInfo, err := deviceSection(dev, opts)
	if err != nil {
		return err
	}
	sections = append(sections, deviceInfo)

	platformInfo, err := platformSection("Platform information", dev.Platform(), opts)
	if err != nil {
		return err
	}
	sections = append(sections, platformInfo)

	queueInfo := &section{title: "Queue information", notes: []string{"Device from queue information"}}
	qdev, err := compute.QueueInfo(queue, compute.QueueDevice)
	if err != nil {
		return err
	}
	name, err := compute.DeviceInfo(qdev, compute.DeviceName)
	if err != nil {
		return err
	}
	queueInfo.add(info.DeviceParamName.Entry().Label, info.Format(info.NewValue(info.TypeString, name)))
	sections = append(sections, queueInfo)

	ctx, err := compute.QueueInfo(queue, compute.QueueContext)
	if err != nil {
		return err
	}
	contextInfo := &section{title: "Context information", notes: []string{"Devices from context information"}}
	cdevs, err := compute.ContextInfo(ctx, compute.ContextDevices)
	if err != nil {
		return err
	}
	for _, cdev := range cdevs {
		v, err := cdev.GetInfo(info.DeviceParamName)
		if err != nil {
			return err
		}
		contextInfo.add(info.DeviceParamName.Entry().Label, info.Format(v))
	}
	sections = append(sections, contextInfo)

	cplt, err := compute.ContextInfo(ctx, compute.ContextPlatform)
	if err != nil {
		return err
	}
	v, err := cplt.GetInfo(info.PlatformParamName)
	if err != nil {
		return err
	}
	contextPlatform := &section{title: "Platform from context information"}
	contextPlatform.add(info.PlatformParamName.Entry().Label, info.Format(v))
	sections = append(sections, contextPlatform)

	for _, s := range sections {
		if err := s.write(w, opts); err != nil {
			return err
		}
	}
	return nil
}
