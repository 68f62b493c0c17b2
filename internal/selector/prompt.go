package selector

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strconv"

	"github.com/gookit/color"
	"github.com/olekukonko/tablewriter"
)

// PromptText is printed before reading the selection line.
const PromptText = "Select the extensions you want to copy (comma-separated indices): "

// PromptProvider lists the available extensions on Out and reads one line
// of indices from In.
type PromptProvider struct {
	In  io.Reader
	Out io.Writer
	// Counts optionally adds a file count column to the listing.
	Counts map[string]int
}

// NewPromptProvider creates an interactive provider.
func NewPromptProvider(in io.Reader, out io.Writer, counts map[string]int) *PromptProvider {
	return &PromptProvider{In: in, Out: out, Counts: counts}
}

type readResult struct {
	line string
	err  error
}

// Select prints the listing and blocks until a line is read or ctx is done.
func (p *PromptProvider) Select(ctx context.Context, available []string) ([]string, error) {
	fmt.Fprintln(p.Out, color.Bold.Sprint("Available file extensions:"))
	p.renderListing(available)
	fmt.Fprint(p.Out, PromptText)

	// The read is not cancellable, so it runs on its own goroutine.
	lines := make(chan readResult, 1)
	go func() {
		line, err := bufio.NewReader(p.In).ReadString('\n')
		lines <- readResult{line: line, err: err}
	}()

	select {
	case <-ctx.Done():
		fmt.Fprintln(p.Out)
		return nil, ctx.Err()
	case res := <-lines:
		if res.err != nil && !errors.Is(res.err, io.EOF) {
			return nil, fmt.Errorf("failed to read selection: %w", res.err)
		}
		return ParseSelection(res.line, available)
	}
}

func (p *PromptProvider) renderListing(available []string) {
	table := tablewriter.NewWriter(p.Out)
	header := []string{"#", "Extension"}
	if p.Counts != nil {
		header = append(header, "Files")
	}
	table.SetHeader(header)
	table.SetBorder(false)
	table.SetCenterSeparator("")
	table.SetColumnSeparator("")
	table.SetAutoFormatHeaders(false)
	table.SetAlignment(tablewriter.ALIGN_LEFT)

	for i, ext := range available {
		row := []string{strconv.Itoa(i + 1), displayExtension(ext)}
		if p.Counts != nil {
			row = append(row, strconv.Itoa(p.Counts[ext]))
		}
		table.Append(row)
	}
	table.Render()
}

// displayExtension makes the empty extension visible in the listing.
func displayExtension(ext string) string {
	if ext == "" {
		return "(none)"
	}
	return ext
}
