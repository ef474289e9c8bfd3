// Package ui renders store state to the terminal and maps input lines to
// store operations. It holds no state of its own beyond render position:
// every view is produced from a fresh store snapshot.
package ui

import (
	"fmt"
	"io"
	"math"

	"github.com/fatih/color"

	"github.com/docuchat/assistant-cli/internal/model"
	"github.com/docuchat/assistant-cli/internal/store"
)

// maxVisibleSources caps how many sources a rendered answer shows. The
// session keeps the full list; the cap is purely a display policy.
const maxVisibleSources = 3

var (
	userLabel      = color.New(color.FgGreen, color.Bold).SprintFunc()
	assistantLabel = color.New(color.FgCyan, color.Bold).SprintFunc()
	dim            = color.New(color.Faint).SprintFunc()
	errText        = color.New(color.FgRed).SprintFunc()
)

// Renderer writes transcript and collection views to out and error banners
// to errOut.
type Renderer struct {
	out    io.Writer
	errOut io.Writer
}

// NewRenderer creates a renderer over the given writers.
func NewRenderer(out, errOut io.Writer) *Renderer {
	return &Renderer{out: out, errOut: errOut}
}

// Message prints one transcript entry, with at most maxVisibleSources
// source lines.
func (r *Renderer) Message(m model.Message) {
	label := userLabel("You")
	if m.Sender == model.SenderAssistant {
		label = assistantLabel("Assistant")
	}
	fmt.Fprintf(r.out, "%s %s\n", label, dim("["+m.Timestamp+"]"))
	fmt.Fprintln(r.out, m.Text)

	if len(m.Sources) > 0 {
		fmt.Fprintln(r.out, dim("Sources:"))
		shown := m.Sources
		if len(shown) > maxVisibleSources {
			shown = shown[:maxVisibleSources]
		}
		for _, src := range shown {
			fmt.Fprintf(r.out, "  %s\n", dim(fmt.Sprintf("- %s (Page %d)", src.Document, src.Page)))
		}
	}
	fmt.Fprintln(r.out)
}

// Collection prints the document list from a snapshot.
func (r *Renderer) Collection(snap store.CollectionSnapshot) {
	if snap.Err != "" {
		r.Banner(snap.Err)
	}
	if len(snap.Items) == 0 {
		fmt.Fprintln(r.out, "No documents uploaded yet. Use /upload <path> to get started.")
		return
	}

	pending := make(map[string]bool, len(snap.PendingDelete))
	for _, id := range snap.PendingDelete {
		pending[id] = true
	}

	fmt.Fprintf(r.out, "Uploaded documents (%d):\n", len(snap.Items))
	for _, doc := range snap.Items {
		mark := ""
		if pending[doc.ID] {
			mark = dim(" (deleting...)")
		}
		fmt.Fprintf(r.out, "  %s  %s  %s  %s%s\n",
			doc.ID, doc.Filename, formatSize(doc.Size), dim(doc.UploadDate), mark)
	}
}

// Banner prints a dismissible error once.
func (r *Renderer) Banner(msg string) {
	fmt.Fprintln(r.errOut, errText(msg))
}

// Info prints a plain status line.
func (r *Renderer) Info(msg string) {
	fmt.Fprintln(r.out, msg)
}

// formatSize renders a byte count the way the documents page shows it.
func formatSize(bytes int64) string {
	if bytes == 0 {
		return "0 Bytes"
	}
	units := []string{"Bytes", "KB", "MB", "GB"}
	i := int(math.Floor(math.Log(float64(bytes)) / math.Log(1024)))
	if i >= len(units) {
		i = len(units) - 1
	}
	value := float64(bytes) / math.Pow(1024, float64(i))
	return fmt.Sprintf("%.4g %s", value, units[i])
}
