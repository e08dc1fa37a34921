// Package render draws the share state on a terminal.
package render

import (
	"fmt"
	"io"
	"strings"

	"github.com/docker/go-units"
	"github.com/mdp/qrterminal/v3"
)

// DemoURL is encoded in the QR code of the welcome text.
const DemoURL = "https://qrshare.example.com/demo"

const (
	blackWhite = "▄"
	blackBlack = " "
	whiteBlack = "▀"
	whiteWhite = "█"
)

// QR writes text as a QR code with the highest error correction level.
func QR(w io.Writer, text string) {
	qrterminal.GenerateWithConfig(text, qrterminal.Config{
		Level:          qrterminal.H,
		Writer:         w,
		HalfBlocks:     true,
		BlackChar:      blackBlack,
		WhiteBlackChar: whiteBlack,
		WhiteChar:      whiteWhite,
		BlackWhiteChar: blackWhite,
		QuietZone:      1,
	})
}

// SelectionSummary returns the "N files selected" line.
func SelectionSummary(count int) string {
	if count == 1 {
		return "1 file selected"
	}
	return fmt.Sprintf("%d files selected", count)
}

// Size formats a byte count for humans.
func Size(bytes int64) string {
	return units.HumanSizeWithPrecision(float64(bytes), 3)
}

// ProgressBar returns a bar of width cells followed by the percentage.
func ProgressBar(percent, width int) string {
	if percent < 0 {
		percent = 0
	}
	if percent > 100 {
		percent = 100
	}
	filled := percent * width / 100
	return fmt.Sprintf("[%s%s] %3d%%", strings.Repeat("=", filled), strings.Repeat(" ", width-filled), percent)
}

// Result writes the QR code and link of a shared file.
func Result(w io.Writer, downloadURL string) {
	fmt.Fprintln(w, "Your file is ready!")
	fmt.Fprintln(w)
	QR(w, downloadURL)
	fmt.Fprintln(w, "Scan with your phone camera")
	fmt.Fprintln(w, downloadURL)
	fmt.Fprintf(w, "Direct download: qrshare download %s\n", downloadURL)
}

// Welcome writes the one-time introduction.
func Welcome(w io.Writer) {
	fmt.Fprintln(w, "Welcome to DarlingShare")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Upload any file or folder and instantly get a QR code that anyone can scan to download.")
	fmt.Fprintln(w, "Perfect for sharing photos, documents, presentations and more, no account needed.")
	fmt.Fprintln(w)
	QR(w, DemoURL)
}
