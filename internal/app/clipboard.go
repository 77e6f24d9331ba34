package app

import (
	"os/exec"
	"runtime"
	"strconv"
	"strings"
	"unicode"

	"github.com/atotto/clipboard"
	tea "github.com/charmbracelet/bubbletea"
)

// Replaced in tests; the system clipboard is not available everywhere.
var (
	defaultWriteClipboard = clipboard.WriteAll
	defaultReadClipboard  = readClipboardText

	writeClipboard = defaultWriteClipboard
	readClipboard  = defaultReadClipboard
)

func copyCmd(text string) tea.Cmd {
	return func() tea.Msg {
		return clipboardMsg{Err: writeClipboard(text)}
	}
}

func readClipboardText() (string, error) {
	if runtime.GOOS == "darwin" {
		if out, err := exec.Command("pbpaste", "-Prefer", "txt").Output(); err == nil {
			return string(out), nil
		}
	}
	return clipboard.ReadAll()
}

// cleanPaste turns clipboard content into plain note text: RTF markup is
// dropped, line endings become \n and other control characters go away.
func cleanPaste(text string) string {
	text = stripRTF(text)
	text = strings.ReplaceAll(text, "\r\n", "\n")
	text = strings.ReplaceAll(text, "\r", "\n")
	return strings.Map(func(r rune) rune {
		if r == '\n' || r == '\t' || !unicode.IsControl(r) {
			return r
		}
		return -1
	}, text)
}

func isRTF(text string) bool {
	return strings.HasPrefix(text, "{\\rtf")
}

// stripRTF keeps the visible text of an RTF document. Groups starting with a
// destination (\*, \fonttbl, \colortbl, ...) are skipped and \par becomes a
// line break.
func stripRTF(text string) string {
	if !isRTF(text) {
		return text
	}
	var out strings.Builder
	runes := []rune(text)
	depth, skipBelow := 0, -1
	for i := 0; i < len(runes); i++ {
		r := runes[i]
		switch r {
		case '{':
			depth++
			continue
		case '}':
			if depth == skipBelow {
				skipBelow = -1
			}
			depth--
			continue
		case '\n', '\r':
			continue
		}
		if r != '\\' {
			if skipBelow < 0 {
				out.WriteRune(r)
			}
			continue
		}
		if i+1 >= len(runes) {
			break
		}
		next := runes[i+1]
		if next == '\\' || next == '{' || next == '}' {
			if skipBelow < 0 {
				out.WriteRune(next)
			}
			i++
			continue
		}
		if next == '\'' && i+3 < len(runes) {
			if b, err := strconv.ParseUint(string(runes[i+2:i+4]), 16, 8); err == nil && skipBelow < 0 {
				out.WriteRune(rune(b))
			}
			i += 3
			continue
		}
		if next == '*' {
			if skipBelow < 0 {
				skipBelow = depth
			}
			i++
			continue
		}

		j := i + 1
		for j < len(runes) && unicode.IsLetter(runes[j]) {
			j++
		}
		word := string(runes[i+1 : j])
		for j < len(runes) && (runes[j] == '-' || unicode.IsDigit(runes[j])) {
			j++
		}
		if j < len(runes) && runes[j] == ' ' {
			j++
		}
		i = j - 1

		switch word {
		case "fonttbl", "colortbl", "stylesheet", "info", "pict":
			if skipBelow < 0 {
				skipBelow = depth
			}
		case "par", "line":
			if skipBelow < 0 {
				out.WriteRune('\n')
			}
		case "tab":
			if skipBelow < 0 {
				out.WriteRune('\t')
			}
		}
	}
	return strings.TrimRight(out.String(), "\n")
}
