package render

import "strings"

// wrapText breaks text into display lines no wider than width runes,
// preferring word boundaries. Paragraph breaks in the source are kept as
// blank lines.
func wrapText(text string, width int) []string {
	if width < 1 {
		width = 1
	}

	var lines []string
	for _, para := range strings.Split(text, "\n") {
		para = strings.TrimRight(para, " \t")
		if para == "" {
			lines = append(lines, "")
			continue
		}
		lines = append(lines, wrapParagraph(para, width)...)
	}
	return lines
}

func wrapParagraph(para string, width int) []string {
	var lines []string
	var current strings.Builder
	currentLen := 0

	for _, word := range strings.Fields(para) {
		runes := []rune(word)

		// Words longer than a full line are split hard.
		for len(runes) > width {
			if currentLen > 0 {
				lines = append(lines, current.String())
				current.Reset()
				currentLen = 0
			}
			lines = append(lines, string(runes[:width]))
			runes = runes[width:]
		}
		if len(runes) == 0 {
			continue
		}

		needed := len(runes)
		if currentLen > 0 {
			needed++
		}
		if currentLen+needed > width {
			lines = append(lines, current.String())
			current.Reset()
			currentLen = 0
		}
		if currentLen > 0 {
			current.WriteByte(' ')
			currentLen++
		}
		current.WriteString(string(runes))
		currentLen += len(runes)
	}
	if currentLen > 0 {
		lines = append(lines, current.String())
	}
	return lines
}

// paginate groups lines into fixed-height pages. Every section yields at
// least one page so navigation always has somewhere to land.
func paginate(lines []string, height int) [][]string {
	if height < 1 {
		height = 1
	}
	if len(lines) == 0 {
		return [][]string{nil}
	}

	var pages [][]string
	for start := 0; start < len(lines); start += height {
		end := start + height
		if end > len(lines) {
			end = len(lines)
		}
		pages = append(pages, lines[start:end])
	}
	return pages
}
