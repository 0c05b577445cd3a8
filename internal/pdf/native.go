package pdf

import (
	"bufio"
	"bytes"
	"context"
	"fmt"
	"strconv"
	"strings"
)

type docInfo struct {
	Pages           int
	Encrypted       bool
	HasPageGeometry bool
}

// docInfo runs `pdfinfo -f 1 -l 1 <path>` and parses the fields we care
// about. pdfinfo fails outright on corrupt files, which is exactly the signal
// IsReadable wants.
func (e *Extractor) docInfo(ctx context.Context, path string) (docInfo, error) {
	out, errb, err := e.runner.Run(ctx, e.cfg.Pdfinfo, "-f", "1", "-l", "1", path)
	if err != nil {
		msg := strings.TrimSpace(string(errb))
		if msg == "" {
			return docInfo{}, err
		}
		return docInfo{}, fmt.Errorf("%s", firstLine(msg))
	}

	var info docInfo
	sc := bufio.NewScanner(bytes.NewReader(out))
	for sc.Scan() {
		line := sc.Text()
		key, val, ok := strings.Cut(line, ":")
		if !ok {
			continue
		}
		val = strings.TrimSpace(val)
		switch strings.TrimSpace(key) {
		case "Pages":
			if n, err := strconv.Atoi(val); err == nil {
				info.Pages = n
			}
		case "Encrypted":
			info.Encrypted = strings.HasPrefix(val, "yes")
		default:
			// "Page size" / "Page    1 size" depending on version
			if strings.HasPrefix(strings.TrimSpace(key), "Page") && strings.Contains(key, "size") {
				info.HasPageGeometry = val != ""
			}
		}
	}
	return info, nil
}

// extractNative pulls the text layer one page at a time so a single broken
// page does not abort the document. Page texts are joined with newlines.
func (e *Extractor) extractNative(ctx context.Context, path string, pages int) (string, []string) {
	if e.cfg.MaxPages > 0 && pages > e.cfg.MaxPages {
		pages = e.cfg.MaxPages
	}

	var parts []string
	var warns []string
	for p := 1; p <= pages; p++ {
		n := strconv.Itoa(p)
		out, errb, err := e.runner.Run(ctx, e.cfg.Pdftotext,
			"-f", n, "-l", n, "-layout", "-enc", "UTF-8", "-eol", "unix", path, "-")
		if err != nil {
			w := fmt.Sprintf("page %d: text extraction failed: %s", p, firstLine(string(errb)))
			e.logger.Warn("pdf.native.page_failed", "page", p, "error", err)
			warns = append(warns, w)
			continue
		}
		if txt := string(out); strings.TrimSpace(txt) != "" {
			parts = append(parts, txt)
		}
	}
	return strings.Join(parts, "\n"), warns
}

func firstLine(s string) string {
	s = strings.TrimSpace(s)
	if i := strings.IndexByte(s, '\n'); i >= 0 {
		return s[:i]
	}
	return s
}
