package ingest

import (
	"archive/zip"
	"bytes"
	"encoding/xml"
	"fmt"
	"io"
	"regexp"
	"sort"
	"strconv"
	"strings"
)

var slidePathRe = regexp.MustCompile(`^ppt/slides/slide(\d+)\.xml$`)

// PPTX extracts all text from a PowerPoint file given its raw bytes. A .pptx
// file is a zip archive with one XML document per slide; the visible text
// lives in DrawingML <a:t> runs.
func PPTX(fileBytes []byte) (string, error) {
	archive, err := zip.NewReader(bytes.NewReader(fileBytes), int64(len(fileBytes)))
	if err != nil {
		return "", fmt.Errorf("open pptx archive: %w", err)
	}

	type slide struct {
		num  int
		text string
	}
	var slides []slide

	for _, f := range archive.File {
		m := slidePathRe.FindStringSubmatch(f.Name)
		if m == nil {
			continue
		}
		num, _ := strconv.Atoi(m[1])

		rc, err := f.Open()
		if err != nil {
			continue
		}
		text, err := slideText(rc)
		_ = rc.Close()
		if err != nil || text == "" {
			continue
		}
		slides = append(slides, slide{num: num, text: text})
	}

	sort.Slice(slides, func(i, j int) bool { return slides[i].num < slides[j].num })

	var sections []string
	for _, s := range slides {
		sections = append(sections, fmt.Sprintf("--- Slide %d ---\n%s", s.num, s.text))
	}
	if len(sections) == 0 {
		return "No text found in PowerPoint.", nil
	}
	return strings.Join(sections, "\n\n"), nil
}

// slideText pulls the character data of every <a:t> element in a slide.
func slideText(r io.Reader) (string, error) {
	decoder := xml.NewDecoder(r)
	var lines []string
	inTextRun := false

	for {
		tok, err := decoder.Token()
		if err == io.EOF {
			break
		}
		if err != nil {
			return "", fmt.Errorf("decode slide xml: %w", err)
		}
		switch t := tok.(type) {
		case xml.StartElement:
			if t.Name.Local == "t" {
				inTextRun = true
			}
		case xml.EndElement:
			if t.Name.Local == "t" {
				inTextRun = false
			}
		case xml.CharData:
			if inTextRun {
				if s := strings.TrimSpace(string(t)); s != "" {
					lines = append(lines, s)
				}
			}
		}
	}
	return strings.Join(lines, "\n"), nil
}
