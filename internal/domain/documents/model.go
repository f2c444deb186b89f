package documents

import (
	"errors"
	"fmt"
	"html/template"
	"io"
	"regexp"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/ehr/timeline/internal/domain/timeline"
	"github.com/ehr/timeline/pkg/datefmt"
)

var (
	ErrUnknownKind = errors.New("unknown document kind")
	ErrEmptyItem   = errors.New("document content is empty")
)

const footer = "Generated by Patient Timeline"

// Document is a single medical conduct (prescription, exam request or
// referral) rendered for printing or download.
type Document struct {
	Kind    string
	Content string
	Patient string
	// Date is the encounter date in numeric form, e.g. "1/5/2023".
	Date string
	// FileDate is the encounter date safe for a file name, e.g. "01-05-2023".
	FileDate string
}

// New builds a document for one conduct of enc. Only the three conduct
// kinds are accepted.
func New(kind, content string, enc timeline.Encounter) (*Document, error) {
	switch kind {
	case timeline.KindPrescription, timeline.KindExam, timeline.KindReferral:
	default:
		return nil, fmt.Errorf("%q: %w", kind, ErrUnknownKind)
	}
	if strings.TrimSpace(content) == "" {
		return nil, ErrEmptyItem
	}
	patient := enc.Name
	if patient == "" {
		patient = "Unknown"
	}
	d := &Document{Kind: kind, Content: content, Patient: patient}
	if t, ok := datefmt.Parse(enc.Timestamp); ok {
		d.Date = datefmt.Numeric(t)
		d.FileDate = datefmt.FileStamp(t)
	} else {
		d.Date = enc.Timestamp
		d.FileDate = "undated"
	}
	return d, nil
}

// Title is the kind with its first letter upper-cased.
func (d *Document) Title() string {
	r, size := utf8.DecodeRuneInString(d.Kind)
	return string(unicode.ToUpper(r)) + d.Kind[size:]
}

var whitespace = regexp.MustCompile(`\s`)

// Filename is "<kind>_<content>_<MM-DD-YYYY>.txt" with every whitespace
// character of content replaced by an underscore.
func (d *Document) Filename() string {
	return fmt.Sprintf("%s_%s_%s.txt", d.Kind, whitespace.ReplaceAllString(d.Content, "_"), d.FileDate)
}

// Text is the plain-text body offered for download.
func (d *Document) Text() string {
	var b strings.Builder
	fmt.Fprintf(&b, "%s: %s\n", strings.ToUpper(d.Kind), d.Content)
	fmt.Fprintf(&b, "Patient: %s\n", d.Patient)
	fmt.Fprintf(&b, "Date: %s\n", d.Date)
	b.WriteString("\n")
	b.WriteString(footer)
	return b.String()
}

var printTmpl = template.Must(template.New("print").Parse(`<!DOCTYPE html>
<html>
<head>
<meta charset="UTF-8">
<title>{{.Title}} - {{.Content}}</title>
<style>
body{font-family:Arial,sans-serif;line-height:1.6;margin:20px}
.header{text-align:center;margin-bottom:20px;padding-bottom:10px;border-bottom:1px solid #ccc}
.content{margin-bottom:30px}
.footer{margin-top:50px;text-align:center;font-size:.8em;color:#666}
@media print{button{display:none}}
</style>
</head>
<body>
<div class="header">
<h2>{{.Title}}</h2>
<p>Patient: {{.Patient}}</p>
<p>Date: {{.Date}}</p>
</div>
<div class="content"><h3>{{.Content}}</h3></div>
<div class="footer"><p>{{.Footer}}</p></div>
<button id="print-doc" style="margin-top:20px">Print Document</button>
<script>document.getElementById('print-doc').addEventListener('click',function(){window.print();window.close();});</script>
</body>
</html>
`))

func (d *Document) Footer() string { return footer }

// WriteHTML renders the printable page. Every field is HTML-escaped.
func (d *Document) WriteHTML(w io.Writer) error {
	return printTmpl.Execute(w, d)
}
