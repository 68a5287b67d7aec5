package session

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"golang.org/x/text/encoding/unicode"
	"golang.org/x/text/transform"
)

var (
	// ErrFileSelected is returned when typing is attempted while a file owns the input
	ErrFileSelected = errors.New("a file is selected; clear it before typing")

	// ErrDecodePending is returned while a selected text file is still being read
	ErrDecodePending = errors.New("file is still being read")

	// ErrNotEditable is returned when editing the mirror of a PDF selection
	ErrNotEditable = errors.New("text is not editable while a PDF is selected")
)

// FileKind tells how a selected file is sent to the service
type FileKind int

const (
	// KindText files are decoded locally and mirrored into the text surface
	KindText FileKind = iota
	// KindPDF files are uploaded as opaque binary
	KindPDF
)

func (k FileKind) String() string {
	if k == KindPDF {
		return "pdf"
	}
	return "text"
}

// KindOf classifies a file by name. Only a case-insensitive ".pdf" suffix is
// binary; everything else, including names without an extension, is text.
func KindOf(name string) FileKind {
	if strings.HasSuffix(strings.ToLower(name), ".pdf") {
		return KindPDF
	}
	return KindText
}

// AcceptedByService reports whether the classification service accepts the
// file's extension. Other files are still sent as text.
func AcceptedByService(name string) bool {
	switch strings.ToLower(filepath.Ext(name)) {
	case ".txt", ".pdf":
		return true
	default:
		return false
	}
}

// Blob is a selected file whose contents are read lazily
type Blob interface {
	Name() string
	Open() (io.ReadCloser, error)
}

// FileBlob is a file on disk
type FileBlob struct {
	Path string
}

func (b FileBlob) Name() string { return filepath.Base(b.Path) }

func (b FileBlob) Open() (io.ReadCloser, error) {
	// #nosec G304 - the user picked this path
	return os.Open(b.Path)
}

// MemoryBlob is an in-memory file
type MemoryBlob struct {
	name string
	data []byte
}

// NewMemoryBlob wraps data under a file name
func NewMemoryBlob(name string, data []byte) *MemoryBlob {
	return &MemoryBlob{name: name, data: data}
}

func (b *MemoryBlob) Name() string { return b.name }

func (b *MemoryBlob) Open() (io.ReadCloser, error) {
	return io.NopCloser(bytes.NewReader(b.data)), nil
}

// InputState is one of EmptyInput, TextInput or FileInput
type InputState interface {
	inputState()
}

// EmptyInput means nothing has been typed or selected
type EmptyInput struct{}

// TextInput holds typed resume text, untrimmed
type TextInput struct {
	Content string
}

// FileInput holds a selected file
type FileInput struct {
	Blob        Blob
	DisplayName string
	Kind        FileKind
}

func (EmptyInput) inputState() {}
func (TextInput) inputState()  {}
func (FileInput) inputState()  {}

// Surface is what the text area shows and whether the user may edit it
type Surface struct {
	Text     string
	Editable bool
}

// DecodeJob reads a selected text file. It is produced by SelectFile and
// handed back through CompleteDecode once Run has finished.
type DecodeJob struct {
	Blob     Blob
	maxBytes int64
}

// DecodeError reports that a selected file could not be read as text
type DecodeError struct {
	Name string
	Err  error
}

func (e *DecodeError) Error() string {
	return fmt.Sprintf("could not read %s: %v", e.Name, e.Err)
}

func (e *DecodeError) Unwrap() error { return e.Err }

// Run reads the blob and decodes it as text. A UTF-8 or UTF-16 byte order
// mark selects the encoding; otherwise UTF-8 is assumed and invalid bytes
// become U+FFFD.
func (j *DecodeJob) Run() (string, error) {
	rc, err := j.Blob.Open()
	if err != nil {
		return "", &DecodeError{Name: j.Blob.Name(), Err: err}
	}
	defer func() { _ = rc.Close() }()

	var r io.Reader = rc
	if j.maxBytes > 0 {
		r = io.LimitReader(rc, j.maxBytes+1)
	}

	raw, err := io.ReadAll(r)
	if err != nil {
		return "", &DecodeError{Name: j.Blob.Name(), Err: err}
	}
	if j.maxBytes > 0 && int64(len(raw)) > j.maxBytes {
		return "", &DecodeError{Name: j.Blob.Name(), Err: fmt.Errorf("file exceeds %d bytes", j.maxBytes)}
	}

	decoder := unicode.BOMOverride(unicode.UTF8.NewDecoder())
	text, _, err := transform.Bytes(decoder, raw)
	if err != nil {
		return "", &DecodeError{Name: j.Blob.Name(), Err: err}
	}

	return string(text), nil
}

// PDFPlaceholder is shown in place of text while a PDF is selected
func PDFPlaceholder(name string) string {
	return fmt.Sprintf("PDF file selected: %s\n\nPress analyze to process this PDF file.", name)
}

// InputManager owns the mutually exclusive text/file input. It is not safe
// for concurrent use; the Controller serializes access.
type InputManager struct {
	state    InputState
	surface  Surface
	decoding *DecodeJob
	maxBytes int64
}

// NewInputManager creates an empty input. maxBytes caps text file decoding (0 disables).
func NewInputManager(maxBytes int64) *InputManager {
	return &InputManager{
		state:    EmptyInput{},
		surface:  Surface{Editable: true},
		maxBytes: maxBytes,
	}
}

// State returns the current input
func (m *InputManager) State() InputState {
	return m.state
}

// Surface returns what the text area should display
func (m *InputManager) Surface() Surface {
	return m.surface
}

// Decoding reports whether a text file is being read
func (m *InputManager) Decoding() bool {
	return m.decoding != nil
}

// SetText records typed text. Emptiness is checked at dispatch, not here.
func (m *InputManager) SetText(content string) error {
	if m.decoding != nil {
		return ErrDecodePending
	}
	if _, ok := m.state.(FileInput); ok {
		return ErrFileSelected
	}

	m.state = TextInput{Content: content}
	m.surface = Surface{Text: content, Editable: true}
	return nil
}

// EditMirror edits the text shown for a decoded text file. The file stays
// the payload; only the visible surface changes.
func (m *InputManager) EditMirror(content string) error {
	if m.decoding != nil {
		return ErrDecodePending
	}
	file, ok := m.state.(FileInput)
	if !ok {
		return m.SetText(content)
	}
	if file.Kind == KindPDF {
		return ErrNotEditable
	}

	m.surface.Text = content
	return nil
}

// SelectFile replaces any typed text with a file. PDFs are selected at once
// and never read; other files return a job that must be run and completed.
func (m *InputManager) SelectFile(blob Blob) *DecodeJob {
	name := blob.Name()

	if KindOf(name) == KindPDF {
		m.decoding = nil
		m.state = FileInput{Blob: blob, DisplayName: name, Kind: KindPDF}
		m.surface = Surface{Text: PDFPlaceholder(name), Editable: false}
		return nil
	}

	job := &DecodeJob{Blob: blob, maxBytes: m.maxBytes}
	m.decoding = job
	m.state = EmptyInput{}
	m.surface = Surface{Text: fmt.Sprintf("Reading %s...", name), Editable: false}
	return job
}

// CompleteDecode applies the result of job.Run. It returns false when the
// job was superseded by a later selection or a clear.
func (m *InputManager) CompleteDecode(job *DecodeJob, content string, err error) bool {
	if job == nil || job != m.decoding {
		return false
	}
	m.decoding = nil

	if err != nil {
		m.state = EmptyInput{}
		m.surface = Surface{Editable: true}
		return true
	}

	name := job.Blob.Name()
	m.state = FileInput{Blob: job.Blob, DisplayName: name, Kind: KindText}
	m.surface = Surface{Text: content, Editable: true}
	return true
}

// Clear resets to EmptyInput and re-enables typing
func (m *InputManager) Clear() {
	m.state = EmptyInput{}
	m.surface = Surface{Editable: true}
	m.decoding = nil
}
