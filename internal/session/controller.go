package session

import (
	"context"
	"io"
	"strings"
	"sync"

	"github.com/google/uuid"
	"github.com/yildizm/ResumeScreen/internal/logger"
	"github.com/yildizm/ResumeScreen/internal/service"
)

// Phase is the lifecycle position of the session
type Phase int

const (
	Idle Phase = iota
	Dispatching
	Displaying
)

func (p Phase) String() string {
	switch p {
	case Dispatching:
		return "dispatching"
	case Displaying:
		return "displaying"
	default:
		return "idle"
	}
}

// State is a snapshot of the session. Outcome is set only while Displaying.
type State struct {
	Phase   Phase
	Outcome Outcome
}

// Request is the immutable payload of one dispatch: text or a file, never both
type Request struct {
	Text string
	File Blob
}

// IsFile reports whether the request is a multipart upload
func (r Request) IsFile() bool {
	return r.File != nil
}

// Ticket identifies one dispatch. Results are accepted only for the ticket
// whose Generation is still current.
type Ticket struct {
	Generation uint64
	RequestID  string
	Request    Request
}

// Predictor is the part of the service client the dispatcher needs
type Predictor interface {
	PredictText(ctx context.Context, text, requestID string) (*service.PredictResponse, error)
	PredictFile(ctx context.Context, name string, content io.Reader, requestID string) (*service.PredictResponse, error)
}

// Controller owns the session state and mediates every transition of the
// input manager, dispatcher and renderer state.
type Controller struct {
	mu         sync.Mutex
	input      *InputManager
	phase      Phase
	outcome    Outcome
	generation uint64
	log        *logger.Logger
	newID      func() string
}

// NewController creates an idle session. A nil logger discards diagnostics.
func NewController(input *InputManager, log *logger.Logger) *Controller {
	if input == nil {
		input = NewInputManager(0)
	}
	if log == nil {
		log = logger.Nop()
	}
	return &Controller{
		input: input,
		log:   log.WithComponent("session"),
		newID: uuid.NewString,
	}
}

// State returns the current session snapshot
func (c *Controller) State() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	return State{Phase: c.phase, Outcome: c.outcome}
}

// Input returns the current input state
func (c *Controller) Input() InputState {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.input.State()
}

// Surface returns what the text area shows
func (c *Controller) Surface() Surface {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.input.Surface()
}

// Loading is true exactly while a request is in flight
func (c *Controller) Loading() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.phase == Dispatching
}

// Decoding reports whether a selected text file is still being read
func (c *Controller) Decoding() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.input.Decoding()
}

// CanAnalyze reports whether the analyze trigger is active
func (c *Controller) CanAnalyze() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.phase != Dispatching && !c.input.Decoding()
}

// SetText records typed text
func (c *Controller) SetText(content string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.input.SetText(content)
}

// EditText routes a keystroke-level edit of the text area: typed text when
// no file is selected, the mirror of a decoded text file otherwise.
func (c *Controller) EditText(content string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.input.EditMirror(content)
}

// SelectFile selects a file. A non-nil job must be run off the event loop
// and passed back to CompleteDecode.
func (c *Controller) SelectFile(blob Blob) *DecodeJob {
	c.mu.Lock()
	defer c.mu.Unlock()

	job := c.input.SelectFile(blob)
	c.log.DebugWithFields("file selected", []logger.Field{
		logger.F("name", blob.Name()),
		logger.F("kind", KindOf(blob.Name())),
	})
	if !AcceptedByService(blob.Name()) {
		c.log.Info("%s is not .txt or .pdf; the service may reject it", blob.Name())
	}
	return job
}

// CompleteDecode applies a finished decode. A failure resets the input to
// empty and displays a decode Failure. Stale jobs are ignored.
func (c *Controller) CompleteDecode(job *DecodeJob, content string, err error) bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	if !c.input.CompleteDecode(job, content, err) {
		c.log.Debug("discarding stale decode result")
		return false
	}

	if err != nil {
		c.log.WarnWithFields("file decode failed", []logger.Field{logger.Error(err)})
		// A request may be in flight; showing the decode error supersedes it.
		c.generation++
		c.phase = Displaying
		c.outcome = failureFromError(err)
	}
	return true
}

// Clear resets input and hides results. Any in-flight response is discarded.
func (c *Controller) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.input.Clear()
	c.generation++
	c.phase = Idle
	c.outcome = nil
}

// Analyze starts a dispatch from the current input. It returns ok=false
// without side effects while a request is in flight or a file is decoding.
// Blank input moves straight to a validation Failure, also with ok=false.
func (c *Controller) Analyze() (Ticket, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.phase == Dispatching || c.input.Decoding() {
		c.log.Debug("analyze ignored while busy")
		return Ticket{}, false
	}

	var req Request
	switch in := c.input.State().(type) {
	case FileInput:
		req = Request{File: in.Blob}
	case TextInput:
		req = Request{Text: strings.TrimSpace(in.Content)}
	}

	if req.File == nil && req.Text == "" {
		c.phase = Displaying
		c.outcome = Failure{Kind: FailureValidation, Message: MsgEmptyInput}
		return Ticket{}, false
	}

	c.generation++
	ticket := Ticket{
		Generation: c.generation,
		RequestID:  c.newID(),
		Request:    req,
	}
	c.phase = Dispatching
	c.outcome = nil

	c.log.InfoWithFields("dispatching analysis", []logger.Field{
		logger.RequestID(ticket.RequestID),
		logger.F("generation", ticket.Generation),
		logger.F("file", req.IsFile()),
	})
	return ticket, true
}

// Resolve delivers the outcome for a ticket. It returns false and changes
// nothing when the ticket is no longer current.
func (c *Controller) Resolve(ticket Ticket, outcome Outcome) bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.phase != Dispatching || ticket.Generation != c.generation {
		c.log.DebugWithFields("discarding stale response", []logger.Field{
			logger.RequestID(ticket.RequestID),
			logger.F("generation", ticket.Generation),
			logger.F("current", c.generation),
		})
		return false
	}

	if f, ok := outcome.(Failure); ok && f.Kind == FailureTransport {
		c.log.WarnWithFields("analysis failed", []logger.Field{logger.RequestID(ticket.RequestID)})
	}

	c.phase = Displaying
	c.outcome = outcome
	return true
}

// Execute performs the service call for a ticket. It touches no session
// state and may run on any goroutine.
func Execute(ctx context.Context, p Predictor, ticket Ticket) Outcome {
	req := ticket.Request
	if !req.IsFile() {
		return OutcomeFromResponse(p.PredictText(ctx, req.Text, ticket.RequestID))
	}

	rc, err := req.File.Open()
	if err != nil {
		return failureFromError(&DecodeError{Name: req.File.Name(), Err: err})
	}
	defer func() { _ = rc.Close() }()

	return OutcomeFromResponse(p.PredictFile(ctx, req.File.Name(), rc, ticket.RequestID))
}

// Dispatch runs Analyze, Execute and Resolve in sequence. ok is false when
// no request was sent; the returned state then explains why.
func (c *Controller) Dispatch(ctx context.Context, p Predictor) (State, bool) {
	ticket, ok := c.Analyze()
	if !ok {
		return c.State(), false
	}
	c.Resolve(ticket, Execute(ctx, p, ticket))
	return c.State(), true
}
