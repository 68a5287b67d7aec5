package session

import (
	"context"
	"errors"
	"io"
	"sync"
	"testing"

	"github.com/yildizm/ResumeScreen/internal/service"
)

type predictCall struct {
	text      string
	fileName  string
	fileBody  string
	requestID string
}

// fakePredictor records every call and answers with a fixed response
type fakePredictor struct {
	mu    sync.Mutex
	calls []predictCall
	resp  *service.PredictResponse
	err   error
}

func (f *fakePredictor) PredictText(_ context.Context, text, requestID string) (*service.PredictResponse, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls = append(f.calls, predictCall{text: text, requestID: requestID})
	return f.resp, f.err
}

func (f *fakePredictor) PredictFile(_ context.Context, name string, content io.Reader, requestID string) (*service.PredictResponse, error) {
	body, _ := io.ReadAll(content)
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls = append(f.calls, predictCall{fileName: name, fileBody: string(body), requestID: requestID})
	return f.resp, f.err
}

func (f *fakePredictor) callCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.calls)
}

func successResponse() *service.PredictResponse {
	return &service.PredictResponse{
		Success:           true,
		PredictedCategory: "Data Science",
		Confidence:        87.456,
		TopPredictions: []service.Prediction{
			{Category: "Data Science", Confidence: 87.456},
			{Category: "Python Developer", Confidence: 8.1},
			{Category: "Java Developer", Confidence: 2.2},
		},
	}
}

func newTestController() *Controller {
	c := NewController(NewInputManager(0), nil)
	c.newID = func() string { return "req-1" }
	return c
}

func TestController_InitialState(t *testing.T) {
	c := newTestController()

	state := c.State()
	if state.Phase != Idle {
		t.Errorf("Expected Idle, got %v", state.Phase)
	}
	if state.Outcome != nil {
		t.Errorf("Expected no outcome, got %#v", state.Outcome)
	}
	if c.Loading() {
		t.Error("Expected loading to be false")
	}
	if !c.CanAnalyze() {
		t.Error("Expected analyze to be enabled")
	}
}

func TestController_TextDispatch(t *testing.T) {
	c := newTestController()
	p := &fakePredictor{resp: successResponse()}

	if err := c.SetText("   Senior Go engineer, 8 years\n\n"); err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}

	state, sent := c.Dispatch(context.Background(), p)
	if !sent {
		t.Fatal("Expected a request to be sent")
	}
	if p.callCount() != 1 {
		t.Fatalf("Expected exactly one request, got %d", p.callCount())
	}

	call := p.calls[0]
	if call.text != "Senior Go engineer, 8 years" {
		t.Errorf("Expected trimmed text, got %q", call.text)
	}
	if call.fileName != "" {
		t.Errorf("Text dispatch must not send a file, got %q", call.fileName)
	}
	if call.requestID != "req-1" {
		t.Errorf("Expected request ID req-1, got %q", call.requestID)
	}

	if state.Phase != Displaying {
		t.Errorf("Expected Displaying, got %v", state.Phase)
	}
	success, ok := state.Outcome.(Success)
	if !ok {
		t.Fatalf("Expected Success, got %#v", state.Outcome)
	}
	if success.PredictedCategory != "Data Science" || len(success.TopPredictions) != 3 {
		t.Errorf("Unexpected success: %+v", success)
	}
}

func TestController_PDFDispatch(t *testing.T) {
	c := newTestController()
	p := &fakePredictor{resp: successResponse()}
	blob := &countingBlob{name: "Resume.PDF", data: "%PDF-1.4 binary"}

	if job := c.SelectFile(blob); job != nil {
		t.Fatal("PDF must not produce a decode job")
	}
	if blob.opens != 0 {
		t.Fatal("PDF must not be read on selection")
	}

	if _, sent := c.Dispatch(context.Background(), p); !sent {
		t.Fatal("Expected a request to be sent")
	}

	call := p.calls[0]
	if call.fileName != "Resume.PDF" || call.fileBody != "%PDF-1.4 binary" {
		t.Errorf("Unexpected upload: %+v", call)
	}
	if call.text != "" {
		t.Error("File dispatch must not send text")
	}
	if blob.opens != 1 {
		t.Errorf("Expected the PDF to be read once for upload, got %d", blob.opens)
	}
}

func TestController_TextFileSendsFileNotEdits(t *testing.T) {
	c := newTestController()
	p := &fakePredictor{resp: successResponse()}
	blob := &countingBlob{name: "resume.txt", data: "original content"}

	job := c.SelectFile(blob)
	if c.CanAnalyze() {
		t.Error("Analyze should be disabled while decoding")
	}
	if _, ok := c.Analyze(); ok {
		t.Error("Analyze must be a no-op while decoding")
	}

	content, err := job.Run()
	c.CompleteDecode(job, content, err)

	if err := c.EditText("edited in the text area"); err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}

	if _, sent := c.Dispatch(context.Background(), p); !sent {
		t.Fatal("Expected a request to be sent")
	}
	if p.calls[0].fileBody != "original content" {
		t.Errorf("Expected the file itself to be uploaded, got %q", p.calls[0].fileBody)
	}
}

func TestController_ClearThenAnalyze(t *testing.T) {
	c := newTestController()
	p := &fakePredictor{resp: successResponse()}

	_ = c.SetText("some resume")
	c.Clear()

	state, sent := c.Dispatch(context.Background(), p)
	if sent {
		t.Error("Expected no request after clear")
	}
	if p.callCount() != 0 {
		t.Errorf("Expected zero network calls, got %d", p.callCount())
	}

	failure, ok := state.Outcome.(Failure)
	if !ok || failure.Kind != FailureValidation {
		t.Fatalf("Expected validation Failure, got %#v", state.Outcome)
	}
	if failure.Message != MsgEmptyInput {
		t.Errorf("Expected %q, got %q", MsgEmptyInput, failure.Message)
	}
	if state.Phase != Displaying {
		t.Errorf("Expected Displaying, got %v", state.Phase)
	}
}

func TestController_WhitespaceOnlyIsEmpty(t *testing.T) {
	c := newTestController()
	_ = c.SetText(" \t\n ")

	if _, ok := c.Analyze(); ok {
		t.Fatal("Whitespace-only text must not dispatch")
	}
	if f, ok := c.State().Outcome.(Failure); !ok || f.Kind != FailureValidation {
		t.Errorf("Expected validation Failure, got %#v", c.State().Outcome)
	}
}

func TestController_SecondAnalyzeWhileDispatching(t *testing.T) {
	c := newTestController()
	_ = c.SetText("resume")

	first, ok := c.Analyze()
	if !ok {
		t.Fatal("Expected first analyze to dispatch")
	}
	if !c.Loading() || c.CanAnalyze() {
		t.Error("Expected loading with analyze disabled")
	}

	if _, ok := c.Analyze(); ok {
		t.Error("Second analyze while dispatching must be a no-op")
	}
	if c.State().Phase != Dispatching {
		t.Errorf("Expected Dispatching, got %v", c.State().Phase)
	}

	if !c.Resolve(first, Success{PredictedCategory: "HR"}) {
		t.Error("Expected first ticket to resolve")
	}
	if c.Loading() {
		t.Error("Loading should clear once the response arrives")
	}
}

func TestController_StaleResponseAfterClear(t *testing.T) {
	c := newTestController()
	_ = c.SetText("resume")

	ticket, _ := c.Analyze()
	c.Clear()

	if c.Resolve(ticket, Success{PredictedCategory: "HR"}) {
		t.Error("Response arriving after clear must be discarded")
	}
	state := c.State()
	if state.Phase != Idle || state.Outcome != nil {
		t.Errorf("Expected idle with no outcome, got %+v", state)
	}
}

func TestController_StaleResponseAfterReanalyze(t *testing.T) {
	c := newTestController()
	_ = c.SetText("resume")

	old, _ := c.Analyze()
	c.Resolve(old, Failure{Kind: FailureTransport, Message: MsgUnreachable})

	current, ok := c.Analyze()
	if !ok {
		t.Fatal("Expected re-analyze to dispatch")
	}

	if c.Resolve(old, Success{PredictedCategory: "Stale"}) {
		t.Error("Old ticket must not resolve the new dispatch")
	}
	if !c.Resolve(current, Success{PredictedCategory: "Fresh"}) {
		t.Error("Current ticket must resolve")
	}
	if s, ok := c.State().Outcome.(Success); !ok || s.PredictedCategory != "Fresh" {
		t.Errorf("Expected fresh success, got %#v", c.State().Outcome)
	}
}

func TestController_FailureThenSuccessReplaces(t *testing.T) {
	c := newTestController()
	_ = c.SetText("resume")

	failing := &fakePredictor{err: errors.New("connection refused")}
	state, _ := c.Dispatch(context.Background(), failing)
	if f, ok := state.Outcome.(Failure); !ok || f.Message != MsgUnreachable {
		t.Fatalf("Expected transport failure, got %#v", state.Outcome)
	}

	state, _ = c.Dispatch(context.Background(), &fakePredictor{resp: successResponse()})
	if _, ok := state.Outcome.(Success); !ok {
		t.Errorf("Expected success to replace failure, got %#v", state.Outcome)
	}
}

func TestController_DecodeFailure(t *testing.T) {
	c := newTestController()
	blob := &countingBlob{name: "resume.txt", openErr: errors.New("device not ready")}

	job := c.SelectFile(blob)
	content, err := job.Run()
	if !c.CompleteDecode(job, content, err) {
		t.Fatal("Expected decode result to apply")
	}

	if _, ok := c.Input().(EmptyInput); !ok {
		t.Errorf("Expected EmptyInput, got %T", c.Input())
	}
	state := c.State()
	failure, ok := state.Outcome.(Failure)
	if !ok || failure.Kind != FailureDecode {
		t.Fatalf("Expected decode Failure, got %#v", state.Outcome)
	}
	if state.Phase != Displaying {
		t.Errorf("Expected Displaying, got %v", state.Phase)
	}
}

func TestController_DecodeFailureSupersedesInflight(t *testing.T) {
	c := newTestController()
	_ = c.SetText("resume")
	ticket, _ := c.Analyze()

	// Selecting while dispatching is allowed; the decode fails afterwards.
	job := c.SelectFile(&countingBlob{name: "bad.txt", openErr: errors.New("gone")})
	content, err := job.Run()
	c.CompleteDecode(job, content, err)

	if c.Resolve(ticket, Success{PredictedCategory: "Late"}) {
		t.Error("In-flight response must not replace the decode failure")
	}
}

func TestController_TypingBlockedByFile(t *testing.T) {
	c := newTestController()
	c.SelectFile(&countingBlob{name: "cv.pdf"})

	if err := c.SetText("typed"); !errors.Is(err, ErrFileSelected) {
		t.Errorf("Expected ErrFileSelected, got %v", err)
	}
	if _, ok := c.Input().(FileInput); !ok {
		t.Error("File selection must survive a rejected keystroke")
	}
}

func TestExecute_FileOpenFailure(t *testing.T) {
	p := &fakePredictor{resp: successResponse()}
	ticket := Ticket{Request: Request{File: &countingBlob{name: "x.pdf", openErr: errors.New("removed")}}}

	outcome := Execute(context.Background(), p, ticket)

	f, ok := outcome.(Failure)
	if !ok || f.Kind != FailureDecode {
		t.Fatalf("Expected decode Failure, got %#v", outcome)
	}
	if p.callCount() != 0 {
		t.Errorf("Expected no request when the file cannot be read, got %d", p.callCount())
	}
}

func TestPhase_String(t *testing.T) {
	tests := map[Phase]string{
		Idle:        "idle",
		Dispatching: "dispatching",
		Displaying:  "displaying",
	}
	for phase, want := range tests {
		if got := phase.String(); got != want {
			t.Errorf("Expected %q, got %q", want, got)
		}
	}
}
