package session

import (
	"errors"

	"github.com/yildizm/ResumeScreen/internal/service"
)

// MaxTopPredictions bounds the alternate predictions kept in a Success
const MaxTopPredictions = 3

// User-facing failure messages
const (
	MsgEmptyInput       = "Please enter or upload resume text"
	MsgRejectedFallback = "An error occurred while analyzing the resume"
	MsgUnreachable      = "Failed to connect to the server. Please ensure the classification service is running."
)

// FailureKind classifies a Failure outcome
type FailureKind string

const (
	FailureValidation FailureKind = "validation"
	FailureRejection  FailureKind = "rejection"
	FailureTransport  FailureKind = "transport"
	FailureDecode     FailureKind = "decode"
)

// Outcome is either Success or Failure
type Outcome interface {
	outcome()
}

// Prediction is one ranked alternative
type Prediction struct {
	Category          string  `json:"category"`
	ConfidencePercent float64 `json:"confidence"`
}

// Success carries the predicted category and up to three ranked alternatives
type Success struct {
	PredictedCategory string       `json:"predicted_category"`
	ConfidencePercent float64      `json:"confidence"`
	TopPredictions    []Prediction `json:"top_predictions"`
}

// Failure carries a message ready to show
type Failure struct {
	Kind    FailureKind `json:"kind"`
	Message string      `json:"message"`
}

func (Success) outcome() {}
func (Failure) outcome() {}

// OutcomeFromResponse normalizes a service call result
func OutcomeFromResponse(resp *service.PredictResponse, err error) Outcome {
	if err != nil {
		return failureFromError(err)
	}
	if resp == nil || !resp.Success {
		msg := MsgRejectedFallback
		if resp != nil && resp.Error != "" {
			msg = resp.Error
		}
		return Failure{Kind: FailureRejection, Message: msg}
	}

	top := resp.TopPredictions
	if len(top) > MaxTopPredictions {
		top = top[:MaxTopPredictions]
	}

	success := Success{
		PredictedCategory: resp.PredictedCategory,
		ConfidencePercent: resp.Confidence,
		TopPredictions:    make([]Prediction, 0, len(top)),
	}
	for _, p := range top {
		success.TopPredictions = append(success.TopPredictions, Prediction{
			Category:          p.Category,
			ConfidencePercent: p.Confidence,
		})
	}

	return success
}

func failureFromError(err error) Failure {
	var decodeErr *DecodeError
	if errors.As(err, &decodeErr) {
		return Failure{Kind: FailureDecode, Message: decodeErr.Error()}
	}

	switch service.TypeOf(err) {
	case service.ErrTypeRejection:
		msg := service.MessageOf(err)
		if msg == "" {
			msg = MsgRejectedFallback
		}
		return Failure{Kind: FailureRejection, Message: msg}
	case service.ErrTypeValidation:
		return Failure{Kind: FailureValidation, Message: service.MessageOf(err)}
	default:
		return Failure{Kind: FailureTransport, Message: MsgUnreachable}
	}
}
