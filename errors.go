package main

import (
	"errors"
	"fmt"
	"strings"
)

// ErrorKind classifies pipeline failures for reporting to the user
type ErrorKind int

const (
	KindValidation  ErrorKind = iota // Profile rejected before any generator call
	KindGeneration                   // External generator failed or returned an error payload
	KindComposition                  // A report block could not be rasterized or the PDF could not be written
)

func (k ErrorKind) String() string {
	switch k {
	case KindValidation:
		return "validation"
	case KindGeneration:
		return "generation"
	case KindComposition:
		return "composition"
	default:
		return "unknown"
	}
}

// PlanError is a pipeline failure with a kind and the operation that failed
type PlanError struct {
	Kind ErrorKind
	Op   string
	Err  error
}

func (e *PlanError) Error() string {
	return fmt.Sprintf("%s: %v", e.Op, e.Err)
}

func (e *PlanError) Unwrap() error {
	return e.Err
}

// UserMessage is the short text shown to users; internal detail stays in logs
func (e *PlanError) UserMessage() string {
	switch e.Kind {
	case KindValidation:
		return e.Err.Error()
	case KindGeneration:
		var genErr *GenerationError
		if errors.As(e.Err, &genErr) {
			return "An error occurred while generating your plan: " + genErr.Message + ". Please check your API key and try again."
		}
		return "An error occurred while generating your plan. Please try again."
	case KindComposition:
		return "Sorry, we couldn't generate the PDF report. Please try again."
	default:
		return "An unknown error occurred."
	}
}

// ErrorKindOf returns the kind of the first PlanError in err's chain
func ErrorKindOf(err error) (ErrorKind, bool) {
	var planErr *PlanError
	if errors.As(err, &planErr) {
		return planErr.Kind, true
	}
	return 0, false
}

// GenerationFailure says why a generator call did not produce a plan
type GenerationFailure int

const (
	FailureUnavailable GenerationFailure = iota // Transport or API error
	FailureEmpty                                // No text in the response
	FailureBlocked                              // Prompt or response blocked by the provider
	FailureSentinel                             // Payload carried the legacy error prefix
)

func (f GenerationFailure) String() string {
	switch f {
	case FailureUnavailable:
		return "unavailable"
	case FailureEmpty:
		return "empty"
	case FailureBlocked:
		return "blocked"
	case FailureSentinel:
		return "error-payload"
	default:
		return "unknown"
	}
}

// GenerationError is returned by generators instead of an error-prefixed string
type GenerationError struct {
	Failure  GenerationFailure
	Language Language
	Message  string
	Err      error
}

func (e *GenerationError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("generate %s plan (%s): %s: %v", e.Language, e.Failure, e.Message, e.Err)
	}
	return fmt.Sprintf("generate %s plan (%s): %s", e.Language, e.Failure, e.Message)
}

func (e *GenerationError) Unwrap() error {
	return e.Err
}

// errorSentinel is the prefix older generator front-ends put on failure payloads
const errorSentinel = "An error occurred"

// CheckResponse converts a sentinel-prefixed payload into a GenerationError.
// Callers run it before ParsePlan so error text is never parsed as a plan.
func CheckResponse(text string, lang Language) error {
	trimmed := strings.TrimSpace(text)
	if strings.HasPrefix(trimmed, errorSentinel) {
		return &GenerationError{Failure: FailureSentinel, Language: lang, Message: trimmed}
	}
	return nil
}
