package commands

import (
	"context"
	"errors"

	goerrors "github.com/goliatone/go-errors"
	"github.com/goliatone/go-richtext/internal/convert"
	"github.com/goliatone/go-richtext/internal/migration"
)

// Text codes attached to errors leaving a command handler.
const (
	CodeMessageInvalid   = "RICHTEXT_MESSAGE_INVALID"
	CodeDocumentInvalid  = "RICHTEXT_DOCUMENT_INVALID"
	CodeRecordNotFound   = "RICHTEXT_RECORD_NOT_FOUND"
	CodeCanceled         = "RICHTEXT_COMMAND_CANCELED"
	CodeTimeout          = "RICHTEXT_COMMAND_TIMEOUT"
	CodeContextError     = "RICHTEXT_COMMAND_CONTEXT_ERROR"
	CodeExecutionFailure = "RICHTEXT_COMMAND_FAILED"
)

func wrapValidationError(err error, fields map[string]any) error {
	if err == nil {
		return nil
	}
	if goerrors.IsWrapped(err) {
		return err
	}
	return goerrors.Wrap(err, goerrors.CategoryValidation, "invalid command message").
		WithTextCode(CodeMessageInvalid).
		WithMetadata(fields)
}

func wrapContextError(err error, fields map[string]any) error {
	if err == nil {
		return nil
	}
	if goerrors.IsWrapped(err) {
		return err
	}
	message, code := "command context error", CodeContextError
	switch {
	case errors.Is(err, context.Canceled):
		message, code = "command cancelled", CodeCanceled
	case errors.Is(err, context.DeadlineExceeded):
		message, code = "command deadline exceeded", CodeTimeout
	}
	return goerrors.Wrap(err, goerrors.CategoryCommand, message).
		WithTextCode(code).
		WithMetadata(fields)
}

// wrapExecuteError separates bad documents and missing records from
// infrastructure failures so callers can tell data problems apart.
func wrapExecuteError(err error, fields map[string]any) error {
	if err == nil {
		return nil
	}
	if goerrors.IsWrapped(err) {
		return err
	}

	var notFound *migration.NotFoundError
	switch {
	case convert.IsDocumentError(err):
		return goerrors.Wrap(err, goerrors.CategoryBadInput, "document could not be converted").
			WithTextCode(CodeDocumentInvalid).
			WithMetadata(fields)
	case errors.As(err, &notFound):
		return goerrors.Wrap(err, goerrors.CategoryNotFound, "record not found").
			WithTextCode(CodeRecordNotFound).
			WithMetadata(fields, map[string]any{"resource": notFound.Resource, "key": notFound.Key})
	default:
		return goerrors.Wrap(err, goerrors.CategoryCommand, "command execution failed").
			WithTextCode(CodeExecutionFailure).
			WithMetadata(fields)
	}
}

// rejected reports errors caused by the caller's input rather than by the
// command itself.
func rejected(err error) bool {
	return goerrors.IsCategory(err, goerrors.CategoryValidation) ||
		goerrors.IsCategory(err, goerrors.CategoryBadInput) ||
		goerrors.IsCategory(err, goerrors.CategoryNotFound)
}
