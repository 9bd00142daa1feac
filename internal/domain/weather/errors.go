package weather

import (
	apperrors "github.com/yanqian/weather-explorer/pkg/errors"
)

// Error codes carried by apperrors.AppError for the lookup failure taxonomy.
const (
	CodeValidation  = "validation_error"
	CodeAPI         = "api_error"
	CodeEmptyResult = "empty_result"
	CodeTransport   = "transport_error"
)

// User facing messages.
const (
	MsgCityRequired  = "City name is required for the search."
	MsgNoResults     = "No search results found for the provided city."
	msgProviderError = "The weather provider returned an error."
)

// ErrorKind classifies a failed lookup.
type ErrorKind string

const (
	KindValidation  ErrorKind = CodeValidation
	KindAPI         ErrorKind = CodeAPI
	KindEmptyResult ErrorKind = CodeEmptyResult
	KindTransport   ErrorKind = CodeTransport
)

// KindOf maps an error to its kind. Errors outside the taxonomy count as transport failures.
func KindOf(err error) ErrorKind {
	switch code := apperrors.CodeOf(err); code {
	case CodeValidation, CodeAPI, CodeEmptyResult, CodeTransport:
		return ErrorKind(code)
	default:
		return KindTransport
	}
}

func fetchFailed(endpoint Endpoint, err error) error {
	return apperrors.Wrap(CodeTransport, "fetch failed for "+string(endpoint), err)
}
