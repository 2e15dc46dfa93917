package errors

import (
	stderrors "errors"
	"testing"
)

func TestAppErrorFormatting(t *testing.T) {
	err := New(CodeValidation, "bad input")
	if err.Error() != "VALIDATION_ERROR: bad input" {
		t.Errorf("Error() = %q", err.Error())
	}

	wrapped := Wrap(CodeEmbedding, "encode failed", stderrors.New("boom"))
	if wrapped.Error() != "EMBEDDING_ERROR: encode failed: boom" {
		t.Errorf("Error() = %q", wrapped.Error())
	}
}

func TestUnwrap(t *testing.T) {
	cause := stderrors.New("root cause")
	err := ConfigurationError("loading config", cause)

	if !stderrors.Is(err, cause) {
		t.Error("errors.Is does not reach the wrapped cause")
	}
}

func TestCodeChecks(t *testing.T) {
	tests := []struct {
		name  string
		err   error
		check func(error) bool
		want  bool
	}{
		{"configuration", ConfigurationError("x", nil), IsConfiguration, true},
		{"not configuration", ValidationError("x"), IsConfiguration, false},
		{"validation", ValidationError("x"), IsValidation, true},
		{"partial data", PartialDataError("x"), IsPartialData, true},
		{"not found", NotFoundError("doc"), IsNotFound, true},
		{"plain error", stderrors.New("x"), IsValidation, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.check(tt.err); got != tt.want {
				t.Errorf("check = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestWithDetail(t *testing.T) {
	err := ValidationError("bad").WithDetail("field", "query").WithDetail("line", "3")
	if err.Details["field"] != "query" || err.Details["line"] != "3" {
		t.Errorf("Details = %v", err.Details)
	}
}
