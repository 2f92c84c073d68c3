package sheets

import (
	"context"

	"github.com/locatrova/locatrova-go/internal/domain/leads"
)

// Unavailable stands in when the configured store could not be built, so
// the server still starts and each call reports the original cause.
type Unavailable struct {
	Provider string
	Err      error
}

func (u Unavailable) Append(context.Context, string, []string) error {
	return &leads.ProviderError{Provider: u.Provider, Operation: "append", Err: u.Err}
}

func (u Unavailable) Create(context.Context, string, string, []string) (string, error) {
	return "", &leads.ProviderError{Provider: u.Provider, Operation: "create", Err: u.Err}
}
