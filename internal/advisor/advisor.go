package advisor

import "context"

// Advisor turns an aggregated trigger summary into a short natural-language
// recommendation. Implementations are black boxes; callers must treat any
// error as recoverable and substitute a fallback text.
type Advisor interface {
	Advise(ctx context.Context, prompt string) (string, error)
}
