package driven

import "context"

// CommandRunner executes an external command and returns its combined
// output. Extractors that shell out to conversion tools (pdftotext,
// ssconvert) take a runner so tests can inject a double.
type CommandRunner interface {
	Run(ctx context.Context, name string, args ...string) ([]byte, error)
}
