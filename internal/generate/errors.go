package generate

import "fmt"

// Code is a process exit code. Each fatal pipeline condition maps to
// exactly one code.
type Code int

const (
	CodeOK             Code = 0
	CodeRootNotFound   Code = 1
	CodeNotADirectory  Code = 2
	CodeCanonicalize   Code = 3
	CodeFindmntMissing Code = 4
	CodeFindmntFailed  Code = 5
	CodeNoFilesystems  Code = 6
	CodeBlkidMissing   Code = 7
)

// Error is a fatal pipeline failure carrying its exit code. There is no
// partial-success mode: the orchestrator aborts on the first Error with
// nothing written to stdout.
type Error struct {
	Code    Code
	Message string
}

func (e *Error) Error() string {
	return fmt.Sprintf("E%03d: %s", int(e.Code), e.Message)
}
