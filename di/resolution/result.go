package resolution

// Result is a stage's answer to a Request.
//
// A failed Result carries no error: "cannot satisfy" is a normal outcome that
// outer stages use for fallback. Errors are returned beside the Result.
type Result struct {
	IsSuccess      bool
	ResolutionPath Path
	ResolvedObject any
}

// Success builds a successful result.
func Success(path Path, obj any) Result {
	return Result{IsSuccess: true, ResolutionPath: path, ResolvedObject: obj}
}

// Failure builds a failed result.
func Failure(path Path) Result {
	return Result{ResolutionPath: path}
}
