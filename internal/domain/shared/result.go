package shared

// Result is the outcome of a user-initiated command whose message is shown
// to the caller regardless of success.
type Result struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
}

// Ok returns a successful result
func Ok(message string) Result {
	return Result{Success: true, Message: message}
}

// Fail returns a failed result
func Fail(message string) Result {
	return Result{Success: false, Message: message}
}
