package domain

// OutcomeStatus describes what happened to one package in a batch.
type OutcomeStatus string

// Batch item statuses.
const (
	StatusAdded     OutcomeStatus = "added"
	StatusRemoved   OutcomeStatus = "removed"
	StatusInstalled OutcomeStatus = "installed"
	StatusUpdated   OutcomeStatus = "updated"
	StatusUnchanged OutcomeStatus = "unchanged"
	StatusFailed    OutcomeStatus = "failed"
)

// String returns the string representation.
func (s OutcomeStatus) String() string {
	return string(s)
}

// Batch operations.
const (
	OperationAdd          = "add"
	OperationRemove       = "remove"
	OperationInstall      = "install"
	OperationRequirements = "install-requirements"
	OperationUpdate       = "update"
)

// ItemOutcome is the result of processing one specifier in a batch.
type ItemOutcome struct {
	// Spec is the specifier as given (or reconstructed from the manifest).
	Spec string

	// Name is the parsed package name. Empty when Spec did not parse.
	Name string

	// Version is the recorded or installed version, if known.
	Version string

	// Previous is the version recorded before an update.
	Previous string

	Status OutcomeStatus

	// Err is set when Status is StatusFailed, or when the environment
	// succeeded but the manifest could not be persisted.
	Err error
}

// Succeeded reports whether the item completed without error.
func (o ItemOutcome) Succeeded() bool {
	return o.Err == nil && o.Status != StatusFailed
}

// BatchReport is the ordered collection of per-item outcomes of one batch.
type BatchReport struct {
	Operation string
	Items     []ItemOutcome
}

// Add appends an outcome.
func (r *BatchReport) Add(o ItemOutcome) {
	r.Items = append(r.Items, o)
}

// Empty reports whether the batch had nothing to process.
func (r *BatchReport) Empty() bool {
	return len(r.Items) == 0
}

// Failures returns the outcomes that did not succeed.
func (r *BatchReport) Failures() []ItemOutcome {
	var failed []ItemOutcome
	for _, item := range r.Items {
		if !item.Succeeded() {
			failed = append(failed, item)
		}
	}
	return failed
}

// HasFailures reports whether any item failed.
func (r *BatchReport) HasFailures() bool {
	for _, item := range r.Items {
		if !item.Succeeded() {
			return true
		}
	}
	return false
}

// Succeeded returns the number of successful items.
func (r *BatchReport) Succeeded() int {
	n := 0
	for _, item := range r.Items {
		if item.Succeeded() {
			n++
		}
	}
	return n
}
