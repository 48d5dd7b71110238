package judge0

// Judge0 status ids. Anything below InQueue/Processing is non-terminal;
// Accepted means the judge's own grading matched the expected output.
const (
	StatusIDInQueue    = 1
	StatusIDProcessing = 2
	StatusIDAccepted   = 3
)

// Submission is a single entry of a batch submission request.
type Submission struct {
	SourceCode     string `json:"source_code"`
	LanguageID     int    `json:"language_id"`
	Stdin          string `json:"stdin,omitempty"`
	ExpectedOutput string `json:"expected_output,omitempty"`
}

type batchSubmissionRequest struct {
	Submissions []Submission `json:"submissions"`
}

type submissionToken struct {
	Token string `json:"token"`
}

// Status is the judge's verdict for one execution.
type Status struct {
	ID          int    `json:"id"`
	Description string `json:"description"`
}

// Result holds the fields consumed downstream. Time is reported by the judge
// as a decimal string of seconds, Memory as kilobytes.
type Result struct {
	Token         string  `json:"token"`
	Stdout        *string `json:"stdout"`
	Stderr        *string `json:"stderr"`
	CompileOutput *string `json:"compile_output"`
	Message       *string `json:"message,omitempty"`
	Time          *string `json:"time"`
	Memory        *int    `json:"memory"`
	Status        Status  `json:"status"`
}

type batchResultResponse struct {
	Submissions []Result `json:"submissions"`
}

// Terminal reports whether the result has left the judge's queue.
func (r Result) Terminal() bool {
	return r.Status.ID != StatusIDInQueue && r.Status.ID != StatusIDProcessing
}
