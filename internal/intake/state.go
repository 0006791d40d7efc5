package intake

// State is a step of the submission dialogue.
type State int

const (
	AwaitingGuild State = iota + 1
	AwaitingUsername
	AwaitingScore
	AwaitingImage1
	AwaitingImage2
	Submitted
	Duplicate
	TimedOut
	Cancelled
	InvalidInput
	NoEligibleGuild
	Failed
)

var stateNames = map[State]string{
	AwaitingGuild:    "awaiting_guild",
	AwaitingUsername: "awaiting_username",
	AwaitingScore:    "awaiting_score",
	AwaitingImage1:   "awaiting_image1",
	AwaitingImage2:   "awaiting_image2",
	Submitted:        "submitted",
	Duplicate:        "duplicate",
	TimedOut:         "timed_out",
	Cancelled:        "cancelled",
	InvalidInput:     "invalid_input",
	NoEligibleGuild:  "no_eligible_guild",
	Failed:           "failed",
}

func (s State) String() string {
	if name, ok := stateNames[s]; ok {
		return name
	}

	return "unknown"
}

// Terminal reports whether the dialogue ends in this state.
func (s State) Terminal() bool {
	return s >= Submitted
}

// Prompt is the question asked of the submitter while in this state.
func (s State) Prompt() string {
	switch s {
	case AwaitingGuild:
		return "🔹 Select the server you are submitting to:"
	case AwaitingUsername:
		return "🔹 Enter your **Username**:"
	case AwaitingScore:
		return "🔹 Enter your **Score** (number):"
	case AwaitingImage1:
		return "🔹 Upload your **first image proof** (as an attachment):"
	case AwaitingImage2:
		return "🔹 Upload your **second image proof** (as an attachment):"
	default:
		return ""
	}
}
