package types

// ExperimentDetails is for collecting all the experiment-related details
type ExperimentDetails struct {
	ExperimentName  string
	InstanceID      string
	RunID           string
	AppNS           string
	AppLabel        string
	NamePattern     string
	TargetContainer string
	RestartCommand  string
	Quantity        int
	Policy          string
	Order           string
	Randomize       bool
	SelectAll       bool
	Sequence        string
	Interval        int
	TotalDuration   int
	PollInterval    int
	PollTimeout     int
	Timeout         int
	Delay           int
	RampTime        int
	OTelEndpoint    string
	MetricsAddr     string
}
