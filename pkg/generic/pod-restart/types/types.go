package types

// ExperimentDetails is for collecting all the experiment-related details
type ExperimentDetails struct {
	ExperimentName string
	InstanceID     string
	RunID          string
	AppNS          string
	AppLabel       string
	NamePattern    string
	GracePeriod    int
	Quantity       int
	Policy         string
	Order          string
	Randomize      bool
	SelectAll      bool
	Interval       int
	TotalDuration  int
	Timeout        int
	Delay          int
	RampTime       int
	OTelEndpoint   string
	MetricsAddr    string
}
