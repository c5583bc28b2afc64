package retry

import (
	"fmt"
	"time"
)

// Action defines the prototype of action function, function as a value
type Action func(attempt uint) error

// Model defines the schema, contains all the attributes need for retry
type Model struct {
	retry    uint
	waitTime time.Duration
	terminal func(error) bool
}

// Times is used to define the retry count
// it will run if the instance of model is not present before
func Times(retry uint) *Model {
	model := Model{}
	return model.Times(retry)
}

// Times is used to define the retry count
// it will run if the instance of model is already present
func (model *Model) Times(retry uint) *Model {
	model.retry = retry
	return model
}

// Wait is used to define the wait duration after each iteration of retry
// it will run if the instance of model is not present before
func Wait(waitTime time.Duration) *Model {
	model := Model{}
	return model.Wait(waitTime)
}

// Wait is used to define the wait duration after each iteration of retry
// it will run if the instance of model is already present
func (model *Model) Wait(waitTime time.Duration) *Model {
	model.waitTime = waitTime
	return model
}

// Until registers a predicate marking errors as terminal, retrying stops
// as soon as the predicate matches the returned error
func (model *Model) Until(terminal func(error) bool) *Model {
	model.terminal = terminal
	return model
}

// Try is used to run a action with retries and some delay after each iteration
func (model Model) Try(action Action) error {
	if action == nil {
		return fmt.Errorf("no action specified")
	}

	var err error
	for attempt := uint(0); (attempt == 0 || err != nil) && attempt < model.retry; attempt++ {
		err = action(attempt)
		if err != nil && model.terminal != nil && model.terminal(err) {
			break
		}
		if model.waitTime > 0 {
			time.Sleep(model.waitTime)
		}
	}

	return err
}
