package environment

import (
	"os"

	"github.com/pkg/errors"
	yaml "gopkg.in/yaml.v2"
)

// ExperimentFile is the YAML experiment definition the workflow scheduler
// renders for a run. Its env block seeds the process environment, explicit
// env variables win over file values.
type ExperimentFile struct {
	Name string            `yaml:"name"`
	Env  map[string]string `yaml:"env"`
}

// LoadExperimentFile parses an experiment definition from disk.
func LoadExperimentFile(path string) (*ExperimentFile, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrapf(err, "unable to read experiment file %v", path)
	}
	file := &ExperimentFile{}
	if err := yaml.Unmarshal(raw, file); err != nil {
		return nil, errors.Wrapf(err, "unable to parse experiment file %v", path)
	}
	return file, nil
}

// Export seeds every env value from the file that is not already set in the
// process environment.
func (f *ExperimentFile) Export() error {
	for key, value := range f.Env {
		if _, present := os.LookupEnv(key); present {
			continue
		}
		if err := os.Setenv(key, value); err != nil {
			return errors.Wrapf(err, "unable to export %v from experiment file", key)
		}
	}
	return nil
}
