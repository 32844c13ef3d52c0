package holdout

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

type HeldOutFile struct {
	TestUsers []int          `yaml:"test_users"`
	Entries   []HeldOutEntry `yaml:"entries"`
}

func WriteHeldOutFile(hf *HeldOutFile, path string) error {
	data, err := yaml.Marshal(hf)
	if err != nil {
		return fmt.Errorf("marshal held-out file: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("write held-out file: %w", err)
	}
	return nil
}
