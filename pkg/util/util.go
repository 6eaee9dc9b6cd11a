package util

import (
	"fmt"
	"os"
	"strings"

	"github.com/sirupsen/logrus"
	"gopkg.in/yaml.v3"
)

// LoadConfig reads a YAML file and unmarshals it into a struct of type T.
func LoadConfig[T any](filepath string) (*T, error) {
	// 1. Read the file
	data, err := os.ReadFile(filepath)
	if err != nil {
		return nil, fmt.Errorf("failed to read file: %w", err)
	}

	// 2. Initialize an empty instance of T
	var config T

	// 3. Unmarshal the YAML data into the struct
	if err := yaml.Unmarshal(data, &config); err != nil {
		return nil, fmt.Errorf("failed to unmarshal yaml: %w", err)
	}

	return &config, nil
}

// LogWithLabel logs an info line tagged with label, usually a session ID.
func LogWithLabel(label string, format string, args ...any) {
	logrus.WithField("label", label).Infof(format, args...)
}

// DebugWithLabel is LogWithLabel at debug level.
func DebugWithLabel(label string, format string, args ...any) {
	logrus.WithField("label", label).Debugf(format, args...)
}

// SplitAssignment splits "key=value" input. Only the first '=' separates,
// so values may themselves contain '='.
func SplitAssignment(s string) (string, string, error) {
	key, value, found := strings.Cut(s, "=")
	if !found {
		return "", "", fmt.Errorf("expected key=value, got %q", s)
	}
	key = strings.TrimSpace(key)
	if key == "" {
		return "", "", fmt.Errorf("missing key in %q", s)
	}
	return key, value, nil
}
