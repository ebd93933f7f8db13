package config

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// ValidateTimeout validates timeout duration
func ValidateTimeout(timeout time.Duration, name string) error {
	if timeout <= 0 {
		return fmt.Errorf("%s timeout must be positive", name)
	}
	if timeout > 2*time.Hour {
		return fmt.Errorf("%s timeout too large (max 2 hours)", name)
	}
	return nil
}

// ValidateURL validates URL format
func ValidateURL(url string, name string) error {
	if url == "" {
		return fmt.Errorf("%s URL is required", name)
	}

	if !strings.HasPrefix(url, "http://") && !strings.HasPrefix(url, "https://") {
		return fmt.Errorf("%s URL must start with http:// or https://", name)
	}

	return nil
}

// ValidatePort validates port number
func ValidatePort(port string, name string) error {
	if port == "" {
		return fmt.Errorf("%s port is required", name)
	}

	n, err := strconv.Atoi(port)
	if err != nil || n <= 0 || n > 65535 {
		return fmt.Errorf("%s port invalid: %s", name, port)
	}

	return nil
}

// ValidateMockMode accepts auto, true or false.
func ValidateMockMode(mode string) error {
	switch mode {
	case ModeAuto, ModeTrue, ModeFalse:
		return nil
	default:
		return fmt.Errorf("mock mode must be one of auto, true, false: got %q", mode)
	}
}
