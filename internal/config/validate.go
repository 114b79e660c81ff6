package config

import (
	"errors"
	"fmt"
)

// Validate ensures the configuration is usable.
func (c *Config) Validate() error {
	if err := c.validateSummary(); err != nil {
		return err
	}
	if err := c.validateEmail(); err != nil {
		return err
	}
	if err := c.validateWatcher(); err != nil {
		return err
	}
	return nil
}

// ValidateForWatch checks the settings the watch loop cannot run without.
// Kept separate from Validate so processing a single local file does not
// require Drive credentials.
func (c *Config) ValidateForWatch() error {
	if c.Drive.FolderID == "" {
		return errors.New("drive.folder_id is required for watch mode. Set GOOGLE_DRIVE_FOLDER_ID or edit the config file")
	}
	return nil
}

func (c *Config) validateSummary() error {
	switch c.Summary.Provider {
	case "openai", "gemini":
	default:
		return fmt.Errorf("summary.provider must be one of openai, gemini (got %q)", c.Summary.Provider)
	}
	return nil
}

func (c *Config) validateEmail() error {
	if !c.Email.Enabled {
		return nil
	}
	if c.Email.To == "" {
		return errors.New("email.to is required when email delivery is enabled. Set EMAIL_TO or disable [email]")
	}
	if c.Email.From == "" {
		return errors.New("email.from is required when email delivery is enabled. Set EMAIL_FROM or disable [email]")
	}
	return nil
}

func (c *Config) validateWatcher() error {
	if c.Watcher.PollInterval < 5 {
		return errors.New("watcher.poll_interval must be at least 5 seconds")
	}
	return nil
}
