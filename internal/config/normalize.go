package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

func (c *Config) normalize() error {
	if err := c.normalizePaths(); err != nil {
		return err
	}
	if err := c.normalizeDrive(); err != nil {
		return err
	}
	c.normalizeTranscription()
	c.normalizeSummary()
	c.normalizeEmail()
	c.normalizeWatcher()
	c.normalizeLogging()
	return nil
}

func (c *Config) normalizePaths() error {
	var err error
	if strings.TrimSpace(c.Paths.StateDir) == "" {
		c.Paths.StateDir = defaultStateDir
	}
	if c.Paths.StateDir, err = expandPath(c.Paths.StateDir); err != nil {
		return fmt.Errorf("paths.state_dir: %w", err)
	}
	if strings.TrimSpace(c.Paths.WorkDir) == "" {
		c.Paths.WorkDir = filepath.Join(c.Paths.StateDir, "work")
	}
	if c.Paths.WorkDir, err = expandPath(c.Paths.WorkDir); err != nil {
		return fmt.Errorf("paths.work_dir: %w", err)
	}
	if strings.TrimSpace(c.Paths.LogDir) == "" {
		c.Paths.LogDir = filepath.Join(c.Paths.StateDir, "logs")
	}
	if c.Paths.LogDir, err = expandPath(c.Paths.LogDir); err != nil {
		return fmt.Errorf("paths.log_dir: %w", err)
	}
	if strings.TrimSpace(c.Paths.InboxDir) != "" {
		if c.Paths.InboxDir, err = expandPath(c.Paths.InboxDir); err != nil {
			return fmt.Errorf("paths.inbox_dir: %w", err)
		}
	}
	return nil
}

func (c *Config) normalizeDrive() error {
	var err error
	c.Drive.FolderID = strings.TrimSpace(c.Drive.FolderID)
	if c.Drive.FolderID == "" {
		if value, ok := os.LookupEnv("GOOGLE_DRIVE_FOLDER_ID"); ok {
			c.Drive.FolderID = strings.TrimSpace(value)
		}
	}
	if strings.TrimSpace(c.Drive.ClientSecrets) == "" {
		c.Drive.ClientSecrets = defaultClientSecrets
	}
	if c.Drive.ClientSecrets, err = expandPath(c.Drive.ClientSecrets); err != nil {
		return fmt.Errorf("drive.client_secrets: %w", err)
	}
	if strings.TrimSpace(c.Drive.TokenPath) == "" {
		c.Drive.TokenPath = filepath.Join(c.Paths.StateDir, "token.json")
	}
	if c.Drive.TokenPath, err = expandPath(c.Drive.TokenPath); err != nil {
		return fmt.Errorf("drive.token_path: %w", err)
	}
	if c.Drive.RequestTimeout <= 0 {
		c.Drive.RequestTimeout = defaultDriveRequestTimeout
	}
	return nil
}

func (c *Config) normalizeTranscription() {
	c.Transcription.APIKey = strings.TrimSpace(c.Transcription.APIKey)
	if c.Transcription.APIKey == "" {
		if value, ok := os.LookupEnv("OPENAI_API_KEY"); ok {
			c.Transcription.APIKey = strings.TrimSpace(value)
		}
	}
	c.Transcription.BaseURL = strings.TrimSpace(c.Transcription.BaseURL)
	if c.Transcription.BaseURL == "" {
		c.Transcription.BaseURL = defaultTranscriptionBaseURL
	}
	c.Transcription.Model = strings.TrimSpace(c.Transcription.Model)
	if c.Transcription.Model == "" {
		c.Transcription.Model = defaultTranscriptionModel
	}
	if c.Transcription.TimeoutSeconds <= 0 {
		c.Transcription.TimeoutSeconds = defaultTranscriptionTimeout
	}
}

func (c *Config) normalizeSummary() {
	c.Summary.Provider = strings.ToLower(strings.TrimSpace(c.Summary.Provider))
	if c.Summary.Provider == "" {
		c.Summary.Provider = defaultSummaryProvider
	}
	c.Summary.APIKey = strings.TrimSpace(c.Summary.APIKey)
	if c.Summary.APIKey == "" {
		switch c.Summary.Provider {
		case "gemini":
			if value, ok := os.LookupEnv("GEMINI_API_KEY"); ok {
				c.Summary.APIKey = strings.TrimSpace(value)
			}
		default:
			if value, ok := os.LookupEnv("OPENAI_API_KEY"); ok {
				c.Summary.APIKey = strings.TrimSpace(value)
			}
		}
	}
	c.Summary.BaseURL = strings.TrimSpace(c.Summary.BaseURL)
	if c.Summary.BaseURL == "" {
		c.Summary.BaseURL = defaultSummaryBaseURL
	}
	c.Summary.Model = strings.TrimSpace(c.Summary.Model)
	if c.Summary.Model == "" {
		c.Summary.Model = defaultSummaryModel
	}
	c.Summary.Language = strings.TrimSpace(c.Summary.Language)
	if c.Summary.Language == "" {
		c.Summary.Language = defaultSummaryLanguage
	}
	if c.Summary.TimeoutSeconds <= 0 {
		c.Summary.TimeoutSeconds = defaultSummaryTimeout
	}
}

func (c *Config) normalizeEmail() {
	c.Email.APIKey = strings.TrimSpace(c.Email.APIKey)
	if c.Email.APIKey == "" {
		if value, ok := os.LookupEnv("RESEND_API_KEY"); ok {
			c.Email.APIKey = strings.TrimSpace(value)
		}
	}
	c.Email.To = strings.TrimSpace(c.Email.To)
	if c.Email.To == "" {
		if value, ok := os.LookupEnv("EMAIL_TO"); ok {
			c.Email.To = strings.TrimSpace(value)
		}
	}
	c.Email.From = strings.TrimSpace(c.Email.From)
	if c.Email.From == "" {
		if value, ok := os.LookupEnv("EMAIL_FROM"); ok {
			c.Email.From = strings.TrimSpace(value)
		}
	}
	if c.Email.RequestTimeout <= 0 {
		c.Email.RequestTimeout = defaultEmailRequestTimeout
	}
}

func (c *Config) normalizeWatcher() {
	if c.Watcher.PollInterval <= 0 {
		c.Watcher.PollInterval = defaultPollInterval
	}
	if c.Watcher.ListTimeoutSeconds <= 0 {
		c.Watcher.ListTimeoutSeconds = defaultListTimeout
	}
}

func (c *Config) normalizeLogging() {
	c.Logging.Format = strings.ToLower(strings.TrimSpace(c.Logging.Format))
	switch c.Logging.Format {
	case "", "console":
		c.Logging.Format = "console"
	case "json":
	default:
		c.Logging.Format = "console"
	}
	c.Logging.Level = strings.ToLower(strings.TrimSpace(c.Logging.Level))
	if c.Logging.Level == "" {
		c.Logging.Level = defaultLogLevel
	}
}
