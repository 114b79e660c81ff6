package config

const (
	defaultStateDir             = "~/.local/share/voxum"
	defaultWorkDir              = "~/.local/share/voxum/work"
	defaultLogDir               = "~/.local/share/voxum/logs"
	defaultClientSecrets        = "~/.config/voxum/client_secrets.json"
	defaultDriveRequestTimeout  = 60
	defaultTranscriptionBaseURL = "https://api.openai.com/v1"
	defaultTranscriptionModel   = "whisper-1"
	defaultTranscriptionTimeout = 300
	defaultSummaryProvider      = "openai"
	defaultSummaryBaseURL       = "https://api.openai.com/v1"
	defaultSummaryModel         = "gpt-4o-mini"
	defaultSummaryLanguage      = "English"
	defaultSummaryTimeout       = 120
	defaultEmailRequestTimeout  = 30
	defaultPollInterval         = 60
	defaultListTimeout          = 30
	defaultLogFormat            = "console"
	defaultLogLevel             = "info"
)

// Default returns a Config populated with repository defaults.
func Default() Config {
	return Config{
		Paths: Paths{
			StateDir: defaultStateDir,
			WorkDir:  defaultWorkDir,
			LogDir:   defaultLogDir,
		},
		Drive: Drive{
			ClientSecrets:  defaultClientSecrets,
			RequestTimeout: defaultDriveRequestTimeout,
		},
		Transcription: Transcription{
			BaseURL:        defaultTranscriptionBaseURL,
			Model:          defaultTranscriptionModel,
			TimeoutSeconds: defaultTranscriptionTimeout,
		},
		Summary: Summary{
			Provider:       defaultSummaryProvider,
			BaseURL:        defaultSummaryBaseURL,
			Model:          defaultSummaryModel,
			Language:       defaultSummaryLanguage,
			TimeoutSeconds: defaultSummaryTimeout,
		},
		Email: Email{
			Enabled:        true,
			RequestTimeout: defaultEmailRequestTimeout,
		},
		Watcher: Watcher{
			PollInterval:       defaultPollInterval,
			ListTimeoutSeconds: defaultListTimeout,
		},
		Logging: Logging{
			Format: defaultLogFormat,
			Level:  defaultLogLevel,
		},
	}
}
