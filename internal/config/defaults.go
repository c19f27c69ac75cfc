package config

const (
	defaultBaseDir       = "~/Videos/crosscast"
	defaultLogDir        = "~/.local/share/crosscast/logs"
	defaultLogFormat     = "console"
	defaultLogLevel      = "info"
	defaultMaxConcurrent = 3
	defaultSettleSeconds = 3
	defaultExpireDays    = 7
	defaultNtfyTimeout   = 10
)

var defaultVideoExtensions = []string{
	".mov", ".mp4", ".avi", ".mkv", ".m4v", ".wmv", ".flv", ".webm",
}

// Default returns a Config populated with repository defaults. The default
// folder routing mirrors the layout the tool was built around: a CloudFlare
// folder fanning out to CloudFlare and Facebook (with series openers also
// going to YouTube), plus dedicated Pinterest and YouTube Shorts folders.
func Default() Config {
	return Config{
		Paths: Paths{
			BaseDir: defaultBaseDir,
			LogDir:  defaultLogDir,
		},
		Folders: []Folder{
			{
				Name:           "cloudflare",
				Dir:            "CloudFlare",
				Platforms:      []string{"cloudflare", "facebook"},
				BonusMatch:     "001",
				BonusPlatforms: []string{"youtube"},
			},
			{
				Name:      "pinterest",
				Dir:       "Pinterest",
				Platforms: []string{"pinterest"},
			},
			{
				Name:      "youtube_shorts",
				Dir:       "YouTube Shorts",
				Platforms: []string{"youtube_shorts"},
			},
		},
		Uploads: Uploads{
			MaxConcurrent:   defaultMaxConcurrent,
			SettleSeconds:   defaultSettleSeconds,
			ExpireDays:      defaultExpireDays,
			VideoExtensions: append([]string{}, defaultVideoExtensions...),
		},
		History: History{
			Enabled: true,
		},
		Notifications: Notifications{
			NtfyRequestTimeout: defaultNtfyTimeout,
		},
		Logging: Logging{
			Format: defaultLogFormat,
			Level:  defaultLogLevel,
		},
	}
}
