package config

const (
	defaultDataDir             = "~/.local/share/reelgate"
	defaultLogDir              = "~/.local/share/reelgate/logs"
	defaultHealthBind          = "127.0.0.1:8080"
	defaultGatewayBind         = "127.0.0.1:8081"
	defaultDeleteDelayMinutes  = 30
	defaultPageSize            = 8
	defaultSuggestionLimit     = 3
	defaultSuggestionThreshold = 75
	defaultLogFormat           = "console"
	defaultLogLevel            = "info"
)

// Default returns a Config populated with repository defaults.
func Default() Config {
	return Config{
		Paths: Paths{
			DataDir:    defaultDataDir,
			LogDir:     defaultLogDir,
			HealthBind: defaultHealthBind,
		},
		Gateway: Gateway{
			Bind: defaultGatewayBind,
		},
		Delivery: Delivery{
			DeleteDelayMinutes: defaultDeleteDelayMinutes,
		},
		Matcher: Matcher{
			PageSize:            defaultPageSize,
			SuggestionLimit:     defaultSuggestionLimit,
			SuggestionThreshold: defaultSuggestionThreshold,
		},
		Logging: Logging{
			Format: defaultLogFormat,
			Level:  defaultLogLevel,
		},
	}
}
