package config

// Config holds every recognized prflight option. All values are plain strings,
// read once at startup and never mutated afterwards.
type Config struct {
	// Endpoint is the base URL of the GitHub instance. Defaults to the public
	// API; set it to your GitHub Enterprise URL otherwise.
	Endpoint string `json:"endpoint"`
	// Username is the account name on the instance. Optional — token auth does
	// not require it, but it is kept as a recognized option.
	Username string `json:"username"`
	// Token is the API token used to authenticate.
	Token string `json:"token"`
	// Owner is the repository owner.
	Owner string `json:"owner"`
	// Repo is the repository name.
	Repo string `json:"repo"`
	// WorkTree is the path to a local clone of the repository. The clone is
	// arbitrarily modified on every run — never point this at a development
	// checkout.
	WorkTree string `json:"work_tree"`
	// CheckerPath is the path to the checker executable.
	CheckerPath string `json:"checker_path"`
	// CheckerConfigPath is an optional config file handed to the checker via
	// its environment.
	CheckerConfigPath string `json:"checker_config_path"`
}

// DefaultConfig returns a Config with defaults applied.
func DefaultConfig() Config {
	return Config{
		Endpoint: "https://api.github.com",
	}
}
