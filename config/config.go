package config

import (
	"fmt"
	"os"
	"strings"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
	"github.com/mattn/go-colorable"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"github.com/vadar/recall-ticker/token"
)

// Will be set by go-build
var (
	Version = "1.0.0"
	Rev     string
)

const envPrefix = "RECALL"

func Parse() *Config {
	// Set log format
	formatter := &logrus.TextFormatter{
		FullTimestamp:   true,
		TimestampFormat: "15:04:05",
	}
	logrus.SetFormatter(formatter)
	logrus.SetOutput(colorable.NewColorableStderr()) // For Windows

	fs := pflag.CommandLine
	defineFlags(fs)
	showVersion := fs.BoolP("version", "v", false, "Show version number")
	showHelp := fs.BoolP("help", "h", false, "Show usage message")
	fs.MarkHidden("help")
	listTokens := fs.BoolP("list-tokens", "l", false, "List supported tokens")
	var configFile string
	fs.StringVarP(&configFile, "config-file", "c", "", "Config file path, "+
		"by default recall-ticker uses \"recall_ticker.yml\" in current directory or $HOME as config file")
	fs.SortFlags = false
	pflag.Usage = showUsageAndExit
	pflag.Parse()

	if *showHelp {
		showUsageAndExit()
	}

	if *showVersion {
		fmt.Fprintf(os.Stderr, "Version %s", Version)
		if Rev != "" {
			fmt.Fprintf(os.Stderr, ", build %s", Rev)
		}
		fmt.Fprintln(os.Stderr)
		os.Exit(0)
	}

	env, err := LoadEnv(".env")
	if err != nil {
		logrus.Fatalf("Failed to load environment, error: %v", err)
	}

	cfg, err := build(viper.GetViper(), fs, env, configFile)
	if err != nil {
		logrus.Fatalln(err)
	}
	if cfg.Debug {
		logrus.SetLevel(logrus.DebugLevel)
	}
	logrus.Debugln("Using config file:", viper.ConfigFileUsed())
	if cfg.APIKey == "" {
		logrus.Warnf("No API key configured, set %s_API_KEY or api_key in config file", envPrefix)
	}
	if *listTokens {
		ListTokensAndExit(token.GetAllNames())
	}
	return cfg
}

// LoadEnv reads RECALL_* variables, after loading dotenvPath if it exists.
func LoadEnv(dotenvPath string) (Env, error) {
	var env Env
	if dotenvPath != "" {
		if _, err := os.Stat(dotenvPath); err == nil {
			// Variables already set in the environment win over the file
			if err := godotenv.Load(dotenvPath); err != nil {
				return env, errors.Wrapf(err, "load %s", dotenvPath)
			}
		}
	}
	if err := envconfig.Process(envPrefix, &env); err != nil {
		return env, errors.Wrap(err, "process env")
	}
	return env, nil
}

func defineFlags(fs *pflag.FlagSet) {
	fs.BoolP("debug", "d", false, "Enable debug mode")
	fs.IntP("refresh", "r", 0, "Auto refresh on every specified seconds, "+
		"\ntoo frequent refresh may exceed the API rate limit")
	fs.StringSliceP("show", "s", supportedColumns(), "Only show comma-separated columns")
	fs.String("chain", DefaultChain, "Blockchain type passed to the price API")
	fs.String("specific-chain", DefaultSpecificChain, "Specific chain passed to the price API")
	fs.String("api-url", "", "Price API base URL, overrides "+envPrefix+"_API_URL")
	fs.StringP("proxy", "p", "", "Proxy used when sending HTTP request \n(eg. "+
		"\"http://localhost:7777\", \"https://localhost:7777\", \"socks5://localhost:1080\")")
	fs.IntP("timeout", "t", DefaultTimeout, "HTTP request timeout in seconds")
}

// build merges, lowest first: defaults, environment, config file, flags.
func build(v *viper.Viper, fs *pflag.FlagSet, env Env, configFile string) (*Config, error) {
	v.SetDefault("api_key", env.APIKey)
	apiURL := env.APIURL
	if apiURL == "" {
		apiURL = DefaultBaseURL
	}
	v.SetDefault("api_url", apiURL)

	for key, flag := range map[string]string{
		"debug":          "debug",
		"refresh":        "refresh",
		"show":           "show",
		"chain":          "chain",
		"specific_chain": "specific-chain",
		"api_url":        "api-url",
		"proxy":          "proxy",
		"timeout":        "timeout",
	} {
		if f := fs.Lookup(flag); f != nil {
			if err := v.BindPFlag(key, f); err != nil {
				return nil, errors.Wrapf(err, "bind flag %s", flag)
			}
		}
	}

	// So that debug lines about config discovery below are visible
	if v.GetBool("debug") {
		logrus.SetLevel(logrus.DebugLevel)
	}

	// Set configure file
	v.SetConfigName("recall_ticker") // name of config file (without extension)
	v.AddConfigPath(".")             // path to look for the config file in
	v.AddConfigPath("$HOME")         // optionally look for config in the HOME directory
	v.AddConfigPath("/etc")          // and /etc
	if configFile != "" {
		v.SetConfigFile(configFile)
	}
	if err := v.ReadInConfig(); err != nil {
		switch err.(type) {
		case viper.ConfigFileNotFoundError:
			logrus.Debugln("No config file found, using flags and environment")
		default:
			if configFile != "" {
				return nil, errors.Wrapf(err, "read config file %s", configFile)
			}
			logrus.Warnf("Error reading config file: %v", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, errors.Wrapf(err, "failed to parse %q", v.ConfigFileUsed())
	}
	// an empty --api-url flag must not clobber the environment
	if cfg.APIURL == "" {
		cfg.APIURL = apiURL
	}
	if fs.NArg() != 0 {
		// command-line symbols take precedence
		cfg.Tokens = parseTokens(fs.Args())
	} else {
		cfg.Tokens = parseTokens(cfg.Tokens)
	}
	return &cfg, nil
}

func showUsageAndExit() {
	// Print usage message and exit
	fmt.Fprintf(os.Stderr, "\nUsage: %s [Options] [Symbol1 Symbol2 ...]\n", os.Args[0])
	fmt.Fprintln(os.Stderr, "\nShow USD prices of tokens from the Recall price API in the terminal")
	fmt.Fprintln(os.Stderr, "\nOptions:")
	pflag.PrintDefaults()
	fmt.Fprintln(os.Stderr, "\nSpace-separated symbols:")
	fmt.Fprintln(os.Stderr, "  Which tokens to price (eg. \"USDC WETH\"), case-insensitive. All known tokens when omitted.")
	fmt.Fprintf(os.Stderr, "\nThe API key is read from %s_API_KEY, optionally set in a .env file.\n", envPrefix)
	os.Exit(0)
}

func ListTokensAndExit(tokens []string) {
	fmt.Fprintln(os.Stderr, "Supported tokens:")
	for _, name := range tokens {
		fmt.Fprintf(os.Stderr, " %s\n", name)
	}
	os.Exit(0)
}

// Upper-cases symbols from the command line or config file,
// also accepts comma-separated lists, e.g. "usdc,dai weth"
func parseTokens(args []string) []string {
	var tokens []string
	for _, arg := range args {
		for _, symbol := range strings.Split(arg, ",") {
			if symbol = strings.TrimSpace(symbol); symbol != "" {
				tokens = append(tokens, strings.ToUpper(symbol))
			}
		}
	}
	return tokens
}
