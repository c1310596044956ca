// Package config loads generator settings from a file, ADAPTERGEN_
// environment variables and command line flags, in increasing precedence.
package config

import (
	"path/filepath"
	"strings"

	"github.com/cockroachdb/errors"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"adapter-generator/internal/backend"
	"adapter-generator/internal/logging"
	"adapter-generator/internal/match"
	"adapter-generator/internal/model"
)

// EnvPrefix prefixes environment overrides, e.g. ADAPTERGEN_LOG_LEVEL.
const EnvPrefix = "ADAPTERGEN"

var (
	// ErrNoInput is returned when neither a model file nor packages are given.
	ErrNoInput = errors.New("either model or packages must be set")
	// ErrAmbiguousInput is returned when both inputs are given.
	ErrAmbiguousInput = errors.New("model and packages are mutually exclusive")
	// ErrNoPackage is returned when the Go frontend has no output import path.
	ErrNoPackage = errors.New("package import path is required with packages")
)

// Config holds the settings of one generator run.
type Config struct {
	// Model is a YAML or JSON model file.
	Model string `mapstructure:"model" json:"model,omitempty"`
	// Packages are Go package patterns analyzed instead of a model file.
	Packages []string `mapstructure:"packages" json:"packages,omitempty"`
	// Types restricts the analyzed structs.
	Types []string `mapstructure:"types" json:"types,omitempty"`
	// Output is the directory generated files are written to.
	Output string `mapstructure:"output" json:"output"`
	// Package is the import path of the output package.
	Package string `mapstructure:"package" json:"package,omitempty"`
	// Name overrides the output package name.
	Name     string         `mapstructure:"name" json:"name,omitempty"`
	Backend  string         `mapstructure:"backend" json:"backend"`
	Unknown  string         `mapstructure:"unknown" json:"unknown"`
	Naming   string         `mapstructure:"naming" json:"naming"`
	Comments bool           `mapstructure:"comments" json:"comments"`
	Log      logging.Config `mapstructure:"log" json:"log"`
}

// Default returns the built-in settings.
func Default() *Config {
	return &Config{
		Output:   "./generated",
		Backend:  backend.JSONIter{}.Name(),
		Unknown:  model.UnknownFail.String(),
		Naming:   string(match.NamingGo),
		Comments: true,
		Log: logging.Config{
			Level:  "info",
			Format: "console",
		},
	}
}

// Flags registers the command line flags Load understands.
func Flags(fs *pflag.FlagSet) {
	def := Default()

	fs.StringP("config", "c", "", "config file (.yaml, .yml or .json)")
	fs.StringP("model", "m", "", "model file (.yaml, .yml or .json)")
	fs.StringSliceP("packages", "p", nil, "Go packages to analyze instead of a model file")
	fs.StringSlice("types", nil, "analyze only these structs")
	fs.StringP("output", "o", def.Output, "output directory")
	fs.String("package", "", "import path of the output package")
	fs.String("name", "", "output package name")
	fs.String("backend", def.Backend, "token stream backend")
	fs.String("unknown", def.Unknown, "unknown property policy of analyzed structs (fail, skip)")
	fs.String("naming", def.Naming, "property naming of analyzed structs (go, camel, snake)")
	fs.Bool("comments", def.Comments, "generate doc comments")
	fs.String("log-level", def.Log.Level, "log level")
}

// flagKeys maps flag names to config keys where they differ.
var flagKeys = map[string]string{
	"log-level": "log.level",
}

// Load resolves the settings. path may be empty; fs may be nil.
func Load(path string, fs *pflag.FlagSet) (*Config, error) {
	v := viper.New()

	def := Default()
	v.SetDefault("output", def.Output)
	v.SetDefault("backend", def.Backend)
	v.SetDefault("unknown", def.Unknown)
	v.SetDefault("naming", def.Naming)
	v.SetDefault("comments", def.Comments)
	v.SetDefault("log.level", def.Log.Level)
	v.SetDefault("log.format", def.Log.Format)
	v.SetDefault("log.stdout", false)
	v.SetDefault("log.file.rootpath", "")
	v.SetDefault("log.file.filename", "")

	for _, key := range []string{"model", "packages", "types", "package", "name"} {
		v.SetDefault(key, nil)
	}

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
	v.AutomaticEnv()

	if path != "" {
		if err := loadFile(v, path); err != nil {
			return nil, err
		}
	}

	if fs != nil {
		var bindErr error

		fs.VisitAll(func(f *pflag.Flag) {
			if f.Name == "config" || bindErr != nil {
				return
			}

			key, ok := flagKeys[f.Name]
			if !ok {
				key = f.Name
			}

			bindErr = v.BindPFlag(key, f)
		})

		if bindErr != nil {
			return nil, errors.Wrap(bindErr, "binding flags")
		}
	}

	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, errors.Wrap(err, "decoding config")
	}

	return cfg, nil
}

func loadFile(v *viper.Viper, path string) error {
	v.SetConfigFile(path)

	switch ext := filepath.Ext(path); ext {
	case ".yaml", ".yml":
		v.SetConfigType("yaml")
	case ".json":
		v.SetConfigType("json")
	}

	if err := v.ReadInConfig(); err != nil {
		return errors.Wrapf(err, "reading config %s", path)
	}

	return nil
}

// Validate checks that the settings describe one runnable input.
func (c *Config) Validate() error {
	switch {
	case c.Model == "" && len(c.Packages) == 0:
		return ErrNoInput
	case c.Model != "" && len(c.Packages) > 0:
		return ErrAmbiguousInput
	case len(c.Packages) > 0 && c.Package == "":
		return ErrNoPackage
	}

	if _, err := c.NamingStyle(); err != nil {
		return err
	}

	if _, err := c.UnknownPolicy(); err != nil {
		return err
	}

	_, err := backend.Lookup(c.Backend)

	return err
}

// NamingStyle parses Naming.
func (c *Config) NamingStyle() (match.NamingStyle, error) {
	return match.ParseNamingStyle(c.Naming)
}

// UnknownPolicy parses Unknown.
func (c *Config) UnknownPolicy() (model.UnknownPolicy, error) {
	var p model.UnknownPolicy
	err := p.UnmarshalText([]byte(c.Unknown))

	return p, err
}
