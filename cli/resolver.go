package cli

import (
	"io"
	"strconv"
	"strings"

	"github.com/alecthomas/kong"
	"github.com/goccy/go-yaml"
)

// resolve is a [kong.ConfigurationLoader] for YAML configuration files.
//
// Nested mappings are flattened by joining keys with hyphens, so both of
// these set --log-level:
//
//	log-level: debug
//
//	log:
//	  level: debug
//
// Keys under a command name apply only to that command's flags:
//
//	run:
//	  max-depth: 200
//
// Underscores may be used in place of hyphens. Command-line flags override
// configuration values.
func resolve(r io.Reader) (kong.Resolver, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, err
	}

	var doc map[string]any
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, err
	}

	conf := make(config)
	conf.flatten("", doc)

	return conf, nil
}

// config implements [kong.Resolver] over flattened configuration keys.
type config map[string]any

func (c config) flatten(prefix string, m map[string]any) {
	for k, v := range m {
		key := strings.ReplaceAll(k, "_", "-")
		if prefix != "" {
			key = prefix + "-" + key
		}

		switch v := v.(type) {
		case map[string]any:
			c.flatten(key, v)
		case uint64:
			// kong parses numeric flags from strings
			c[key] = strconv.FormatUint(v, 10)
		case int64:
			c[key] = strconv.FormatInt(v, 10)
		case float64:
			c[key] = strconv.FormatFloat(v, 'f', -1, 64)
		default:
			c[key] = v
		}
	}
}

// Validate implements [kong.Resolver].
func (c config) Validate(*kong.Application) error { return nil }

// Resolve implements [kong.Resolver]. A key qualified by the selected
// command takes precedence over a global one.
func (c config) Resolve(_ *kong.Context, parent *kong.Path, flag *kong.Flag) (any, error) {
	if parent != nil && parent.Command != nil {
		if v, ok := c[parent.Command.Name+"-"+flag.Name]; ok {
			return v, nil
		}
	}

	if v, ok := c[flag.Name]; ok {
		return v, nil
	}

	return nil, nil
}
