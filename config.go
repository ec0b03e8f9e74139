package depflow

import (
	"os"

	"github.com/juju/errors"
	log "github.com/sirupsen/logrus"
	"github.com/warriorguo/depflow/types"
	"gopkg.in/yaml.v3"
)

// LoadConfig reads run options from a YAML file on top of the defaults.
// A missing file yields the defaults.
func LoadConfig(path string) (*types.RunOptions, error) {
	opts := types.NewRunOptions()
	if path == "" {
		return opts, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			log.Infof("no config found at %s, using defaults", path)
			return opts, nil
		}
		return nil, errors.Annotatef(err, "read config %s", path)
	}

	if err := yaml.Unmarshal(data, opts); err != nil {
		return nil, types.NewConfigErrorf("malformed config %s: %v", path, err)
	}
	if err := opts.Validate(); err != nil {
		return nil, errors.Annotatef(err, "config %s", path)
	}

	log.Infof("loaded config from %s", path)
	return opts, nil
}
