package depflow

import (
	"github.com/juju/errors"
	log "github.com/sirupsen/logrus"
	"github.com/warriorguo/depflow/runtime"
	"github.com/warriorguo/depflow/store"
	"github.com/warriorguo/depflow/store/mem"
	"github.com/warriorguo/depflow/store/postgres"
	"github.com/warriorguo/depflow/types"
)

// NewEngine creates an engine with the given options
func NewEngine(opts ...types.RunOption) (*runtime.Engine, error) {
	return NewEngineWithOptions(types.NewRunOptions().Apply(opts...))
}

func NewEngineWithOptions(options *types.RunOptions) (*runtime.Engine, error) {
	if options == nil {
		options = types.NewRunOptions()
	}
	if err := options.Validate(); err != nil {
		return nil, errors.Trace(err)
	}

	var s store.Store
	var err error

	// PostgresConfig takes precedence over MemStore
	if options.PostgresConfig != nil {
		s, err = postgres.NewPostgresStore(postgres.FromOptions(options.PostgresConfig))
		if err != nil {
			return nil, errors.Annotatef(err, "failed to create PostgreSQL store")
		}
		log.Infof("tracing runs into postgres %s:%d", options.PostgresConfig.Host, options.PostgresConfig.Port)
	} else {
		s = mem.NewMemStore()
	}

	return runtime.NewEngine(s, options), nil
}
